package cmd

import (
	"context"
	"envm/internal/console"
	"envm/internal/constants"
	"envm/internal/gitignore"
	"envm/internal/logger"
	"envm/internal/repository"
	"envm/internal/version"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
)

// isInteractive reports whether prompts can be shown.
var isInteractive = console.IsInteractive

func handleHelp(w io.Writer, group *CommandGroup) {
	target := ""
	if len(group.Args) > 0 {
		target = group.Args[0]
	}
	console.Fprintln(w, GetUsage(target))
}

func handleVersion(ctx context.Context, w io.Writer) {
	console.Fprintln(w, fmt.Sprintf("{{_ApplicationName_}}%s{{|-|}} [{{_Version_}}%s{{|-|}}]", version.ApplicationName, version.Version))
	logger.Info(ctx, "Commit %s, built %s", version.Commit, version.BuildDate)
}

func handleInit(ctx context.Context, w io.Writer, state *CmdState) error {
	markerPath, err := repository.Init(ctx, state.Dir)
	if err != nil {
		return err
	}
	console.Fprintln(w, fmt.Sprintf("Initialized {{_ApplicationName_}}%s{{|-|}} repository in '{{_Folder_}}%s{{|-|}}'", version.ApplicationName, markerPath))

	if repo, err := repository.Load(ctx, state.Dir); err == nil {
		warnIfNotIgnored(ctx, repo)
	}
	return nil
}

func handleUse(ctx context.Context, w io.Writer, group *CommandGroup, state *CmdState) error {
	repo, err := repository.Load(ctx, state.Dir)
	if err != nil {
		return err
	}
	env := group.Args[0]
	if err := repo.SwitchTo(ctx, env); err != nil {
		return err
	}
	console.Fprintln(w, fmt.Sprintf("Switched to '{{_Env_}}%s{{|-|}}' environment", env))
	warnIfNotIgnored(ctx, repo)
	return nil
}

func handleNew(ctx context.Context, w io.Writer, group *CommandGroup, state *CmdState) error {
	repo, err := repository.Load(ctx, state.Dir)
	if err != nil {
		return err
	}
	env := group.Args[0]
	if err := repo.NewEnvironment(ctx, env); err != nil {
		return err
	}
	console.Fprintln(w, fmt.Sprintf("Created a new environment '{{_Env_}}%s{{|-|}}'", env))
	return nil
}

func handleList(ctx context.Context, w io.Writer, state *CmdState) error {
	repo, err := repository.Load(ctx, state.Dir)
	if err != nil {
		return err
	}
	names, err := repo.ListEnvironments(ctx)
	if err != nil {
		return err
	}
	slices.Sort(names)

	current, _ := repo.Current().Name()
	for _, name := range names {
		if name == current {
			console.Fprintln(w, "{{_Current_}}"+name+"{{|-|}}")
		} else {
			console.Fprintln(w, name)
		}
	}
	return nil
}

func handleRemove(ctx context.Context, w io.Writer, group *CommandGroup, state *CmdState) error {
	repo, err := repository.Load(ctx, state.Dir)
	if err != nil {
		return err
	}
	env := group.Args[0]

	// Report an environment that cannot be removed before asking for confirmation
	if _, err := repo.CheckRemovable(env); err != nil {
		return err
	}

	if isInteractive() {
		question := fmt.Sprintf("Would you like to remove the '{{_Env_}}%s{{|-|}}' environment?", env)
		if !console.QuestionPrompt(ctx, logger.Notice, question, "N", state.Yes) {
			logger.Notice(ctx, "Nothing was removed.")
			return nil
		}
	}

	if err := repo.RemoveEnvironment(ctx, env); err != nil {
		return err
	}
	console.Fprintln(w, fmt.Sprintf("Removed environment '{{_Env_}}%s{{|-|}}'", env))
	return nil
}

func handleCurrent(ctx context.Context, w io.Writer, state *CmdState) error {
	repo, err := repository.Load(ctx, state.Dir)
	if err != nil {
		return err
	}
	console.Fprintln(w, fmt.Sprintf("Currently using '{{_Current_}}%s{{|-|}}' environment", repo.Current()))
	return nil
}

func handleDiff(ctx context.Context, w io.Writer, group *CommandGroup, state *CmdState) error {
	repo, err := repository.Load(ctx, state.Dir)
	if err != nil {
		return err
	}
	env := repo.Current().String()
	if len(group.Args) > 0 {
		env = group.Args[0]
	}

	missing, extra, err := repo.CompareToTemplate(ctx, env)
	if err != nil {
		return err
	}

	if missing != nil {
		console.Fprintln(w, "missing variables:")
		for _, key := range missing {
			console.Fprintln(w, "{{_Missing_}}- "+key+"{{|-|}}")
		}
	}
	if extra != nil {
		console.Fprintln(w, "extra variables:")
		for _, key := range extra {
			console.Fprintln(w, "{{_Extra_}}+ "+key+"{{|-|}}")
		}
	}
	if missing == nil && extra == nil {
		logger.Info(ctx, "'{{_Env_}}%s{{|-|}}' has the same variables as the template.", env)
	}
	return nil
}

func handleGitignore(ctx context.Context, w io.Writer, state *CmdState) error {
	repo, err := repository.Load(ctx, state.Dir)
	if err != nil {
		return err
	}

	file, err := gitignore.Load(filepath.Join(repo.Root(), constants.GitignoreFileName))
	if err != nil {
		return err
	}
	patterns := repo.Config().GitignorePatterns()
	logger.Debug(ctx, "Ignoring patterns %v in '{{_File_}}%s{{|-|}}'", patterns, file.Path())
	if err := file.IgnorePatternsSection(constants.GitignoreSection, patterns).Save(); err != nil {
		return err
	}

	console.Fprintln(w, fmt.Sprintf("Updated '{{_File_}}%s{{|-|}}' with '{{_File_}}%s{{|-|}}' and patterns from configuration", constants.GitignoreFileName, constants.MarkerDirName))
	return nil
}

// warnIfNotIgnored warns when the repository is under git and its .gitignore
// lets the local environment file be committed.
func warnIfNotIgnored(ctx context.Context, repo *repository.Repository) {
	root := repo.Root()
	path := filepath.Join(root, constants.GitignoreFileName)
	if !exists(filepath.Join(root, ".git")) && !exists(path) {
		return
	}

	file, err := gitignore.Load(path)
	if err != nil {
		logger.Debug(ctx, "Skipping the .gitignore check: %v", err)
		return
	}

	local := repo.Config().Local
	if !file.Ignores(local, false) {
		logger.Warn(ctx, "'{{_File_}}%s{{|-|}}' is not ignored by git. Run '{{_UserCommand_}}%s gitignore{{|-|}}' to keep environments out of commits.", local, version.CommandName)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
