package cmd

import (
	"context"
	"envm/internal/logger"
	"envm/internal/repository"
	"envm/internal/version"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CmdState holds the state of flags for the command being run.
type CmdState struct {
	Yes bool
	Dir string // Folder the repository is looked up from
}

// Execute runs a parsed command line, writing command output to stdout.
// It returns the process exit code.
func Execute(ctx context.Context, group CommandGroup) int {
	return execute(ctx, group, os.Stdout)
}

func execute(ctx context.Context, group CommandGroup, w io.Writer) int {
	state := CmdState{Dir: group.Directory}

	// Apply Flags
	level := logger.LevelNotice
	for _, flag := range group.Flags {
		switch flag {
		case "--verbose":
			level = min(level, logger.LevelInfo)
		case "--debug":
			level = min(level, logger.LevelDebug)
		case "--yes":
			state.Yes = true
		}
	}
	logger.SetLevel(level)
	defer logger.SetLevel(logger.LevelNotice)

	if state.Dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			logger.Error(ctx, "Failed to get the current folder: %v", err)
			return 1
		}
		state.Dir = wd
	}

	cmdStr := strings.Join(append([]string{version.CommandName}, group.FullSlice()...), " ")
	logger.Debug(ctx, "%s command: '{{_UserCommand_}}%s{{|-|}}'", version.ApplicationName, cmdStr)
	logger.Debug(ctx, "Execution Args -> State: %+v, Command: %s, Args: %v", state, group.Command, group.Args)

	var err error
	switch group.Command {
	case "help":
		handleHelp(w, &group)
	case "version":
		handleVersion(ctx, w)
	case "init":
		err = handleInit(ctx, w, &state)
	case "use":
		err = handleUse(ctx, w, &group, &state)
	case "new":
		err = handleNew(ctx, w, &group, &state)
	case "list":
		err = handleList(ctx, w, &state)
	case "remove":
		err = handleRemove(ctx, w, &group, &state)
	case "current":
		err = handleCurrent(ctx, w, &state)
	case "diff":
		err = handleDiff(ctx, w, &group, &state)
	case "gitignore":
		err = handleGitignore(ctx, w, &state)
	default:
		err = fmt.Errorf("unknown command '%s'", group.Command)
	}

	if err != nil {
		logger.Error(ctx, "%v", err)
		if errors.Is(err, repository.ErrNotARepository) {
			logger.Notice(ctx, "Run '{{_UserCommand_}}%s init{{|-|}}' to create one.", version.CommandName)
		}
		return 1
	}
	return 0
}
