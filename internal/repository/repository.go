package repository

import (
	"context"
	"envm/internal/config"
	"envm/internal/constants"
	"envm/internal/envfile"
	"envm/internal/head"
	"envm/internal/logger"
	"envm/internal/paths"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Repository is a project directory whose environment files are managed by envm.
//
// Operations are plain sequences of file copies and are not atomic: a process
// killed in the middle of SwitchTo can leave HEAD out of step with the local file.
// Nothing guards against two processes working on the same repository at once.
type Repository struct {
	root    string
	config  config.Config
	current head.Head
}

// Init creates the marker directory in root with a default config and the local
// environment as head. It returns the marker directory path.
func Init(ctx context.Context, root string) (string, error) {
	markerPath := paths.GetMarkerPath(root)
	if exists(markerPath) {
		return "", ErrRepositoryAlreadyExists
	}

	conf, err := config.LoadDefaults()
	if err != nil {
		logger.Warn(ctx, "Ignoring user defaults: %v", err)
	}

	if err := os.Mkdir(markerPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create '%s': %w", markerPath, err)
	}
	if err := config.Store(paths.GetConfigPath(root), conf); err != nil {
		return "", fmt.Errorf("failed to write the configuration: %w", err)
	}
	if err := head.Write(paths.GetHeadPath(root), head.Local()); err != nil {
		return "", fmt.Errorf("failed to write the HEAD file: %w", err)
	}

	logger.Debug(ctx, "Initialized with local='%s' pattern='%s' template='%s'", conf.Local, conf.Pattern, conf.Template)
	return markerPath, nil
}

// Load finds the repository containing startDir and reads its config and head.
func Load(ctx context.Context, startDir string) (*Repository, error) {
	root, ok := Locate(startDir)
	if !ok {
		return nil, ErrNotARepository
	}
	logger.Debug(ctx, "Using repository at '{{_Folder_}}%s{{|-|}}'", root)

	conf, err := config.Load(paths.GetConfigPath(root))
	if err != nil {
		return nil, err
	}

	current, err := head.Read(paths.GetHeadPath(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrMissingHeadFile
		}
		return nil, fmt.Errorf("%w: %v", ErrMissingHeadFile, err)
	}

	return &Repository{
		root:    root,
		config:  conf,
		current: current,
	}, nil
}

// Root returns the directory containing the marker directory.
func (r *Repository) Root() string {
	return r.root
}

// Config returns the naming conventions of the repository.
func (r *Repository) Config() config.Config {
	return r.config
}

// Current returns the environment mirrored into the local file.
func (r *Repository) Current() head.Head {
	return r.current
}

// envPath resolves the file of an environment: the local file for Local,
// the pattern-expanded file otherwise.
func (r *Repository) envPath(h head.Head) (string, error) {
	name, ok := h.Name()
	if !ok {
		return paths.GetLocalEnvPath(r.root, r.config), nil
	}
	return paths.GetNamedEnvPath(r.root, r.config, name)
}

// SwitchTo makes name the active environment.
//
// Leaving the local environment first snapshots the local file into the backup;
// returning to it restores that snapshot. Switching between named environments
// leaves the backup alone, so it always holds the local file as it was before the
// most recent departure from Local.
func (r *Repository) SwitchTo(ctx context.Context, name string) error {
	target := head.Parse(name)
	if target.Equal(r.current) {
		return envError(name, ErrAlreadyUsingTargetEnvironment)
	}

	// Resolve before touching anything so an invalid name has no effect.
	targetPath, err := r.envPath(target)
	if err != nil {
		return err
	}

	localPath := paths.GetLocalEnvPath(r.root, r.config)
	backupPath := paths.GetBackupPath(r.root)

	if r.current.IsLocal() {
		logger.Info(ctx, "Backing up '{{_File_}}%s{{|-|}}' to '{{_File_}}%s{{|-|}}'", localPath, backupPath)
		if err := copyFile(localPath, backupPath); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToBackupLocalEnvironment, err)
		}
	}

	source := targetPath
	if target.IsLocal() {
		source = backupPath
		if !isFile(source) {
			return ErrMissingBackupEnvironment
		}
	} else if !isFile(source) {
		return envError(name, ErrMissingTargetEnvironment)
	}

	logger.Info(ctx, "Copying '{{_File_}}%s{{|-|}}' to '{{_File_}}%s{{|-|}}'", source, localPath)
	if err := copyFile(source, localPath); err != nil {
		return fmt.Errorf("failed to copy '%s' to '%s': %w", source, localPath, err)
	}

	if err := head.Write(paths.GetHeadPath(r.root), target); err != nil {
		return fmt.Errorf("failed to write the HEAD file: %w", err)
	}
	r.current = target
	return nil
}

// NewEnvironment creates an environment file from the template.
// The name "local" creates the local file itself. The head is not changed.
func (r *Repository) NewEnvironment(ctx context.Context, name string) error {
	targetPath, err := r.envPath(head.Parse(name))
	if err != nil {
		return err
	}

	templatePath := paths.GetTemplateEnvPath(r.root, r.config)
	if !isFile(templatePath) {
		return envError(r.config.Template, ErrMissingTemplateEnvironment)
	}
	if exists(targetPath) {
		return envError(name, ErrTargetAlreadyExists)
	}

	if dir := filepath.Dir(targetPath); !exists(dir) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create folder '%s': %w", dir, err)
		}
	}

	logger.Info(ctx, "Copying '{{_File_}}%s{{|-|}}' to '{{_File_}}%s{{|-|}}'", templatePath, targetPath)
	if err := copyFile(templatePath, targetPath); err != nil {
		return fmt.Errorf("failed to copy '%s' to '%s': %w", templatePath, targetPath, err)
	}
	return nil
}

// ListEnvironments returns the names of the stored environments, in directory order.
// The template is never listed even when it matches the pattern.
func (r *Repository) ListEnvironments(ctx context.Context) ([]string, error) {
	dir := filepath.Join(r.root, filepath.Dir(r.config.Pattern))
	re, err := patternRegexp(filepath.Base(r.config.Pattern))
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	templatePath := paths.GetTemplateEnvPath(r.root, r.config)

	var names []string
	for _, entry := range entries {
		fullPath := filepath.Join(dir, entry.Name())
		// Follow symlinks; only regular files count
		if !isFile(fullPath) || fullPath == templatePath {
			continue
		}
		matches := re.FindStringSubmatch(entry.Name())
		// "local" always addresses the local file, so a file named after it is unreachable
		if matches == nil || matches[1] == constants.LocalToken {
			continue
		}
		logger.Trace(ctx, "Found environment '%s' in '{{_File_}}%s{{|-|}}'", matches[1], entry.Name())
		names = append(names, matches[1])
	}
	return names, nil
}

// patternRegexp turns a filename pattern into an anchored expression capturing the name.
func patternRegexp(pattern string) (*regexp.Regexp, error) {
	before, after, ok := strings.Cut(pattern, constants.Placeholder)
	if !ok {
		return nil, fmt.Errorf("%w: the '%s' placeholder must be in the file name of pattern '%s'", ErrFailedToParseConfig, constants.Placeholder, pattern)
	}
	return regexp.Compile("^" + regexp.QuoteMeta(before) + "(.+)" + regexp.QuoteMeta(after) + "$")
}

// CheckRemovable reports why name cannot be removed, or nil when RemoveEnvironment
// would delete its file. It returns the path of that file.
func (r *Repository) CheckRemovable(name string) (string, error) {
	target := head.Parse(name)
	if target.Equal(r.current) {
		return "", envError(name, ErrRemovingUsingEnvironment)
	}

	targetPath, err := r.envPath(target)
	if err != nil {
		return "", err
	}
	if !exists(targetPath) {
		return "", envError(name, ErrMissingTargetEnvironment)
	}
	return targetPath, nil
}

// RemoveEnvironment deletes an environment file. The active environment cannot be removed.
func (r *Repository) RemoveEnvironment(ctx context.Context, name string) error {
	targetPath, err := r.CheckRemovable(name)
	if err != nil {
		return err
	}

	logger.Info(ctx, "Removing '{{_File_}}%s{{|-|}}'", targetPath)
	if err := os.Remove(targetPath); err != nil {
		return fmt.Errorf("failed to remove '%s': %w", targetPath, err)
	}
	return nil
}

// CompareToTemplate reports the variables of the template missing from an
// environment and the variables the environment has beyond the template.
// A nil slice means there is nothing to report.
func (r *Repository) CompareToTemplate(ctx context.Context, name string) (missing, extra []string, err error) {
	target := head.Parse(name)
	targetPath, err := r.envPath(target)
	if err != nil {
		return nil, nil, err
	}

	templatePath := paths.GetTemplateEnvPath(r.root, r.config)
	if !isFile(templatePath) {
		return nil, nil, envError(r.config.Template, ErrMissingTemplateEnvironment)
	}
	if !isFile(targetPath) {
		return nil, nil, envError(name, ErrMissingTargetEnvironment)
	}

	templateVars, err := envfile.ParseFileAs(templatePath, envfile.DetectFormat(r.config.Template))
	if err != nil {
		return nil, nil, err
	}
	targetVars, err := envfile.ParseFileAs(targetPath, r.envFormat(target))
	if err != nil {
		return nil, nil, err
	}
	logger.Debug(ctx, "Comparing %d template variables to %d variables in '{{_File_}}%s{{|-|}}'", templateVars.Len(), targetVars.Len(), targetPath)

	missing, extra = envfile.Compare(templateVars, targetVars)
	return missing, extra, nil
}

// envFormat picks the decoding of an environment file from the fixed part of
// its name only: the local file name, or the pattern text after the placeholder.
// With the default pattern an environment named "json" is still a dotenv file.
func (r *Repository) envFormat(h head.Head) envfile.Format {
	if h.IsLocal() {
		return envfile.DetectFormat(r.config.Local)
	}
	_, suffix, _ := strings.Cut(filepath.Base(r.config.Pattern), constants.Placeholder)
	return envfile.DetectFormat(suffix)
}
