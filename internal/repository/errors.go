package repository

import (
	"envm/internal/config"
	"envm/internal/paths"
	"errors"
	"fmt"
)

var (
	ErrNotARepository                 = errors.New("not an envm repository (or any of the parent directories)")
	ErrMissingHeadFile                = errors.New("cannot find the HEAD file of the repository")
	ErrRepositoryAlreadyExists        = errors.New("envm repository already exists")
	ErrMissingTemplateEnvironment     = errors.New("missing template environment")
	ErrTargetAlreadyExists            = errors.New("target environment already exists")
	ErrMissingTargetEnvironment       = errors.New("missing target environment")
	ErrMissingBackupEnvironment       = errors.New("missing backup of the local environment")
	ErrFailedToBackupLocalEnvironment = errors.New("failed to backup the local environment")
	ErrAlreadyUsingTargetEnvironment  = errors.New("already using target environment")
	ErrRemovingUsingEnvironment       = errors.New("cannot remove the environment currently in use")

	// Errors raised by the packages the repository is composed of.
	ErrMissingConfigFile      = config.ErrMissingConfigFile
	ErrFailedToParseConfig    = config.ErrFailedToParseConfig
	ErrInvalidEnvironmentName = paths.ErrInvalidEnvironmentName
)

// EnvironmentError attaches the environment an operation was asked about to one of the errors above.
type EnvironmentError struct {
	Name string
	Err  error
}

func (e *EnvironmentError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v: '%s'", e.Err, e.Name)
}

func (e *EnvironmentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func envError(name string, err error) error {
	return &EnvironmentError{Name: name, Err: err}
}
