package paths

import (
	"envm/internal/constants"
	"envm/internal/version"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
)

// ErrInvalidEnvironmentName is returned when a name would resolve outside a single file in the repository root.
var ErrInvalidEnvironmentName = errors.New("invalid environment name")

var (
	// ConfigHomeOverride allows overriding the user config home for tests.
	ConfigHomeOverride string
)

// Naming carries the filename conventions paths are derived from.
// config.Config satisfies it.
type Naming interface {
	LocalName() string
	PatternName() string
	TemplateName() string
}

// GetMarkerPath returns the marker directory of the repository rooted at root.
func GetMarkerPath(root string) string {
	return filepath.Join(root, constants.MarkerDirName)
}

// IsRepository reports whether root contains the marker directory.
func IsRepository(root string) bool {
	info, err := os.Stat(GetMarkerPath(root))
	return err == nil && info.IsDir()
}

// GetConfigPath returns the repository config file path.
func GetConfigPath(root string) string {
	return filepath.Join(GetMarkerPath(root), constants.ConfigFileName)
}

// GetHeadPath returns the path of the file recording the active environment.
func GetHeadPath(root string) string {
	return filepath.Join(GetMarkerPath(root), constants.HeadFileName)
}

// GetBackupPath returns the path holding the local file snapshot taken when leaving the local environment.
func GetBackupPath(root string) string {
	return filepath.Join(GetMarkerPath(root), constants.BackupFileName)
}

// GetLocalEnvPath returns the path of the active environment file.
func GetLocalEnvPath(root string, n Naming) string {
	return filepath.Join(root, n.LocalName())
}

// GetTemplateEnvPath returns the path of the template environment file.
func GetTemplateEnvPath(root string, n Naming) string {
	return filepath.Join(root, n.TemplateName())
}

// GetNamedEnvPath returns the path of a named environment file.
// The name is validated first so user input can never address a file outside root.
func GetNamedEnvPath(root string, n Naming, name string) (string, error) {
	if !IsValidName(name) {
		return "", fmt.Errorf("%w: '%s'", ErrInvalidEnvironmentName, name)
	}
	filename := strings.Replace(n.PatternName(), constants.Placeholder, name, 1)
	return filepath.Join(root, filename), nil
}

// IsValidName reports whether name is exactly one path element.
//
// Examples:
//
//	dev              -> true
//	.env.dev         -> true
//	dev/../../x      -> false
//	/etc/passwd      -> false
//	..               -> false
func IsValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return false
	}
	// Reject both separators so names stay portable between platforms.
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, filepath.Separator) {
		return false
	}
	return filepath.Base(name) == name
}

// GetUserConfigDir returns the per-user envm configuration directory.
func GetUserConfigDir() string {
	appName := strings.ToLower(version.ApplicationName)
	if ConfigHomeOverride != "" {
		return filepath.Join(ConfigHomeOverride, appName)
	}
	if runtime.GOOS == "darwin" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
	return filepath.Join(xdg.ConfigHome, appName)
}

// GetUserConfigPath returns the path of the per-user defaults file applied on init.
func GetUserConfigPath() string {
	return filepath.Join(GetUserConfigDir(), constants.UserConfigFileName)
}
