package version

import (
	"os"
	"path/filepath"
	"strings"
)

// ApplicationName is the human-readable name of the application.
var ApplicationName = "envm"

// CommandName is the name of the executable command.
// It is initialized dynamically from the executable filename.
var CommandName = "envm"

// Version is the current version of the application.
// This is intended to be overwritten at build time using:
// -ldflags "-X envm/internal/version.Version=v0.YYYYMMDD.N"
var Version = "v0.0.0-dev"

// Commit is the git commit hash of the build.
var Commit = "none"

// BuildDate is the date the binary was built.
var BuildDate = "unknown"

func init() {
	baseName := filepath.Base(os.Args[0])
	ext := filepath.Ext(baseName)
	name := strings.TrimSuffix(baseName, ext)

	// go run and go test produce throwaway binary names
	if name == "" || strings.EqualFold(name, "main") || strings.HasSuffix(name, ".test") {
		return
	}
	CommandName = name
}
