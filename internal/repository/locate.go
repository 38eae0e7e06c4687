package repository

import (
	"envm/internal/paths"
	"path/filepath"
)

// Locate walks from startDir up to the filesystem root and returns the nearest
// directory containing the marker directory.
func Locate(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}

	for {
		if paths.IsRepository(dir) {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached the filesystem root
			return "", false
		}
		dir = parent
	}
}
