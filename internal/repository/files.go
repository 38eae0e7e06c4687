package repository

import (
	"os"
)

// copyFile copies a file from src to dst, replacing the contents of dst.
// A newly created dst gets the permissions of src.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	input, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, input, info.Mode().Perm())
}

// exists reports whether path names an existing filesystem entry.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// isFile reports whether path names an existing regular file.
func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
