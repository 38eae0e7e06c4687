// Package gitignore edits a .gitignore file and answers whether it ignores a path.
//
// Edits work on whole lines: a pattern is removed when a line equals it after
// trimming, and a section is a "# name" comment line followed by its patterns.
package gitignore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	matcher "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

var (
	ErrUnableReadGitignore  = errors.New("unable to read the .gitignore file")
	ErrUnableWriteGitignore = errors.New("unable to write the .gitignore file")
)

// File is the in-memory content of a .gitignore file.
type File struct {
	path    string
	content string
}

// Load reads the file at path. A missing file loads as empty and is created by Save.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %v", ErrUnableReadGitignore, err)
	}
	return &File{path: path, content: string(data)}, nil
}

// Path returns the location the file is loaded from and saved to.
func (f *File) Path() string {
	return f.path
}

// Content returns the current text of the file.
func (f *File) Content() string {
	return f.content
}

// Save writes the content back to the file.
func (f *File) Save() error {
	if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrUnableWriteGitignore, err)
	}
	return nil
}

func (f *File) lines() []string {
	if f.content == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(f.content, "\n"), "\n")
}

// RemovePattern drops every line equal to pattern, ignoring surrounding whitespace.
func (f *File) RemovePattern(pattern string) *File {
	pattern = strings.TrimSpace(pattern)

	var kept []string
	for _, line := range f.lines() {
		if strings.TrimSpace(line) != pattern {
			kept = append(kept, line)
		}
	}

	f.content = strings.Join(kept, "\n")
	if f.content != "" {
		f.content += "\n"
	}
	return f
}

// IgnorePatternsSection moves patterns into a "# section" block at the end of
// the file, dropping any earlier copy of the block and of each pattern.
// Applying the same section twice leaves the file unchanged.
func (f *File) IgnorePatternsSection(section string, patterns []string) *File {
	header := "# " + section
	f.RemovePattern(header)
	for _, pattern := range patterns {
		f.RemovePattern(pattern)
	}

	var b strings.Builder
	if content := strings.TrimRight(f.content, "\n"); content != "" {
		b.WriteString(content)
		b.WriteString("\n\n")
	}
	b.WriteString(header + "\n")
	for _, pattern := range patterns {
		b.WriteString(pattern + "\n")
	}

	f.content = b.String()
	return f
}

// Ignores reports whether the patterns of the file ignore relPath, a path
// relative to the directory of the file. Later patterns override earlier ones,
// so a "!pattern" line re-includes what an earlier line ignored.
func (f *File) Ignores(relPath string, isDir bool) bool {
	var patterns []matcher.Pattern
	for _, line := range f.lines() {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		patterns = append(patterns, matcher.ParsePattern(trimmed, nil))
	}
	if len(patterns) == 0 {
		return false
	}

	parts := strings.Split(filepath.ToSlash(filepath.Clean(relPath)), "/")
	return matcher.NewMatcher(patterns).Match(parts, isDir)
}
