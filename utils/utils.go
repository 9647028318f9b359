// Package utils holds small path helpers shared by the commands and the TUI.
package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands tilde and all environment variables from the given path.
func ExpandPath(path string) string {
	s, err := homedir.Expand(path)
	if err == nil {
		return os.ExpandEnv(s)
	}
	return os.ExpandEnv(path)
}

// IsURL reports whether s looks like an http(s) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsLocalFile reports whether s names a regular file on disk.
func IsLocalFile(s string) bool {
	if s == "" || s == "-" || IsURL(s) {
		return false
	}
	st, err := os.Stat(ExpandPath(s))
	return err == nil && st.Mode().IsRegular()
}

// Abs returns the absolute form of an expanded path, or the path itself.
func Abs(path string) string {
	p, err := filepath.Abs(ExpandPath(path))
	if err != nil {
		return path
	}
	return p
}
