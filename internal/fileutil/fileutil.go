// Package fileutil provides file and path utility functions.
package fileutil

import (
	"fmt"
	"os"
)

// Directory and file permissions for rendered output.
const (
	DirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	FilePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDir creates the directory (and parents) if it does not exist.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, DirPermissions); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// ClearDir removes the directory tree if present and recreates it empty.
func ClearDir(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("clearing directory %s: %w", path, err)
	}
	return EnsureDir(path)
}
