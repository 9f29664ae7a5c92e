// Package util contains path helpers shared by the CLI and the traversal code.
package util

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/gruntwork-io/ugrep/internal/errors"
)

// PathSeparator is the separator used when building child paths during traversal.
const PathSeparator = "/"

// CanonicalPath returns the canonical version of the given path, relative to the given base path. That is, if the given path is a
// relative path, assume it is relative to the given base path. A canonical path is an absolute path with all relative
// components (e.g. "../") fully resolved, which makes it safe to compare paths as strings.
func CanonicalPath(path string, basePath string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(basePath, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", errors.WithStackTrace(err)
	}

	return filepath.Clean(absPath), nil
}

// ResolveRoot turns the user supplied search root into an absolute path with every symbolic link resolved.
// A leading `~` is expanded to the home directory. The path must exist.
func ResolveRoot(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", errors.WithStackTrace(PathResolutionError{Path: path, Err: err})
	}

	workingDir, err := os.Getwd()
	if err != nil {
		return "", errors.WithStackTrace(PathResolutionError{Path: path, Err: err})
	}

	absPath, err := CanonicalPath(expanded, workingDir)
	if err != nil {
		return "", errors.WithStackTrace(PathResolutionError{Path: path, Err: err})
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", errors.WithStackTrace(PathResolutionError{Path: path, Err: err})
	}

	return resolved, nil
}

// JoinChild builds the path of a directory entry. Unlike filepath.Join it does not clean the parent,
// so reported paths keep the spelling of the root they were discovered from. The filesystem root
// is special-cased to avoid a doubled separator.
func JoinChild(parent, name string) string {
	if parent == PathSeparator {
		return parent + name
	}

	return parent + PathSeparator + name
}

// PathResolutionError is returned when the search root cannot be resolved.
type PathResolutionError struct {
	Err  error
	Path string
}

func (err PathResolutionError) Error() string {
	return "cannot resolve path " + err.Path + ": " + err.Err.Error()
}

func (err PathResolutionError) Unwrap() error {
	return err.Err
}
