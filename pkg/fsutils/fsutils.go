// Package fsutils holds small filesystem helpers shared across sheaf.
package fsutils

import (
	"fmt"
	"path/filepath"
)

// TruePath resolves a path to its canonical absolute form, following
// symlinks repeatedly until the result is stable. Entry resolution and the
// watcher both key on canonical paths, so a symlinked project dir behaves
// the same as its target.
func TruePath(path string) (string, error) {
	var prevAbsPath string
	var prevResolvedPath string

	changeFound := true
	for changeFound {
		changeFound = false

		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		if absPath != prevAbsPath {
			prevAbsPath = absPath
			changeFound = true
		}

		resolvedPath, err := filepath.EvalSymlinks(absPath)
		if err != nil {
			return "", fmt.Errorf("failed to resolve symlinks: %w", err)
		}
		if resolvedPath != prevResolvedPath {
			prevResolvedPath = resolvedPath
			changeFound = true
		}

		path = resolvedPath
	}

	return path, nil
}
