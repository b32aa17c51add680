// Package stale decides whether bundle outputs are older than the sources
// that produce them, so incremental runs can skip builds that would change
// nothing.
package stale

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

// errNewer is an ugly sentinel error to cause filepath.Walk to abort
// as soon as a newer file is encountered.
var errNewer = errors.New("newer item encountered")

// DirNewer reports whether any item in sources is newer than the target time.
// Sources are searched recursively and searching stops as soon as any entry
// is newer than the target.
func DirNewer(target time.Time, sources ...string) (bool, error) {
	walkFn := func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.ModTime().After(target) {
			return errNewer
		}
		return nil
	}
	for _, source := range sources {
		err := filepath.Walk(source, walkFn)
		if err == nil {
			continue
		}
		if errors.Is(err, errNewer) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// NewestModTime recurses a list of filesystem objects and finds the
// newest ModTime among them.
func NewestModTime(targets ...string) (time.Time, error) {
	newestTime := time.Time{}
	for _, target := range targets {
		walkFn := func(_ string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			mTime := info.ModTime()
			if mTime.After(newestTime) {
				newestTime = mTime
			}
			return nil
		}
		if err := filepath.Walk(target, walkFn); err != nil {
			return newestTime, err
		}
	}
	return newestTime, nil
}

// OutputsFresh reports whether every file under outDir is at least as new
// as every file under the source directories. A missing or empty output
// directory is never fresh.
func OutputsFresh(outDir string, sourceDirs []string) (bool, error) {
	info, err := os.Stat(outDir)
	if err != nil || !info.IsDir() {
		return false, nil //nolint:nilerr // missing outputs just mean a build is due
	}

	newest, err := NewestModTime(outDir)
	if err != nil {
		return false, err
	}
	if newest.IsZero() {
		return false, nil
	}

	newer, err := DirNewer(newest, sourceDirs...)
	if err != nil {
		return false, err
	}

	return !newer, nil
}
