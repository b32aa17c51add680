package entry

import "path/filepath"

// DirSet tracks the distinct base directories of resolved glob patterns.
// Values are cleaned and slash-normalized on insert; duplicates collapse.
// Insertion order is preserved for deterministic snapshots.
type DirSet struct {
	seen  map[string]struct{}
	order []string
}

// NewDirSet returns an empty directory set.
func NewDirSet() *DirSet {
	return &DirSet{seen: make(map[string]struct{})}
}

// normalizeDir cleans a directory path and normalizes separators to '/'.
func normalizeDir(dir string) string {
	return filepath.ToSlash(filepath.Clean(dir))
}

// Add records a directory. Adding an already-present directory is a no-op.
func (s *DirSet) Add(dir string) {
	dir = normalizeDir(dir)
	if _, ok := s.seen[dir]; ok {
		return
	}
	s.seen[dir] = struct{}{}
	s.order = append(s.order, dir)
}

// Contains reports whether the set holds the given directory
// (after normalization).
func (s *DirSet) Contains(dir string) bool {
	_, ok := s.seen[normalizeDir(dir)]
	return ok
}

// Len returns the number of tracked directories.
func (s *DirSet) Len() int {
	return len(s.order)
}

// Dirs returns a copy of the tracked directories in insertion order.
func (s *DirSet) Dirs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Reset clears the set.
func (s *DirSet) Reset() {
	s.seen = make(map[string]struct{})
	s.order = nil
}
