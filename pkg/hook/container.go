package hook

import "sort"

// DependencySet is a set-shaped dependency container: adding a path that is
// already present is a no-op.
type DependencySet struct {
	seen map[string]struct{}
}

// NewDependencySet returns an empty set-shaped container.
func NewDependencySet() *DependencySet {
	return &DependencySet{seen: make(map[string]struct{})}
}

// Add records the path, ignoring duplicates.
func (s *DependencySet) Add(path string) {
	s.seen[path] = struct{}{}
}

// Contains reports whether the path has been recorded.
func (s *DependencySet) Contains(path string) bool {
	_, ok := s.seen[path]
	return ok
}

// Len returns the number of distinct recorded paths.
func (s *DependencySet) Len() int {
	return len(s.seen)
}

// Paths returns the recorded paths in sorted order.
func (s *DependencySet) Paths() []string {
	out := make([]string, 0, len(s.seen))
	for p := range s.seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// DependencyList is the legacy list-shaped dependency container: every Add
// appends, so duplicates are preserved exactly as older pipelines did.
type DependencyList struct {
	paths []string
}

// NewDependencyList returns an empty list-shaped container, optionally
// pre-seeded with existing paths.
func NewDependencyList(paths ...string) *DependencyList {
	return &DependencyList{paths: paths}
}

// Add appends the path unconditionally.
func (l *DependencyList) Add(path string) {
	l.paths = append(l.paths, path)
}

// Len returns the number of recorded paths, duplicates included.
func (l *DependencyList) Len() int {
	return len(l.paths)
}

// Paths returns the recorded paths in append order.
func (l *DependencyList) Paths() []string {
	out := make([]string, len(l.paths))
	copy(out, l.paths)
	return out
}
