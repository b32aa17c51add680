// Package entry resolves bundle entry points from glob patterns and tracks
// the base directories those patterns live under, so an incremental-rebuild
// watcher knows which directories to revisit.
package entry

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Targets is the ordered list of source locations for one entry: the matched
// file path, optionally followed by the synthetic reload helper target.
type Targets []string

// Source returns the matched file path (always the first element).
func (t Targets) Source() string {
	if len(t) == 0 {
		return ""
	}
	return t[0]
}

// Map is the result of one resolution call: entry name to targets.
type Map map[string]Targets

// Names returns the entry names in sorted order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolver expands glob patterns into an entry map and owns the set of base
// directories tracked for rebuild invalidation. The set is reset at the
// start of every Resolve call, so after Resolve returns it holds exactly the
// base directories of that call's patterns. A Resolver is not safe for
// concurrent use; one resolver drives one pipeline.
type Resolver struct {
	dirs *DirSet
}

// New returns a Resolver with an empty directory set.
func New() *Resolver {
	return &Resolver{dirs: NewDirSet()}
}

// Dirs returns a snapshot of the directories tracked by the last Resolve.
func (r *Resolver) Dirs() []string {
	return r.dirs.Dirs()
}

// TrackedDirs exposes the underlying set for inspection.
func (r *Resolver) TrackedDirs() *DirSet {
	return r.dirs
}

// ResetDirs clears the tracked directories without resolving anything.
// Resolve does this implicitly; the explicit form exists for callers that
// managed the set manually before the per-call reset policy.
func (r *Resolver) ResetDirs() {
	r.dirs.Reset()
}

// Resolve expands every pattern in order and merges the per-pattern entry
// maps; on an entry-name collision the later pattern wins. The caller's
// slice is never modified. Validation failures surface before any
// filesystem access. An empty pattern list, or patterns matching nothing,
// yield an empty map and no error.
func (r *Resolver) Resolve(globs []string, opts *Options) (Map, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	for _, pattern := range globs {
		if err := validatePattern(pattern); err != nil {
			return nil, err
		}
	}

	r.dirs.Reset()

	merged := make(Map)
	for _, pattern := range globs {
		effective := effectivePattern(pattern, opts)
		r.dirs.Add(BaseDir(effective))

		m, err := resolveOne(effective, opts)
		if err != nil {
			return nil, err
		}
		for name, targets := range m {
			merged[name] = targets
		}
	}
	return merged, nil
}

// ResolveFiles expands exactly one pattern into an entry map. It is the
// per-pattern primitive behind Resolve and performs no directory tracking.
func ResolveFiles(pattern string, opts *Options) (Map, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := validatePattern(pattern); err != nil {
		return nil, err
	}
	return resolveOne(effectivePattern(pattern, opts), opts)
}

// BaseDir returns the longest fixed directory prefix of a glob pattern: the
// directory portion before the first wildcard character, or the pattern's
// own directory when it contains no wildcards.
func BaseDir(pattern string) string {
	i := strings.IndexAny(pattern, wildcardChars)
	if i == -1 {
		return filepath.Dir(pattern)
	}
	fixed := pattern[:i]
	if j := strings.LastIndexAny(fixed, `/\`); j != -1 {
		return fixed[:j]
	}
	return "."
}

func validatePattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return fmt.Errorf("%w: pattern must not be empty", ErrInvalidGlob)
	}
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return fmt.Errorf("%w: %q", ErrInvalidGlob, pattern)
	}
	return nil
}

// effectivePattern resolves a relative pattern against the configured
// working directory.
func effectivePattern(pattern string, opts *Options) string {
	if opts == nil || opts.Glob == nil || opts.Glob.Dir == "" || filepath.IsAbs(pattern) {
		return pattern
	}
	return filepath.Join(opts.Glob.Dir, pattern)
}

func resolveOne(pattern string, opts *Options) (Map, error) {
	matches, err := scan(pattern, globOptions(opts))
	if err != nil {
		return nil, err
	}

	base := BaseDir(pattern)
	if g := globOptions(opts); g != nil && g.Absolute {
		if abs, absErr := filepath.Abs(base); absErr == nil {
			base = abs
		}
	}
	m := make(Map, len(matches))
	for _, match := range matches {
		name, nameErr := entryName(base, match, opts)
		if nameErr != nil {
			return nil, nameErr
		}

		targets := Targets{match}
		if opts.injectReload() {
			targets = append(targets, opts.reloadTarget())
		}
		m[name] = targets
	}
	return m, nil
}

func globOptions(opts *Options) *GlobOptions {
	if opts == nil {
		return nil
	}
	return opts.Glob
}

// scan expands the pattern against the filesystem. Scan failures are
// returned unchanged; this layer adds no recovery.
func scan(pattern string, g *GlobOptions) ([]string, error) {
	dsOpts := []doublestar.GlobOption{doublestar.WithFilesOnly()}
	if g != nil {
		if g.NoFollow {
			dsOpts = append(dsOpts, doublestar.WithNoFollow())
		}
		if g.FailOnIOErrors {
			dsOpts = append(dsOpts, doublestar.WithFailOnIOErrors())
		}
	}

	matches, err := doublestar.FilepathGlob(pattern, dsOpts...)
	if err != nil {
		return nil, err
	}

	if g != nil && g.Absolute {
		for i, match := range matches {
			abs, absErr := filepath.Abs(match)
			if absErr != nil {
				return nil, absErr
			}
			matches[i] = abs
		}
	}
	return matches, nil
}

// entryName derives the logical entry name for a matched file: its path
// relative to the pattern's base directory, extension stripped, separators
// normalized to '/'.
func entryName(base, match string, opts *Options) (string, error) {
	rel, err := filepath.Rel(base, match)
	if err != nil {
		// Absolute match under a relative base (or vice versa); fall back
		// to the match itself so the name is still derivable.
		rel = match
	}

	name := filepath.ToSlash(rel)
	name = strings.TrimSuffix(name, path.Ext(name))
	if opts != nil && opts.BasenameAsEntryName {
		name = path.Base(name)
	}
	if name == "" || name == "." {
		return "", fmt.Errorf("%w: cannot derive entry name for %q", ErrInvalidGlob, match)
	}
	return name, nil
}
