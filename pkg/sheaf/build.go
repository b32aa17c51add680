package sheaf

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/yaklabco/sheaf/internal/log"
	"github.com/yaklabco/sheaf/pkg/buildcfg"
	"github.com/yaklabco/sheaf/pkg/entry"
	"github.com/yaklabco/sheaf/pkg/fsutils"
	"github.com/yaklabco/sheaf/pkg/hook"
	"github.com/yaklabco/sheaf/pkg/pipeline"
	"github.com/yaklabco/sheaf/pkg/stale"
	"github.com/yaklabco/sheaf/pkg/watch"
)

// session ties one resolver to one run. The resolver's tracked directories
// survive across rebuilds, so the hook adapter always reports the dirs of
// the latest resolution.
type session struct {
	params   RunParams
	resolver *entry.Resolver
	adapter  *hook.Adapter
}

func newSession(params RunParams) (*session, error) {
	if len(params.Entries) == 0 {
		return nil, errors.New("no entry patterns configured")
	}

	// Canonicalize the project dir so entry resolution and the watcher
	// agree on paths even when the dir is reached through a symlink.
	if params.Dir != "" {
		trueDir, err := fsutils.TruePath(params.Dir)
		if err != nil {
			return nil, err
		}
		params.Dir = trueDir
	}

	resolver := entry.New()

	return &session{
		params:   params,
		resolver: resolver,
		adapter:  hook.NewAdapter(resolver),
	}, nil
}

func (s *session) entryOptions() *entry.Options {
	return &entry.Options{
		BasenameAsEntryName: s.params.BasenameEntries,
		Glob:                &entry.GlobOptions{Dir: s.params.Dir},
		IncludeHMR:          s.params.IncludeHMR,
		Development:         s.params.Development,
		DevelopmentURL:      s.params.DevelopmentURL,
	}
}

func (s *session) resolveEntries() (entry.Map, error) {
	entries, err := s.resolver.Resolve(s.params.Entries, s.entryOptions())
	if err != nil {
		return nil, err
	}

	slog.Info("resolved entry points", log.Count, len(entries))
	if s.params.Verbose {
		for _, name := range entries.Names() {
			log.SimpleConsoleLogger.Printf("%s <- %s", name, entries[name].Source())
		}
	}

	return entries, nil
}

func (s *session) overrides() *api.BuildOptions {
	overrides := &api.BuildOptions{
		Outdir: s.params.OutDir,
	}

	if s.params.Minify {
		overrides.MinifyWhitespace = true
		overrides.MinifyIdentifiers = true
		overrides.MinifySyntax = true
	}

	if s.params.SourceMap {
		overrides.Sourcemap = api.SourceMapLinked
	}

	return overrides
}

// newPipeline resolves entries and assembles a fresh pipeline around them.
// Pipelines are cheap; a new one per build cycle keeps the entry set
// current while the resolver and its tracked dirs persist.
func (s *session) newPipeline() (*pipeline.Pipeline, error) {
	entries, err := s.resolveEntries()
	if err != nil {
		return nil, err
	}

	assembled, err := buildcfg.Assemble(entries, s.overrides())
	if err != nil {
		return nil, err
	}

	p := pipeline.New(assembled.Options)
	p.MetafilePath = s.params.Metafile

	if err := s.adapter.Install(p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *session) buildOnce() error {
	p, err := s.newPipeline()
	if err != nil {
		return err
	}

	if s.params.Incremental {
		fresh, err := stale.OutputsFresh(s.params.OutDir, s.resolver.Dirs())
		if err != nil {
			return err
		}
		if fresh {
			slog.Info("outputs up to date, skipping build", log.Dir, s.params.OutDir)
			return nil
		}
	}

	_, err = p.Build()

	return err
}

// watch runs an initial build and then rebuilds on every matching change
// until the context is cancelled. A failed build is not fatal in watch
// mode; the next change gets another chance.
func (s *session) watch(ctx context.Context) error {
	if err := s.buildOnce(); err != nil && !errors.Is(err, pipeline.ErrBuildFailed) {
		return err
	}

	watcher, err := watch.New(s.resolver.Dirs(), s.watchPatterns())
	if err != nil {
		return err
	}
	defer watcher.Close() //nolint:errcheck // shutting down

	slog.Info("watching for changes", log.Count, s.resolver.TrackedDirs().Len())

	watcher.Run(ctx, func() error {
		if err := s.buildOnce(); err != nil {
			if errors.Is(err, pipeline.ErrBuildFailed) {
				return nil // esbuild already reported the diagnostics
			}
			return err
		}

		// Re-resolution may have discovered new directories.
		return watcher.Track(s.resolver.Dirs())
	})

	return nil
}

// watchPatterns returns the entry patterns anchored at the project dir, so
// the watcher's absolute-path matching lines up with where resolution ran.
func (s *session) watchPatterns() []string {
	if s.params.Dir == "" {
		return s.params.Entries
	}

	patterns := make([]string, 0, len(s.params.Entries))
	for _, p := range s.params.Entries {
		if !filepath.IsAbs(p) {
			p = filepath.Join(s.params.Dir, p)
		}
		patterns = append(patterns, p)
	}

	return patterns
}
