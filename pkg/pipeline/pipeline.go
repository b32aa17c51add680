// Package pipeline drives esbuild from assembled build options and exposes
// an after-compile extension point for rebuild-dependency bookkeeping.
package pipeline

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/google/uuid"

	"github.com/yaklabco/sheaf/internal/log"
	"github.com/yaklabco/sheaf/pkg/hook"
)

// ErrBuildFailed is returned when esbuild reports one or more errors.
var ErrBuildFailed = errors.New("esbuild failed with errors")

// Compilation records the outcome of one build cycle.
type Compilation struct {
	ID        uuid.UUID
	StartedAt time.Time
	Duration  time.Duration
	Errors    []api.Message
	Warnings  []api.Message
	Metafile  string

	deps hook.DependencyContainer
}

// Dependencies returns the rebuild-dependency container for this cycle.
func (c *Compilation) Dependencies() hook.DependencyContainer {
	return c.deps
}

// Succeeded reports whether esbuild completed without errors.
func (c *Compilation) Succeeded() bool {
	return len(c.Errors) == 0
}

type namedHook struct {
	name string
	fn   hook.AfterCompileFunc
}

// Pipeline runs esbuild and fires after-compile handlers once per completed
// cycle. It exposes the named hook-registry registration surface; see
// Legacy for the direct-callback surface of older pipeline versions.
type Pipeline struct {
	opts api.BuildOptions

	// MetafilePath, when non-empty, receives the esbuild metafile after
	// every successful build.
	MetafilePath string

	// NewContainer builds the dependency container for each compilation.
	// Defaults to the set-shaped container.
	NewContainer func() hook.DependencyContainer

	afterCompile []namedHook
	last         *Compilation
}

// New returns a Pipeline for the given esbuild options.
func New(opts api.BuildOptions) *Pipeline {
	return &Pipeline{opts: opts}
}

// AfterCompile registers a named handler to run after every build cycle.
// Registering the same name again replaces the earlier handler.
func (p *Pipeline) AfterCompile(name string, fn hook.AfterCompileFunc) {
	for i, h := range p.afterCompile {
		if h.name == name {
			p.afterCompile[i].fn = fn
			return
		}
	}
	p.afterCompile = append(p.afterCompile, namedHook{name: name, fn: fn})
}

// Last returns the most recent compilation, or nil before the first build.
func (p *Pipeline) Last() *Compilation {
	return p.last
}

// Build runs one esbuild cycle, fires the after-compile handlers, and
// returns the compilation record. Handlers run even when the build failed,
// so rebuild dependencies stay registered across broken intermediate
// states. The returned error is ErrBuildFailed when esbuild reported
// errors.
func (p *Pipeline) Build() (*Compilation, error) {
	comp := &Compilation{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		deps:      p.newContainer(),
	}

	result := api.Build(p.opts)
	comp.Duration = time.Since(comp.StartedAt)
	comp.Errors = result.Errors
	comp.Warnings = result.Warnings
	comp.Metafile = result.Metafile
	p.last = comp

	for _, msg := range result.Errors {
		slog.Error("build error", log.Error, msg.Text)
	}

	p.fireAfterCompile(comp)

	if !comp.Succeeded() {
		return comp, ErrBuildFailed
	}

	if p.MetafilePath != "" && comp.Metafile != "" {
		if err := os.WriteFile(p.MetafilePath, []byte(comp.Metafile), 0o600); err != nil {
			return comp, err
		}
	}

	slog.Info("build finished",
		log.Name, comp.ID.String(),
		log.Duration, comp.Duration,
	)
	return comp, nil
}

func (p *Pipeline) newContainer() hook.DependencyContainer {
	if p.NewContainer != nil {
		return p.NewContainer()
	}
	return hook.NewDependencySet()
}

// fireAfterCompile invokes every registered handler and verifies each one
// signalled completion before returning, preserving the synchronous
// continuation contract.
func (p *Pipeline) fireAfterCompile(comp *Compilation) {
	for _, h := range p.afterCompile {
		called := false
		h.fn(comp, func() { called = true })
		if !called {
			slog.Warn("after-compile handler did not signal completion", log.Name, h.name)
		}
	}
}
