// Package hook bridges tracked glob base directories into a build
// pipeline's rebuild-dependency bookkeeping. It attaches to the pipeline's
// after-compile extension point and pushes every tracked directory into
// whatever dependency container shape the host exposes.
package hook

import (
	"errors"
	"fmt"
	"path/filepath"
)

// adapterName identifies the handler in named hook registries.
const adapterName = "sheaf-watch-dirs"

// ErrUnsupportedHost is returned by Install when the host pipeline exposes
// neither a hook registry nor a legacy callback registration.
var ErrUnsupportedHost = errors.New("host pipeline has no recognized after-compile extension point")

// DependencyContainer is the capability the adapter needs from the host's
// rebuild-dependency record. Set-shaped hosts ignore duplicate Adds;
// list-shaped hosts append unconditionally.
type DependencyContainer interface {
	Add(path string)
}

// Compilation is the slice of the host's compilation context the adapter
// reads.
type Compilation interface {
	Dependencies() DependencyContainer
}

// AfterCompileFunc is the signature of an after-compile handler. The done
// callback must be invoked exactly once.
type AfterCompileFunc func(comp Compilation, done func())

// Registrar is the modern, named hook-registry registration surface.
type Registrar interface {
	AfterCompile(name string, fn AfterCompileFunc)
}

// LegacyRegistrar is the direct-callback registration surface of older
// pipeline versions.
type LegacyRegistrar interface {
	RegisterAfterCompile(fn AfterCompileFunc)
}

// DirSource supplies the directories to register after each compile.
// *entry.Resolver satisfies it.
type DirSource interface {
	Dirs() []string
}

// Adapter registers tracked directories as rebuild-dependency roots after
// every completed compilation.
type Adapter struct {
	dirs DirSource
}

// NewAdapter returns an adapter reading directories from the given source.
func NewAdapter(dirs DirSource) *Adapter {
	return &Adapter{dirs: dirs}
}

// Install attaches the adapter to the host pipeline's after-compile
// extension point, detecting which registration surface the host provides.
func (a *Adapter) Install(host any) error {
	switch h := host.(type) {
	case Registrar:
		h.AfterCompile(adapterName, a.AfterCompile)
	case LegacyRegistrar:
		h.RegisterAfterCompile(a.AfterCompile)
	default:
		return fmt.Errorf("%w (%T)", ErrUnsupportedHost, host)
	}
	return nil
}

// AfterCompile inserts every tracked directory, path-normalized, into the
// compilation's dependency container, then invokes done exactly once. It is
// safe to call synchronously and never raises.
func (a *Adapter) AfterCompile(comp Compilation, done func()) {
	defer done()

	deps := comp.Dependencies()
	if deps == nil {
		return
	}
	for _, dir := range a.dirs.Dirs() {
		deps.Add(filepath.ToSlash(filepath.Clean(dir)))
	}
}
