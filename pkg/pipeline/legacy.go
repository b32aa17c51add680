package pipeline

import (
	"fmt"

	"github.com/yaklabco/sheaf/pkg/hook"
)

// Legacy wraps a Pipeline behind the direct-callback registration surface
// of older pipeline versions. It deliberately does not expose the named
// registry, and its compilations use the list-shaped dependency container,
// reproducing the append semantics those versions had.
type Legacy struct {
	p *Pipeline
	n int
}

// NewLegacy returns a legacy-surfaced pipeline wrapping p.
func NewLegacy(p *Pipeline) *Legacy {
	p.NewContainer = func() hook.DependencyContainer {
		return hook.NewDependencyList()
	}
	return &Legacy{p: p}
}

// RegisterAfterCompile appends a handler to run after every build cycle.
func (l *Legacy) RegisterAfterCompile(fn hook.AfterCompileFunc) {
	l.n++
	l.p.AfterCompile(fmt.Sprintf("legacy-%d", l.n), fn)
}

// Build runs one build cycle on the wrapped pipeline.
func (l *Legacy) Build() (*Compilation, error) {
	return l.p.Build()
}

// Last returns the most recent compilation, or nil before the first build.
func (l *Legacy) Last() *Compilation {
	return l.p.Last()
}
