package hook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticDirs []string

func (d staticDirs) Dirs() []string { return d }

type fakeCompilation struct {
	deps DependencyContainer
}

func (c *fakeCompilation) Dependencies() DependencyContainer { return c.deps }

type registryHost struct {
	registered map[string]AfterCompileFunc
}

func (h *registryHost) AfterCompile(name string, fn AfterCompileFunc) {
	if h.registered == nil {
		h.registered = make(map[string]AfterCompileFunc)
	}
	h.registered[name] = fn
}

type legacyHost struct {
	fn AfterCompileFunc
}

func (h *legacyHost) RegisterAfterCompile(fn AfterCompileFunc) { h.fn = fn }

func TestInstallDetectsRegistryHost(t *testing.T) {
	host := &registryHost{}
	a := NewAdapter(staticDirs{"src"})

	require.NoError(t, a.Install(host))
	assert.Contains(t, host.registered, adapterName)
}

func TestInstallDetectsLegacyHost(t *testing.T) {
	host := &legacyHost{}
	a := NewAdapter(staticDirs{"src"})

	require.NoError(t, a.Install(host))
	assert.NotNil(t, host.fn)
}

func TestInstallRejectsUnknownHost(t *testing.T) {
	a := NewAdapter(staticDirs{})

	err := a.Install(struct{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedHost)
}

func TestAfterCompileInsertsTrackedDirs(t *testing.T) {
	deps := NewDependencySet()
	comp := &fakeCompilation{deps: deps}
	a := NewAdapter(staticDirs{"./src", "test"})

	var doneCalls int
	a.AfterCompile(comp, func() { doneCalls++ })

	assert.Equal(t, 1, doneCalls)
	assert.Equal(t, []string{"src", "test"}, deps.Paths())
}

func TestAfterCompileZeroDirsStillCallsDone(t *testing.T) {
	deps := NewDependencySet()
	comp := &fakeCompilation{deps: deps}
	a := NewAdapter(staticDirs{})

	var doneCalls int
	a.AfterCompile(comp, func() { doneCalls++ })

	assert.Equal(t, 1, doneCalls)
	assert.Equal(t, 0, deps.Len())
}

func TestAfterCompileNilContainerStillCallsDone(t *testing.T) {
	comp := &fakeCompilation{deps: nil}
	a := NewAdapter(staticDirs{"src"})

	var doneCalls int
	a.AfterCompile(comp, func() { doneCalls++ })
	assert.Equal(t, 1, doneCalls)
}

func TestDependencySetIgnoresDuplicates(t *testing.T) {
	s := NewDependencySet()
	s.Add("src")
	s.Add("src")
	s.Add("test")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("src"))
}

func TestDependencyListPreservesDuplicates(t *testing.T) {
	l := NewDependencyList("vendor")
	l.Add("src")
	l.Add("src")

	assert.Equal(t, []string{"vendor", "src", "src"}, l.Paths())
}

func TestListShapedHostReceivesAppends(t *testing.T) {
	deps := NewDependencyList()
	comp := &fakeCompilation{deps: deps}
	a := NewAdapter(staticDirs{"src", "src"})

	a.AfterCompile(comp, func() {})

	// The legacy list shape reproduces append semantics exactly, so a
	// directory tracked twice lands twice.
	assert.Equal(t, []string{"src", "src"}, deps.Paths())
}
