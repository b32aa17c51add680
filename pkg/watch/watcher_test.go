package watch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, dirs, patterns []string) *Watcher {
	t.Helper()
	w, err := New(dirs, patterns)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func drainSignal(w *Watcher) bool {
	select {
	case <-w.Rebuilds():
		return true
	default:
		return false
	}
}

func TestHandleChangeSignalsOnMatch(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))

	w := newTestWatcher(t, []string{src}, []string{filepath.Join(src, "**", "*.ts")})

	changed := filepath.Join(src, "sub", "app.ts")
	require.NoError(t, w.handleChange(changed))
	assert.True(t, drainSignal(w))
}

func TestHandleChangeMatchesTopLevelFiles(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))

	w := newTestWatcher(t, []string{src}, []string{filepath.Join(src, "**", "*.ts")})

	require.NoError(t, w.handleChange(filepath.Join(src, "app.ts")))
	assert.True(t, drainSignal(w))
}

func TestHandleChangeIgnoresNonMatching(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))

	w := newTestWatcher(t, []string{src}, []string{filepath.Join(src, "**", "*.ts")})

	require.NoError(t, w.handleChange(filepath.Join(src, "notes.md")))
	assert.False(t, drainSignal(w))
}

func TestHandleChangeCoalescesSignals(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))

	w := newTestWatcher(t, []string{src}, []string{filepath.Join(src, "**", "*.ts")})

	require.NoError(t, w.handleChange(filepath.Join(src, "a.ts")))
	require.NoError(t, w.handleChange(filepath.Join(src, "b.ts")))

	assert.True(t, drainSignal(w))
	assert.False(t, drainSignal(w), "signals should coalesce while one is pending")
}

func TestHandleChangeAddsNewDirectories(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))

	w := newTestWatcher(t, []string{src}, []string{filepath.Join(src, "**", "*.ts")})

	sub := filepath.Join(src, "created")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, w.handleChange(sub))

	w.mu.Lock()
	_, watched := w.watched[sub]
	w.mu.Unlock()
	assert.True(t, watched)
}

func TestTrackIsIdempotent(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))

	w := newTestWatcher(t, []string{src}, nil)
	require.NoError(t, w.Track([]string{src}))
	require.NoError(t, w.Track([]string{src}))

	w.mu.Lock()
	n := len(w.watched)
	w.mu.Unlock()
	assert.Equal(t, 2, n) // src and src/sub, each once
}

func TestSetPatternsRejectsBadGlob(t *testing.T) {
	tmp := t.TempDir()

	_, err := New([]string{tmp}, []string{"src/[oops"})
	assert.Error(t, err)
}
