package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uishowcase/pkg/catalog"
	"github.com/gnana997/uishowcase/pkg/util"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (r *recorder) reload(changed []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, changed)
	return r.err
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

func startWatcher(t *testing.T, root string, rec *recorder, cache *util.SourceCache) *Watcher {
	t.Helper()
	opts := DefaultOptions()
	opts.Debounce = 50 * time.Millisecond

	w, err := New(root, rec.reload, opts, cache, util.NopLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	w := startWatcher(t, root, rec, nil)

	path := filepath.Join(root, "ui.catalog.yaml")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("name: ui\n"), 0644))
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{path}, calls[0])
	assert.Equal(t, int64(1), w.Stats().Reloads)
	assert.Zero(t, w.Stats().Pending)
}

func TestWatcher_IgnoresUnmatchedFiles(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	startWatcher(t, root, rec, nil)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "button.tsx"), []byte("x"), 0644))
	time.Sleep(200 * time.Millisecond)

	assert.Empty(t, rec.snapshot())
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	startWatcher(t, root, rec, nil)

	dir := filepath.Join(root, "forms")
	require.NoError(t, os.Mkdir(dir, 0755))
	// Give the watcher time to register the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "forms.catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: forms\n"), 0644))

	require.Eventually(t, func() bool {
		for _, call := range rec.snapshot() {
			for _, p := range call {
				if p == path {
					return true
				}
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_SkipsExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	nm := filepath.Join(root, "node_modules", "pkg")
	require.NoError(t, os.MkdirAll(nm, 0755))

	rec := &recorder{}
	startWatcher(t, root, rec, nil)

	require.NoError(t, os.WriteFile(filepath.Join(nm, "x.catalog.yaml"), []byte("name: x\n"), 0644))
	time.Sleep(200 * time.Millisecond)

	assert.Empty(t, rec.snapshot())
}

func TestWatcher_InvalidatesCacheAndCountsFailures(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "ui.catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"a"}`), 0644))

	cache := util.NewSourceCache(8, util.NopLogger())
	_, err := cache.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, cache.Stats().Cached)

	rec := &recorder{err: assert.AnError}
	w := startWatcher(t, root, rec, cache)

	require.NoError(t, os.WriteFile(path, []byte(`{"name":"b"}`), 0644))

	require.Eventually(t, func() bool { return w.Stats().Failed == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Zero(t, cache.Stats().Cached)
}

func TestWatcher_Lifecycle(t *testing.T) {
	rec := &recorder{}
	w, err := New(t.TempDir(), rec.reload, Options{}, nil, util.NopLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.options.Debounce)
	assert.False(t, w.Stats().Running)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	assert.True(t, w.Stats().Running)
	assert.Error(t, w.Start(ctx))

	cancel()
	require.Eventually(t, func() bool { return !w.Stats().Running }, 5*time.Second, 10*time.Millisecond)
	assert.NoError(t, w.Stop())
	assert.Error(t, w.Start(context.Background()))
}

func TestNew_RejectsBadPatterns(t *testing.T) {
	_, err := New(t.TempDir(), func([]string) error { return nil },
		Options{Patterns: catalog.DiscoverConfig{Include: []string{"[abc"}}}, nil, util.NopLogger())
	assert.Error(t, err)
}

func TestNew_MissingRoot(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing"), func([]string) error { return nil }, DefaultOptions(), nil, util.NopLogger())
	require.NoError(t, err)
	assert.Error(t, w.Start(context.Background()))
	assert.NoError(t, w.Stop())
}
