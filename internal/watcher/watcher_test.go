package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readingclub/readingclub-server/internal/domain"
	"github.com/readingclub/readingclub-server/internal/sse"
	"github.com/readingclub/readingclub-server/internal/store"
	"github.com/readingclub/readingclub-server/internal/store/file"
)

type countingReloader struct {
	calls atomic.Int32
}

func (c *countingReloader) Reload(context.Context) (bool, error) {
	c.calls.Add(1)
	return true, nil
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []sse.EventType
}

func (r *recordingEmitter) Emit(event any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := event.(sse.Event); ok {
		r.events = append(r.events, e.Type)
	}
}

func (r *recordingEmitter) count(t sse.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == t {
			n++
		}
	}
	return n
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startWatcher(t *testing.T, path string, r Reloader, settle time.Duration) *Watcher {
	t.Helper()

	w, err := New(path, r, discard(), Options{SettleDelay: settle})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	return w
}

func TestOptions_Defaults(t *testing.T) {
	var o Options
	o.setDefaults()
	assert.Equal(t, DefaultSettleDelay, o.SettleDelay)
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	reloader := &countingReloader{}
	startWatcher(t, path, reloader, 100*time.Millisecond)

	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte{byte('0' + i)}, 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return reloader.calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), reloader.calls.Load(), "a burst of writes reloads once")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	reloader := &countingReloader{}
	startWatcher(t, filepath.Join(dir, "books.json"), reloader, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "books.json.tmp"), []byte("x"), 0o644))

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, reloader.calls.Load())
}

func TestWatcher_ExternalEditReloadsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	emitter := &recordingEmitter{}
	st := store.New(file.New(path), discard(), emitter)
	ctx := context.Background()

	_, err := st.AddBook(ctx, domain.NewBook{Title: "Dune"})
	require.NoError(t, err)

	startWatcher(t, path, st, 30*time.Millisecond)

	// The store's own write is not an external change.
	_, err = st.AddBook(ctx, domain.NewBook{Title: "Emma"})
	require.NoError(t, err)
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, emitter.count(sse.EventCatalogReloaded))

	// Hand edit: drop every book.
	require.NoError(t, os.WriteFile(path, []byte(`{"books": []}`), 0o644))

	require.Eventually(t, func() bool {
		return emitter.count(sse.EventCatalogReloaded) == 1
	}, 2*time.Second, 20*time.Millisecond)

	books, err := st.ListBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "books.json"), &countingReloader{}, discard(), Options{})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		_ = w.Start(context.Background())
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestWatcher_StartAfterStopReturns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	w, err := New(path, &countingReloader{}, discard(), Options{})
	require.NoError(t, err)

	require.NoError(t, w.Stop())

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}
