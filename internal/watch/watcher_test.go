package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startWatcher(t *testing.T, path string) (*Watcher, <-chan struct{}) {
	t.Helper()
	changes := make(chan struct{}, 16)
	w, err := New(Config{
		Path:     path,
		Delay:    20 * time.Millisecond,
		OnChange: func() { changes <- struct{}{} },
		Logger:   zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	return w, changes
}

func waitChange(t *testing.T, changes <-chan struct{}) {
	t.Helper()
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	w, changes := startWatcher(t, path)
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte(`{"next_id": 2}`), 0o644))
	waitChange(t, changes)
}

func TestWatcher_NotifiesOnRenameOver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	w, changes := startWatcher(t, path)
	defer w.Stop()

	tmp := filepath.Join(dir, "contacts.json.123.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"next_id": 3}`), 0o644))
	require.NoError(t, os.Rename(tmp, path))
	waitChange(t, changes)
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.json")

	var calls atomic.Int32
	w, err := New(Config{Path: path, Delay: 10 * time.Millisecond, OnChange: func() { calls.Add(1) }})
	require.NoError(t, err)
	require.NoError(t, w.Start())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644))
	time.Sleep(150 * time.Millisecond)
	w.Stop()

	assert.Zero(t, calls.Load())
}

func TestWatcher_BurstIsBatched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")

	var calls atomic.Int32
	w, err := New(Config{Path: path, Delay: 300 * time.Millisecond, OnChange: func() { calls.Add(1) }})
	require.NoError(t, err)
	require.NoError(t, w.Start())

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('0' + i)}, 0o644))
	}
	require.Eventually(t, func() bool { return calls.Load() > 0 }, 5*time.Second, 20*time.Millisecond)
	w.Stop()

	assert.Equal(t, int32(1), calls.Load())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{OnChange: func() {}})
	assert.Error(t, err)

	_, err = New(Config{Path: "contacts.json"})
	assert.Error(t, err)
}

func TestWatcher_StopWithoutEvents(t *testing.T) {
	w, _ := startWatcher(t, filepath.Join(t.TempDir(), "contacts.json"))
	w.Stop()
}

func TestWatcher_StartMissingDirectory(t *testing.T) {
	w, err := New(Config{
		Path:     filepath.Join(t.TempDir(), "missing", "contacts.json"),
		OnChange: func() {},
		Logger:   zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	err = w.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	// Stop stays safe after a failed Start.
	w.Stop()
}
