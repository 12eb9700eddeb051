package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/ipc"
)

type fakeSaver struct {
	gen   uint64
	saves int
	err   error
}

func (f *fakeSaver) Generation() uint64 { return f.gen }

func (f *fakeSaver) SaveSession(name string) error {
	if f.err != nil {
		return f.err
	}
	f.saves++
	return nil
}

func TestAutosaverSavesOnlyChanges(t *testing.T) {
	f := &fakeSaver{}
	a := NewAutosaver(time.Hour, f, zap.NewNop())

	assert.True(t, a.SaveNow())
	assert.False(t, a.SaveNow())

	f.gen = 3
	assert.True(t, a.SaveNow())
	assert.Equal(t, 2, f.saves)
}

func TestAutosaverLogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := &fakeSaver{err: errors.New("disk full")}
	a := NewAutosaver(0, f, zap.New(core))

	assert.Equal(t, time.Minute, a.interval)
	assert.False(t, a.SaveNow())
	assert.Equal(t, 1, logs.FilterMessage("autosave failed").Len())

	// A failed save does not count as saved.
	f.err = nil
	assert.True(t, a.SaveNow())
}

func TestAutosaverSavesOnShutdown(t *testing.T) {
	f := &fakeSaver{}
	a := NewAutosaver(time.Hour, f, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, a.Run(ctx))
	assert.Equal(t, 1, f.saves)
}

func TestConfigWatcherSignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wall:\n  width: 100\n"), 0644))

	w, err := NewConfigWatcher([]string{path}, zaptest.NewLogger(t))
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, changed) }()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	select {
	case <-changed:
		t.Fatal("unexpected change signal")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte("wall:\n  width: 200\n"), 0644))
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal")
	}

	cancel()
	require.NoError(t, <-done)
}

func writeConfig(t *testing.T, path string, width int, sessions string) {
	t.Helper()
	data := fmt.Sprintf("wall:\n  width: %d\n  height: 2000\nsession:\n  dir: %s\n", width, sessions)
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func TestDaemonServesAndReloads(t *testing.T) {
	dir, err := os.MkdirTemp("", "dwd")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	cfgPath := filepath.Join(dir, "config.yaml")
	sessions := filepath.Join(dir, "sessions")
	writeConfig(t, cfgPath, 4000, sessions)

	d, err := New(Options{
		ConfigPath: cfgPath,
		SocketPath: filepath.Join(dir, "wall.sock"),
		Autosave:   time.Hour,
		Watch:      true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	c := ipc.NewClientForSocket(filepath.Join(dir, "wall.sock"))
	require.Eventually(t, func() bool { return c.Ping() == nil }, 2*time.Second, 10*time.Millisecond)

	st, err := c.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, geom.Size{W: 4000, H: 2000}, st.Wall)

	_, err = c.OpenWindow(ipc.OpenPayload{ContentType: "texture", URI: "a.png", Width: 800, Height: 600})
	require.NoError(t, err)

	writeConfig(t, cfgPath, 6000, sessions)
	require.Eventually(t, func() bool {
		st, err := c.GetStatus()
		return err == nil && st.Wall.W == 6000
	}, 3*time.Second, 20*time.Millisecond)

	// A broken file keeps the running configuration.
	require.NoError(t, os.WriteFile(cfgPath, []byte("wall: ["), 0644))
	require.NoError(t, c.Reload())
	time.Sleep(50 * time.Millisecond)
	st, err = c.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 6000.0, st.Wall.W)

	cancel()
	require.NoError(t, <-done)

	// Shutdown wrote the autosave snapshot.
	_, err = os.Stat(filepath.Join(sessions, AutosaveSession+".yaml"))
	assert.NoError(t, err)
}

func TestDaemonRestoresAutosave(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	sessions := filepath.Join(dir, "sessions")
	writeConfig(t, cfgPath, 4000, sessions)

	first, err := New(Options{ConfigPath: cfgPath}, zap.NewNop())
	require.NoError(t, err)
	_, err = first.Service().OpenWindow(wallOpen())
	require.NoError(t, err)
	require.NoError(t, first.Service().SaveSession(AutosaveSession))

	second, err := New(Options{ConfigPath: cfgPath, Restore: true}, zap.NewNop())
	require.NoError(t, err)
	second.restore()
	assert.Len(t, second.Service().ListWindows(), 1)

	empty := filepath.Join(dir, "empty.yaml")
	writeConfig(t, empty, 4000, filepath.Join(dir, "none"))
	third, err := New(Options{ConfigPath: empty}, zap.NewNop())
	require.NoError(t, err)
	third.restore()
	assert.Empty(t, third.Service().ListWindows())
}

func wallOpen() ipc.OpenPayload {
	return ipc.OpenPayload{ContentType: "pdf", URI: "doc.pdf", Width: 600, Height: 800}
}
