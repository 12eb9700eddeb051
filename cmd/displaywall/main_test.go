package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/1broseidon/displaywall/internal/config"
	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/ipc"
	"github.com/1broseidon/displaywall/internal/wall"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func startDaemon(t *testing.T) (string, *wall.Service) {
	t.Helper()
	dir, err := os.MkdirTemp("", "dwc")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	cfg := config.DefaultConfig()
	cfg.Wall.Width = 4000
	cfg.Wall.Height = 2000
	svc := wall.New(cfg, wall.WithLogger(zaptest.NewLogger(t)))

	srv, err := ipc.NewServer(svc, nil,
		ipc.WithSocketPath(filepath.Join(dir, "wall.sock")),
		ipc.WithServerLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)
	return srv.SocketPath(), svc
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("12.5,-3")
	require.NoError(t, err)
	assert.Equal(t, geom.Point{X: 12.5, Y: -3}, p)

	for _, bad := range []string{"", "1", "1,2,3", "a,b"} {
		_, err := parsePoint(bad)
		assert.Error(t, err, bad)
	}
}

func TestConfigValidate(t *testing.T) {
	path := writeConfig(t, "wall:\n  width: 3840\n  height: 2160\n")
	out, err := run(t, "--config", path, "config", "validate")
	require.NoError(t, err)
	assert.Equal(t, "config: ok\n", out)

	bad := writeConfig(t, "focus:\n  layout: spiral\n")
	_, err = run(t, "--config", bad, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "focus.layout")
}

func TestConfigExplain(t *testing.T) {
	path := writeConfig(t, "wall:\n  width: 3840\n")
	out, err := run(t, "--config", path, "config", "explain", "wall.width")
	require.NoError(t, err)
	assert.Contains(t, out, "source: file:"+path+":2:")
	assert.Contains(t, out, "3840")

	out, err = run(t, "--config", path, "config", "explain", "focus.layout")
	require.NoError(t, err)
	assert.Contains(t, out, "source: default:defaults")
}

func TestConfigPrintDefaults(t *testing.T) {
	out, err := run(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "config", "print", "--defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "width: 7680")
}

func TestWindowCommands(t *testing.T) {
	sock, svc := startDaemon(t)

	out, err := run(t, "--socket", sock, "window", "open", "texture", "image.png", "800", "600", "--at", "1000,1000")
	require.NoError(t, err)
	var opened ipc.WindowData
	require.NoError(t, json.Unmarshal([]byte(out), &opened))
	assert.Equal(t, geom.Rect{X: 600, Y: 700, W: 800, H: 600}, opened.Coordinates)

	_, err = run(t, "--socket", sock, "window", "move", opened.ID, "10", "20", "--by")
	require.NoError(t, err)
	info, err := svc.Window(opened.ID)
	require.NoError(t, err)
	assert.Equal(t, geom.Point{X: 610, Y: 720}, info.Coordinates.TopLeft())

	out, err = run(t, "--socket", sock, "window", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], opened.ID)

	out, err = run(t, "--socket", sock, "window", "visible", opened.ID)
	require.NoError(t, err)
	assert.Equal(t, "800x600+610+720\n", out)

	_, err = run(t, "--socket", sock, "focus", "add", opened.ID)
	require.NoError(t, err)
	info, err = svc.Window(opened.ID)
	require.NoError(t, err)
	assert.True(t, info.Focused)

	_, err = run(t, "--socket", sock, "window", "close", "nope")
	assert.ErrorIs(t, err, wall.ErrInvalidArgument)

	_, err = run(t, "--socket", sock, "window", "close", opened.ID)
	require.NoError(t, err)
	assert.Empty(t, svc.ListWindows())
}
