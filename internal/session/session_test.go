package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/displaywall/internal/content"
	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/group"
	"github.com/1broseidon/displaywall/internal/window"
)

func populated(t *testing.T) (*group.DisplayGroup, []*window.Window) {
	t.Helper()
	g := group.New(geom.Size{W: 2000, H: 1000})

	photo := window.New(
		content.New(content.Texture, "photo.png", geom.Size{W: 800, H: 600},
			content.WithZoomRect(geom.Rect{X: 0.25, Y: 0.25, W: 0.5, H: 0.5})),
		window.WithCoordinates(geom.Rect{X: 100, Y: 100, W: 800, H: 600}),
	)
	browser := window.New(
		content.New(content.WebBrowser, "https://example.org", geom.Size{W: 1280, H: 720},
			content.WithTransparency(true)),
		window.WithCoordinates(geom.Rect{X: 900, Y: 200, W: 640, H: 360}),
	)
	require.True(t, browser.SetResizePolicy(window.AdjustContent))
	launcher := window.New(
		content.New(content.WebBrowser, "launcher://", geom.Size{W: 400, H: 400}),
		window.WithType(window.TypePanel),
	)
	movie := window.New(content.New(content.Movie, "clip.mp4", geom.Size{W: 1920, H: 1080}))

	for _, w := range []*window.Window{photo, browser, launcher, movie} {
		g.Add(w)
	}
	g.Focus(photo.ID())
	g.Focus(browser.ID())
	browser.SetSelected(true)
	g.SetFullscreenWindow(movie)
	return g, []*window.Window{photo, browser, launcher, movie}
}

func TestCaptureRestoreRoundTrip(t *testing.T) {
	g, windows := populated(t)
	snap := Capture("demo", g)
	require.Len(t, snap.Windows, 4)

	store := NewStore(t.TempDir())
	require.NoError(t, store.Write(snap))
	loaded, err := store.Read("demo")
	require.NoError(t, err)

	restored := group.New(geom.Size{W: 2000, H: 1000})
	restored.Add(window.New(content.New(content.Texture, "stale.png", geom.Size{W: 10, H: 10})))
	require.NoError(t, Restore(loaded, restored))

	got := restored.Windows()
	require.Len(t, got, len(windows))
	for i, want := range windows {
		w := got[i]
		assert.Equal(t, want.ID(), w.ID())
		assert.Equal(t, want.Content().Type(), w.Content().Type())
		assert.Equal(t, want.Content().URI(), w.Content().URI())
		assert.Equal(t, want.Content().ZoomRect(), w.Content().ZoomRect())
		assert.Equal(t, want.Content().TransparencyFlag(), w.Content().TransparencyFlag())
		assert.Equal(t, want.Coordinates(), w.Coordinates())
		assert.Equal(t, want.Mode(), w.Mode())
		assert.Equal(t, want.ResizePolicy(), w.ResizePolicy())
		assert.Equal(t, want.Selected(), w.Selected())
		assert.Equal(t, want.IsPanel(), w.IsPanel())
		assert.Equal(t, g.IsFocused(want.ID()), restored.IsFocused(w.ID()))
	}

	require.NotNil(t, restored.FullscreenWindow())
	assert.Equal(t, windows[3].ID(), restored.FullscreenWindow().ID())
	assert.Equal(t, windows[3].FullscreenCoordinates(), restored.FullscreenWindow().FullscreenCoordinates())
	assert.Equal(t, windows[0].FocusedCoordinates(), got[0].FocusedCoordinates())
}

func TestRestoreRejectsBadSnapshotWithoutTouchingGroup(t *testing.T) {
	g := group.New(geom.Size{W: 1000, H: 1000})
	keep := window.New(content.New(content.Texture, "keep.png", geom.Size{W: 10, H: 10}))
	g.Add(keep)

	snap := &Snapshot{Windows: []WindowState{{ID: "not-a-uuid", Content: ContentState{Type: "texture"}}}}
	assert.Error(t, Restore(snap, g))
	assert.Equal(t, 0, g.ZIndex(keep.ID()))

	snap.Windows[0].ID = keep.ID().String()
	snap.Windows[0].Content.Type = "hologram"
	assert.Error(t, Restore(snap, g))
	assert.Len(t, g.Windows(), 1)
}

func TestStoreListAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	g := group.New(geom.Size{W: 1000, H: 1000})
	require.NoError(t, store.Write(Capture("b", g)))
	require.NoError(t, store.Write(Capture("a", g)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	names, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, store.Delete("a"))
	names, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)

	assert.Error(t, store.Delete("a"))
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"", "  ", "../x", "a/b", "..", "x..y"} {
		assert.Errorf(t, ValidateName(name), "name %q", name)
	}
	assert.NoError(t, ValidateName("morning-briefing"))
}

func TestListMissingDirectory(t *testing.T) {
	names, err := NewStore(filepath.Join(t.TempDir(), "missing")).List()
	require.NoError(t, err)
	assert.Nil(t, names)
}
