package wall

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/1broseidon/displaywall/internal/config"
	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/session"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Wall.Width = 4000
	cfg.Wall.Height = 2000
	cfg.Focus = config.FocusConfig{Layout: config.FocusLayoutLine, Region: config.FocusRegion{Type: config.RegionFull}}
	return cfg
}

func openTexture(t *testing.T, s *Service) WindowInfo {
	t.Helper()
	info, err := s.OpenWindow(OpenRequest{ContentType: "texture", URI: "image.png", Width: 800, Height: 600})
	require.NoError(t, err)
	return info
}

func TestOpenWindowCentersOnWall(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := New(testConfig(), WithLogger(zap.New(core)))

	info := openTexture(t, s)
	assert.Equal(t, geom.Rect{X: 1600, Y: 700, W: 800, H: 600}, info.Coordinates)
	assert.Equal(t, "texture", info.ContentType)
	assert.Equal(t, "standard", info.Mode)
	assert.Equal(t, 0, info.ZIndex)
	assert.Equal(t, 1, logs.FilterMessage("window opened").Len())

	at := geom.Point{X: 1000, Y: 1000}
	info, err := s.OpenWindow(OpenRequest{ContentType: "pdf", URI: "doc.pdf", Width: 600, Height: 800, Center: &at, Panel: true})
	require.NoError(t, err)
	assert.Equal(t, geom.Point{X: 1000, Y: 1000}, info.Coordinates.Center())
	assert.True(t, info.Panel)
	assert.Len(t, s.ListWindows(), 2)
}

func TestOpenWindowRejectsBadRequests(t *testing.T) {
	s := New(testConfig())

	_, err := s.OpenWindow(OpenRequest{ContentType: "hologram", Width: 10, Height: 10})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.OpenWindow(OpenRequest{ContentType: "texture", Width: 0, Height: 10})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, s.ListWindows())
}

func TestLookupErrors(t *testing.T) {
	s := New(testConfig())

	_, err := s.Window("not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.Window(uuid.NewString())
	assert.ErrorIs(t, err, ErrWindowNotFound)

	assert.ErrorIs(t, s.CloseWindow(uuid.NewString()), ErrWindowNotFound)
}

func TestMoveAndResize(t *testing.T) {
	s := New(testConfig())
	id := openTexture(t, s).ID

	info, err := s.MoveWindow(id, geom.Point{X: 500, Y: 500}, true)
	require.NoError(t, err)
	assert.Equal(t, geom.Rect{X: 100, Y: 200, W: 800, H: 600}, info.Coordinates)

	info, err = s.MoveWindowBy(id, geom.Point{X: 100, Y: -50})
	require.NoError(t, err)
	assert.Equal(t, geom.Rect{X: 200, Y: 150, W: 800, H: 600}, info.Coordinates)

	info, err = s.ResizeWindow(id, geom.Size{W: 1600, H: 1200}, false)
	require.NoError(t, err)
	assert.Equal(t, geom.Rect{X: 200, Y: 150, W: 1600, H: 1200}, info.Coordinates)
}

func TestDragHandle(t *testing.T) {
	s := New(testConfig())
	id := openTexture(t, s).ID

	info, err := s.DragHandle(id, "bottom_right", geom.Point{X: 400})
	require.NoError(t, err)
	assert.InDelta(t, 1600, info.Coordinates.X, 1e-9)
	assert.InDelta(t, 700, info.Coordinates.Y, 1e-9)
	assert.InDelta(t, 1200, info.Coordinates.W, 1e-9)
	assert.InDelta(t, 900, info.Coordinates.H, 1e-9)
	assert.Equal(t, "none", info.State)

	_, err = s.DragHandle(id, "middle", geom.Point{X: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAdjustWindow(t *testing.T) {
	s := New(testConfig())
	id := openTexture(t, s).ID

	_, err := s.ResizeWindow(id, geom.Size{W: 1600, H: 1200}, true)
	require.NoError(t, err)
	info, err := s.AdjustWindow(id, "1to1")
	require.NoError(t, err)
	assert.Equal(t, geom.Size{W: 800, H: 600}, info.Coordinates.Size())

	_, err = s.AdjustWindow(id, "huge")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSetResizePolicy(t *testing.T) {
	s := New(testConfig())

	stream, err := s.OpenWindow(OpenRequest{ContentType: "pixel_stream", URI: "stream", Width: 1920, Height: 1080})
	require.NoError(t, err)
	_, err = s.SetResizePolicy(stream.ID, "adjust_content")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = s.SetResizePolicy(stream.ID, "stretch")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	texture := openTexture(t, s).ID
	info, err := s.SetResizePolicy(texture, "adjust_content")
	require.NoError(t, err)
	assert.Equal(t, "adjust_content", info.ResizePolicy)

	browser, err := s.OpenWindow(OpenRequest{ContentType: "web_browser", URI: "https://example.org", Width: 1280, Height: 720})
	require.NoError(t, err)
	info, err = s.SetResizePolicy(browser.ID, "adjust_content")
	require.NoError(t, err)
	assert.Equal(t, "adjust_content", info.ResizePolicy)
}

func TestFocusAndFullscreen(t *testing.T) {
	s := New(testConfig())
	a := openTexture(t, s).ID
	b := openTexture(t, s).ID

	info, err := s.FocusWindow(a)
	require.NoError(t, err)
	assert.True(t, info.Focused)
	assert.Equal(t, "focused", info.Mode)
	assert.False(t, info.FocusedCoordinates.IsEmpty())
	assert.Equal(t, 1, s.Status().Focused)

	require.NoError(t, s.SetFullscreen(b))
	st := s.Status()
	assert.Equal(t, b, st.Fullscreen)

	info, err = s.Window(b)
	require.NoError(t, err)
	assert.InDelta(t, 2000*4.0/3, info.FullscreenCoordinates.W, 1e-9)
	assert.InDelta(t, 2000, info.FullscreenCoordinates.H, 1e-9)

	require.NoError(t, s.SetFullscreen(""))
	assert.Empty(t, s.Status().Fullscreen)

	s.UnfocusAll()
	assert.Equal(t, 0, s.Status().Focused)
}

func TestFocusPanelIsRejected(t *testing.T) {
	s := New(testConfig())
	panel, err := s.OpenWindow(OpenRequest{ContentType: "texture", Width: 400, Height: 400, Panel: true})
	require.NoError(t, err)

	_, err = s.FocusWindow(panel.ID)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestZoomGestures(t *testing.T) {
	s := New(testConfig())
	id := openTexture(t, s).ID

	info, err := s.Pinch(id, geom.Point{X: 2000, Y: 1000}, geom.Point{X: 800})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, info.ZoomRect.W, 1e-9)
	assert.InDelta(t, 0.5, info.ZoomRect.Center().X, 1e-9)

	info, err = s.ResetZoom(id)
	require.NoError(t, err)
	assert.InDelta(t, 1, info.ZoomRect.W, 1e-9)
	assert.InDelta(t, 1, info.ZoomRect.H, 1e-9)

	stream, err := s.OpenWindow(OpenRequest{ContentType: "pixel_stream", Width: 800, Height: 600})
	require.NoError(t, err)
	info, err = s.Pan(stream.ID, geom.Point{X: 100})
	require.NoError(t, err)
	assert.Equal(t, geom.UnitRect, info.ZoomRect)
}

func TestRaiseAndVisibleArea(t *testing.T) {
	s := New(testConfig())
	below := openTexture(t, s).ID
	above := openTexture(t, s).ID

	area, err := s.VisibleArea(below)
	require.NoError(t, err)
	assert.True(t, area.IsEmpty())

	info, err := s.RaiseWindow(below)
	require.NoError(t, err)
	assert.Equal(t, 1, info.ZIndex)

	area, err = s.VisibleArea(below)
	require.NoError(t, err)
	assert.Equal(t, geom.Rect{X: 1600, Y: 700, W: 800, H: 600}, area)

	area, err = s.VisibleArea(above)
	require.NoError(t, err)
	assert.True(t, area.IsEmpty())
}

func TestSelection(t *testing.T) {
	s := New(testConfig())
	id := openTexture(t, s).ID

	info, err := s.SetSelected(id, true)
	require.NoError(t, err)
	assert.True(t, info.Selected)

	s.DeselectAll()
	info, err = s.Window(id)
	require.NoError(t, err)
	assert.False(t, info.Selected)
}

func TestApplyConfig(t *testing.T) {
	s := New(testConfig())
	id := openTexture(t, s).ID
	_, err := s.FocusWindow(id)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Wall.Width = 8000
	require.NoError(t, s.ApplyConfig(cfg))
	assert.Equal(t, geom.Size{W: 8000, H: 2000}, s.Status().Wall)

	info, err := s.Window(id)
	require.NoError(t, err)
	assert.InDelta(t, 4000, info.FocusedCoordinates.Center().X, 1e-9)

	cfg.Focus.Layout = "spiral"
	assert.ErrorIs(t, s.ApplyConfig(cfg), ErrInvalidArgument)
}

func TestSessions(t *testing.T) {
	s := New(testConfig())
	assert.Error(t, s.SaveSession("demo"))

	s = New(testConfig(), WithSessionStore(session.NewStore(t.TempDir())))
	openTexture(t, s)
	id := openTexture(t, s).ID
	_, err := s.FocusWindow(id)
	require.NoError(t, err)

	require.NoError(t, s.SaveSession("demo"))
	names, err := s.ListSessions()
	require.NoError(t, err)
	assert.Equal(t, []string{"demo"}, names)

	s.Clear()
	assert.Empty(t, s.ListWindows())

	require.NoError(t, s.LoadSession("demo"))
	assert.Len(t, s.ListWindows(), 2)
	info, err := s.Window(id)
	require.NoError(t, err)
	assert.True(t, info.Focused)

	require.NoError(t, s.DeleteSession("demo"))
	_, err = s.ListSessions()
	require.NoError(t, err)
	assert.Error(t, s.LoadSession("demo"))
}
