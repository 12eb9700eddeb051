package zoom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/displaywall/internal/content"
	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/window"
)

func newWindow(t content.Type, dims geom.Size, rect geom.Rect) *window.Window {
	return window.New(content.New(t, "test://content", dims), window.WithCoordinates(rect))
}

func TestHelperRoundTrip(t *testing.T) {
	h := NewHelperForRect(geom.Rect{X: 100, Y: 50, W: 400, H: 300}, geom.UnitRect)
	zooms := []geom.Rect{
		geom.UnitRect,
		{X: 0.25, Y: 0.25, W: 0.5, H: 0.5},
		{X: 0.1, Y: 0.6, W: 0.3, H: 0.2},
	}
	for _, z := range zooms {
		got := h.ToZoomRect(h.ToContentRect(z))
		assert.Truef(t, got.ApproxEqual(z), "round trip of %+v gave %+v", z, got)
	}
}

func TestHelperContentRect(t *testing.T) {
	h := NewHelperForRect(geom.Rect{X: 100, Y: 100, W: 200, H: 100}, geom.Rect{X: 0.5, Y: 0.5, W: 0.5, H: 0.5})
	got := h.ContentRect()
	want := geom.Rect{X: -100, Y: 0, W: 400, H: 200}
	assert.Truef(t, got.ApproxEqual(want), "got %+v, want %+v", got, want)
}

func TestNewControllerPanicsForNonZoomableContent(t *testing.T) {
	w := newWindow(content.WebBrowser, geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 600})
	assert.Panics(t, func() { NewController(w) })
}

func TestContentControllerFor(t *testing.T) {
	tests := []struct {
		typ     content.Type
		zooming bool
	}{
		{content.Texture, true},
		{content.Movie, false},
		{content.PDF, true},
		{content.SVG, true},
		{content.ImagePyramid, true},
		{content.PixelStream, false},
		{content.WebBrowser, false},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			w := newWindow(tt.typ, geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 600})
			_, isZoom := ContentControllerFor(w).(*Controller)
			assert.Equal(t, tt.zooming, isZoom)
		})
	}
}

func TestNoopControllerLeavesZoomAlone(t *testing.T) {
	w := newWindow(content.PixelStream, geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 600})
	c := ContentControllerFor(w)
	c.Pinch(geom.Point{X: 400, Y: 300}, geom.Point{X: 100, Y: 100})
	c.Pan(geom.Point{X: 10})
	assert.Equal(t, geom.UnitRect, w.Content().ZoomRect())
}

func TestPinchZoomsInAroundPoint(t *testing.T) {
	w := newWindow(content.Texture, geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 600})
	c := NewController(w)

	c.Pinch(geom.Point{X: 400, Y: 300}, geom.Point{X: 800, Y: 0})

	z := w.Content().ZoomRect()
	assert.InDelta(t, 0.5, z.W, 1e-9)
	assert.InDelta(t, 0.5, z.H, 1e-9)
	assert.InDelta(t, 0.25, z.X, 1e-9)
	assert.InDelta(t, 0.25, z.Y, 1e-9)
}

func TestPinchOutNeverExceedsUnitRect(t *testing.T) {
	w := newWindow(content.Texture, geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 600})
	c := NewController(w)

	c.Pinch(geom.Point{X: 100, Y: 100}, geom.Point{X: -300, Y: -300})

	assert.True(t, w.Content().ZoomRect().ApproxEqual(geom.UnitRect))
}

func TestPinchRespectsMaximumZoomIn(t *testing.T) {
	// Raster content may be enlarged 3x: the zoom rect can't drop below 1/3.
	w := newWindow(content.Texture, geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 600})
	c := NewController(w)

	c.Pinch(geom.Point{X: 400, Y: 300}, geom.Point{X: 10000, Y: 0})

	z := w.Content().ZoomRect()
	assert.InDelta(t, 1.0/3, z.W, 1e-9)
	assert.InDelta(t, 1.0/3, z.H, 1e-9)
	assert.True(t, geom.UnitRect.Contains(z))
}

func TestPanStaysInsideContent(t *testing.T) {
	w := newWindow(content.Texture, geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 600})
	w.Content().SetZoomRect(geom.Rect{X: 0.25, Y: 0.25, W: 0.5, H: 0.5})
	c := NewController(w)

	// Dragging content right reveals its left side.
	c.Pan(geom.Point{X: 400})
	z := w.Content().ZoomRect()
	assert.InDelta(t, 0, z.X, 1e-9)
	assert.InDelta(t, 0.25, z.Y, 1e-9)

	c.Pan(geom.Point{X: -10000, Y: -10000})
	z = w.Content().ZoomRect()
	assert.InDelta(t, 0.5, z.X, 1e-9)
	assert.InDelta(t, 0.5, z.Y, 1e-9)
}

func TestDoubleTapResetsZoom(t *testing.T) {
	w := newWindow(content.PDF, geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 600})
	w.Content().SetZoomRect(geom.Rect{X: 0.1, Y: 0.1, W: 0.5, H: 0.5})
	NewController(w).DoubleTap()
	assert.True(t, w.Content().ZoomRect().ApproxEqual(geom.UnitRect))
}

func TestAdjustZoomToContentAspectRatio(t *testing.T) {
	// A 2:1 window over 4:3 content shows a horizontal band of the content.
	w := newWindow(content.Texture, geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 400})
	c := NewController(w)
	c.AdjustZoomToContentAspectRatio()

	z := w.Content().ZoomRect()
	require.InDelta(t, 1.0, z.W, 1e-9)
	assert.InDelta(t, 2.0/3, z.H, 1e-9)
	assert.InDelta(t, 1.0/6, z.Y, 1e-9)

	contentSize := NewHelper(w).ContentRect().Size()
	assert.InDelta(t, 4.0/3, contentSize.AspectRatio(), 1e-9)
}

func TestAdjustZoomToContentAspectRatioTallWindow(t *testing.T) {
	w := newWindow(content.Texture, geom.Size{W: 800, H: 600}, geom.Rect{W: 300, H: 600})
	c := NewController(w)
	c.AdjustZoomToContentAspectRatio()

	z := w.Content().ZoomRect()
	assert.InDelta(t, 1.0, z.H, 1e-9)
	assert.InDelta(t, 0.375, z.W, 1e-9)
	assert.True(t, geom.UnitRect.Contains(z))
}

func TestForRectUsesGivenRectangle(t *testing.T) {
	w := newWindow(content.Texture, geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 600})
	target := geom.Rect{W: 800, H: 400}
	c := NewController(w, ForRect(func() geom.Rect { return target }))
	c.AdjustZoomToContentAspectRatio()
	assert.InDelta(t, 2.0/3, w.Content().ZoomRect().H, 1e-9)
}
