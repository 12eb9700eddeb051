package zoom

import (
	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/window"
)

// Helper maps between a window rectangle plus a normalized zoom rect and the
// absolute rectangle the whole, unscaled content would occupy on the wall.
type Helper struct {
	rect    geom.Rect
	content geom.Rect
}

// NewHelper builds a helper for the window's display rectangle and current zoom rect.
func NewHelper(w *window.Window) Helper {
	return Helper{rect: w.DisplayCoordinates(), content: w.Content().ZoomRect()}
}

// NewHelperForRect builds a helper for an arbitrary window rectangle and zoom rect.
func NewHelperForRect(windowRect, zoomRect geom.Rect) Helper {
	return Helper{rect: windowRect, content: zoomRect}
}

// ContentRect returns the content rectangle for the current zoom rect.
func (h Helper) ContentRect() geom.Rect { return h.ToContentRect(h.content) }

// ToContentRect converts a zoom rect into wall coordinates of the full content.
// A degenerate zoom rect yields the window rectangle.
func (h Helper) ToContentRect(zoomRect geom.Rect) geom.Rect {
	if zoomRect.IsEmpty() {
		return h.rect
	}
	size := geom.Size{W: h.rect.W / zoomRect.W, H: h.rect.H / zoomRect.H}
	return geom.Rect{
		X: h.rect.X - zoomRect.X*size.W,
		Y: h.rect.Y - zoomRect.Y*size.H,
		W: size.W,
		H: size.H,
	}
}

// ToZoomRect is the inverse of ToContentRect.
func (h Helper) ToZoomRect(contentRect geom.Rect) geom.Rect {
	if contentRect.IsEmpty() {
		return geom.UnitRect
	}
	return geom.Rect{
		X: (h.rect.X - contentRect.X) / contentRect.W,
		Y: (h.rect.Y - contentRect.Y) / contentRect.H,
		W: h.rect.W / contentRect.W,
		H: h.rect.H / contentRect.H,
	}
}
