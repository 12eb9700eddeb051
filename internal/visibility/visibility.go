// Package visibility computes which part of a window is actually seen.
package visibility

import (
	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/group"
	"github.com/1broseidon/displaywall/internal/window"
)

// Helper computes unobstructed areas for the windows of one group.
type Helper struct {
	group         *group.DisplayGroup
	view          geom.Rect
	alphaBlending bool
}

// New creates a helper clipping against view. With alphaBlending,
// transparent windows do not hide what lies below them.
func New(g *group.DisplayGroup, view geom.Rect, alphaBlending bool) *Helper {
	return &Helper{group: g, view: view, alphaBlending: alphaBlending}
}

// VisibleArea returns the part of w inside the view that no other window
// hides. Only occluders that cut the area across its full width or height
// are subtracted; partial overlaps leave the area unchanged.
func (h *Helper) VisibleArea(w *window.Window) geom.Rect {
	area := w.DisplayCoordinates().Intersect(h.view)
	if area.IsEmpty() {
		return geom.Rect{}
	}

	if fs := h.group.FullscreenWindow(); fs != nil {
		if fs == w {
			return area
		}
		return geom.Rect{}
	}
	if w.IsFocused() {
		return area
	}

	z := h.group.ZIndex(w.ID())
	for i, other := range h.group.Windows() {
		if other == w || !(i > z || other.IsFocused()) {
			continue
		}
		if !h.occludes(other) {
			continue
		}
		area = cut(area, other.DisplayCoordinates())
		if area.IsEmpty() {
			return geom.Rect{}
		}
	}
	return area
}

func (h *Helper) occludes(w *window.Window) bool {
	if w.IsHidden() {
		return false
	}
	return !(h.alphaBlending && w.Content().HasTransparency())
}

// cut removes o from area when o spans area on one axis and touches one of
// its edges.
func cut(area, o geom.Rect) geom.Rect {
	if !area.Intersects(o) {
		return area
	}
	if o.Contains(area) {
		return geom.Rect{}
	}

	fullWidth := o.Left() <= area.Left() && o.Right() >= area.Right()
	fullHeight := o.Top() <= area.Top() && o.Bottom() >= area.Bottom()

	switch {
	case fullWidth && o.Top() <= area.Top():
		return geom.Rect{X: area.X, Y: o.Bottom(), W: area.W, H: area.Bottom() - o.Bottom()}
	case fullWidth && o.Bottom() >= area.Bottom():
		return geom.Rect{X: area.X, Y: area.Y, W: area.W, H: o.Top() - area.Top()}
	case fullHeight && o.Left() <= area.Left():
		return geom.Rect{X: o.Right(), Y: area.Y, W: area.Right() - o.Right(), H: area.H}
	case fullHeight && o.Right() >= area.Right():
		return geom.Rect{X: area.X, Y: area.Y, W: o.Left() - area.Left(), H: area.H}
	}
	return area
}
