package zoom

import (
	"fmt"
	"math"

	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/window"
)

// Controller applies zoom gestures to a window's content while keeping the
// zoom rect inside the unit square and within the content's zoom limits.
type Controller struct {
	window *window.Window
	rect   func() geom.Rect
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// ForRect makes the controller work against a specific window rectangle
// instead of the display coordinates, e.g. the target of a WindowController.
func ForRect(rect func() geom.Rect) ControllerOption {
	return func(c *Controller) { c.rect = rect }
}

// NewController creates a zoom controller. The content must be zoomable;
// check Content().CanBeZoomed() first, this panics otherwise.
func NewController(w *window.Window, opts ...ControllerOption) *Controller {
	if !w.Content().CanBeZoomed() {
		panic(fmt.Sprintf("zoom: content of type %s cannot be zoomed", w.Content().Type()))
	}
	c := &Controller{window: w, rect: w.DisplayCoordinates}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) helper() Helper {
	return NewHelperForRect(c.rect(), c.window.Content().ZoomRect())
}

// Pinch scales the content around pos (wall coordinates). The signed length
// of pixelDelta is the change of content width in pixels.
func (c *Controller) Pinch(pos geom.Point, pixelDelta geom.Point) {
	h := c.helper()
	contentRect := h.ContentRect()
	if contentRect.IsEmpty() {
		return
	}
	delta := math.Hypot(pixelDelta.X, pixelDelta.Y)
	if pixelDelta.X+pixelDelta.Y < 0 {
		delta = -delta
	}
	newWidth := contentRect.W + delta
	if newWidth <= 0 {
		return
	}
	k := newWidth / contentRect.W
	scaled := contentRect.ScaledAround(pos, k, k)
	c.apply(h.ToZoomRect(scaled))
}

// Pan moves the content by delta wall pixels.
func (c *Controller) Pan(delta geom.Point) {
	h := c.helper()
	moved := h.ContentRect().Translated(delta)
	zoom := h.ToZoomRect(moved)
	c.window.Content().SetZoomRect(c.constrainPosition(zoom))
}

// DoubleTap resets the zoom.
func (c *Controller) DoubleTap() { c.reset() }

// TapAndHold resets the zoom.
func (c *Controller) TapAndHold() { c.reset() }

func (c *Controller) reset() {
	c.window.Content().ResetZoom()
	c.AdjustZoomToContentAspectRatio()
}

// AdjustZoomToContentAspectRatio reshapes the zoom rect so the visible part
// of the content has the same aspect ratio as the window, keeping its center.
func (c *Controller) AdjustZoomToContentAspectRatio() {
	win := c.rect()
	contentAR := c.window.Content().AspectRatio()
	if win.IsEmpty() || contentAR == 0 {
		return
	}
	windowAR := win.W / win.H
	zoom := c.window.Content().ZoomRect()
	center := zoom.Center()

	size := geom.Size{W: zoom.W, H: zoom.W * contentAR / windowAR}
	if size.H > 1 {
		size = geom.Size{W: windowAR / contentAR, H: 1}
	}
	c.apply(geom.CenteredRect(center, size))
}

// MinZoomSize is the smallest zoom rect allowed (maximum zoom-in): the window
// may not show the content beyond its maximum dimensions.
func (c *Controller) MinZoomSize() geom.Size {
	win := c.rect().Size()
	maxDims := c.window.Content().MaxDimensions()
	if maxDims.IsEmpty() {
		return geom.Size{}
	}
	return geom.Size{W: win.W / maxDims.W, H: win.H / maxDims.H}
}

// MaxZoomSize is the largest zoom rect allowed (maximum zoom-out) for the
// current zoom aspect ratio: the longer side covers the whole content.
func (c *Controller) MaxZoomSize() geom.Size {
	zoom := c.window.Content().ZoomRect()
	if zoom.IsEmpty() {
		return geom.Size{W: 1, H: 1}
	}
	k := 1 / math.Max(zoom.W, zoom.H)
	return zoom.Size().Mul(k)
}

func (c *Controller) apply(zoom geom.Rect) {
	zoom = c.constrainZoomLevel(zoom)
	c.window.Content().SetZoomRect(c.constrainPosition(zoom))
}

func (c *Controller) constrainZoomLevel(zoom geom.Rect) geom.Rect {
	if zoom.IsEmpty() {
		return geom.UnitRect
	}
	center := zoom.Center()
	size := zoom.Size()

	minSize := c.MinZoomSize()
	if size.W < minSize.W || size.H < minSize.H {
		size = size.Mul(math.Max(minSize.W/size.W, minSize.H/size.H))
	}
	if size.W > 1 || size.H > 1 {
		size = size.Mul(1 / math.Max(size.W, size.H))
	}
	return geom.CenteredRect(center, size)
}

func (c *Controller) constrainPosition(zoom geom.Rect) geom.Rect {
	zoom.X = geom.Clamp(zoom.X, 0, 1-zoom.W)
	zoom.Y = geom.Clamp(zoom.Y, 0, 1-zoom.H)
	return zoom
}
