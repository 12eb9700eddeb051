// Package controller implements the constrained resize and move operations
// applied to windows by input gestures and remote requests.
package controller

import (
	"math"

	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/window"
	"github.com/1broseidon/displaywall/internal/zoom"
)

const (
	// MinSizeRatio is the smallest window size relative to the wall.
	MinSizeRatio = 0.05
	// MinVisibleAreaPx is both the absolute minimum window size and the
	// amount of a standard window that must stay on the wall.
	MinVisibleAreaPx = 300.0
	// LargeSizeScale is the fraction of the wall width used by SizeLarge.
	LargeSizeScale = 0.75
	// FittingSizeScale bounds Size1To1Fitting relative to the wall.
	FittingSizeScale = 0.9
	// AspectRatioSnapTolerance is the relative distance to the content
	// aspect ratio under which free resizing snaps back to it.
	AspectRatioSnapTolerance = 0.01
)

// Surface is the area windows are constrained to, usually the display group.
type Surface interface {
	Size() geom.Size
}

// Target selects which window rectangle the controller modifies.
type Target int

const (
	// TargetAuto picks the rectangle matching the window mode.
	TargetAuto Target = iota
	TargetStandard
	TargetFocused
	TargetFullscreen
)

// FixedPoint selects the point kept in place by Resize and MoveTo.
type FixedPoint int

const (
	FixedTopLeft FixedPoint = iota
	FixedCenter
)

// WindowController transforms one window rectangle. It borrows the window
// and surface for the duration of a call sequence and keeps no other state.
type WindowController struct {
	window  *window.Window
	surface Surface
	target  Target
}

// New creates a controller for the given target rectangle of w.
func New(w *window.Window, surface Surface, target Target) *WindowController {
	if target == TargetAuto {
		switch w.Mode() {
		case window.ModeFullscreen:
			target = TargetFullscreen
		case window.ModeFocused:
			target = TargetFocused
		default:
			target = TargetStandard
		}
	}
	return &WindowController{window: w, surface: surface, target: target}
}

// Target returns the resolved target.
func (c *WindowController) Target() Target { return c.target }

// Coordinates returns the rectangle being controlled.
func (c *WindowController) Coordinates() geom.Rect {
	switch c.target {
	case TargetFocused:
		return c.window.FocusedCoordinates()
	case TargetFullscreen:
		return c.window.FullscreenCoordinates()
	default:
		return c.window.Coordinates()
	}
}

func (c *WindowController) setCoordinates(r geom.Rect) {
	switch c.target {
	case TargetFocused:
		c.window.SetFocusedCoordinates(r)
	case TargetFullscreen:
		c.window.SetFullscreenCoordinates(r)
	default:
		c.window.SetCoordinates(r)
	}
}

// Resize resizes the window keeping its top-left corner or center in place.
func (c *WindowController) Resize(size geom.Size, fixed FixedPoint) {
	r := c.Coordinates()
	p := r.TopLeft()
	if fixed == FixedCenter {
		p = r.Center()
	}
	c.ResizeAround(p, size)
}

// ResizeAround resizes the window keeping p at the same relative position.
// The size is fitted to the content aspect ratio unless the window adjusts
// its content, then clamped into [MinSize, MaxSize].
func (c *WindowController) ResizeAround(p geom.Point, size geom.Size) {
	if !size.IsFinite() {
		size = geom.Size{}
	}
	size = c.ConstrainSize(c.contentAspectSize(size))
	r := c.Coordinates().ResizedAround(p, size)
	c.setCoordinates(c.constrainPosition(r))
	c.adjustZoom()
}

// ResizeRelative applies a drag of the active handle by delta.
func (c *WindowController) ResizeRelative(delta geom.Point) {
	handle := c.window.ActiveHandle()
	r := c.Coordinates()

	var fixed geom.Point
	var dw, dh float64
	switch handle {
	case window.HandleTopLeft:
		fixed, dw, dh = geom.Point{X: r.Right(), Y: r.Bottom()}, -delta.X, -delta.Y
	case window.HandleTop:
		fixed, dh = geom.Point{X: r.Center().X, Y: r.Bottom()}, -delta.Y
	case window.HandleTopRight:
		fixed, dw, dh = geom.Point{X: r.Left(), Y: r.Bottom()}, delta.X, -delta.Y
	case window.HandleRight:
		fixed, dw = geom.Point{X: r.Left(), Y: r.Center().Y}, delta.X
	case window.HandleBottomRight:
		fixed, dw, dh = r.TopLeft(), delta.X, delta.Y
	case window.HandleBottom:
		fixed, dh = geom.Point{X: r.Center().X, Y: r.Top()}, delta.Y
	case window.HandleBottomLeft:
		fixed, dw, dh = geom.Point{X: r.Right(), Y: r.Top()}, -delta.X, delta.Y
	case window.HandleLeft:
		fixed, dw = geom.Point{X: r.Right(), Y: r.Center().Y}, -delta.X
	default:
		return
	}

	ar := c.currentAspectRatio()
	size := geom.Size{W: r.W + dw, H: r.H + dh}
	switch {
	case handle == window.HandleTop || handle == window.HandleBottom:
		size.W = size.H * ar
	case handle == window.HandleLeft || handle == window.HandleRight:
		size.H = size.W / ar
	case !c.adjustsContent():
		// Corner drag: the axis that moved most drives the other.
		if r.W > 0 && r.H > 0 && math.Abs(dw)/r.W >= math.Abs(dh)/r.H {
			size.H = size.W / ar
		} else {
			size.W = size.H * ar
		}
	default:
		contentAR := c.window.Content().AspectRatio()
		if contentAR > 0 && size.H > 0 && math.Abs(size.W/size.H/contentAR-1) < AspectRatioSnapTolerance {
			size.H = size.W / contentAR
		}
	}
	if size.W < 0 || size.H < 0 {
		size = geom.Size{}
	}
	c.ResizeAround(fixed, size)
}

// Scale grows the window width by pixelDelta around center, keeping the
// current aspect ratio.
func (c *WindowController) Scale(center geom.Point, pixelDelta float64) {
	r := c.Coordinates()
	if r.IsEmpty() {
		return
	}
	w := math.Max(r.W+pixelDelta, 0)
	c.ResizeAround(center, geom.Size{W: w, H: w / r.Size().AspectRatio()})
}

// MoveTo moves the window so its top-left corner or center is at p.
func (c *WindowController) MoveTo(p geom.Point, fixed FixedPoint) {
	r := c.Coordinates()
	if fixed == FixedCenter {
		r = r.WithCenter(p)
	} else {
		r = r.MovedTo(p)
	}
	c.setCoordinates(c.constrainPosition(r))
}

// MoveCenterTo moves the window center to p.
func (c *WindowController) MoveCenterTo(p geom.Point) { c.MoveTo(p, FixedCenter) }

// MoveBy translates the window by delta.
func (c *WindowController) MoveBy(delta geom.Point) {
	c.MoveTo(c.Coordinates().TopLeft().Add(delta), FixedTopLeft)
}

// MinSize returns the smallest size allowed for the target rectangle.
func (c *WindowController) MinSize() geom.Size {
	wall := c.surface.Size()
	if c.target == TargetFullscreen {
		dims := c.window.Content().Dimensions()
		if dims.IsEmpty() {
			return wall
		}
		return dims.Scaled(wall, geom.KeepAspectRatio)
	}
	minSize := wall.Mul(MinSizeRatio).ExpandedTo(geom.Size{W: MinVisibleAreaPx, H: MinVisibleAreaPx})
	return minSize.ExpandedTo(c.window.Content().MinDimensions())
}

// MaxSize returns the largest size allowed: the content maximum scaled by
// the visible fraction of the content. It is never below MinSize. When the
// window keeps its aspect ratio the maximum is grown uniformly, so small
// content never ends up with a maximum of a different shape.
func (c *WindowController) MaxSize() geom.Size {
	minSize := c.MinSize()
	zoomSize := c.window.Content().ZoomRect().Size()
	maxSize := c.window.Content().MaxDimensions().MulSize(zoomSize)
	if !c.adjustsContent() && !maxSize.IsEmpty() && (maxSize.W < minSize.W || maxSize.H < minSize.H) {
		return maxSize.Scaled(minSize, geom.KeepAspectRatioByExpanding)
	}
	return maxSize.ExpandedTo(minSize)
}

// ConstrainSize clamps size into [MinSize, MaxSize], preserving its aspect
// ratio when the window keeps the content aspect ratio.
func (c *WindowController) ConstrainSize(size geom.Size) geom.Size {
	minSize, maxSize := c.MinSize(), c.MaxSize()
	if !size.IsFinite() {
		size = geom.Size{}
	}
	if !c.adjustsContent() {
		if size.IsEmpty() {
			size = c.window.Content().Dimensions().Scaled(minSize, geom.KeepAspectRatioByExpanding)
		}
		if !size.Fits(maxSize) {
			size = size.Scaled(maxSize, geom.KeepAspectRatio)
		}
		if size.W < minSize.W || size.H < minSize.H {
			size = size.Scaled(minSize, geom.KeepAspectRatioByExpanding)
		}
	}
	return size.ExpandedTo(minSize).BoundedTo(maxSize)
}

func (c *WindowController) adjustsContent() bool {
	return c.window.ResizePolicy() == window.AdjustContent && c.window.CanAdjustContent()
}

func (c *WindowController) contentAspectSize(size geom.Size) geom.Size {
	dims := c.window.Content().Dimensions()
	if dims.IsEmpty() || c.adjustsContent() {
		return size
	}
	return dims.Scaled(size, geom.KeepAspectRatio)
}

func (c *WindowController) currentAspectRatio() float64 {
	if ar := c.Coordinates().Size().AspectRatio(); ar > 0 {
		return ar
	}
	if ar := c.window.Content().AspectRatio(); ar > 0 {
		return ar
	}
	return 1
}

func (c *WindowController) constrainPosition(r geom.Rect) geom.Rect {
	wall := c.surface.Size()
	if c.target == TargetFullscreen {
		r.X = centerOrClamp(r.X, r.W, wall.W)
		r.Y = centerOrClamp(r.Y, r.H, wall.H)
		return r
	}
	r.X = geom.Clamp(r.X, MinVisibleAreaPx-r.W, wall.W-MinVisibleAreaPx)
	r.Y = geom.Clamp(r.Y, MinVisibleAreaPx-r.H, wall.H-MinVisibleAreaPx)
	return r
}

// centerOrClamp centers a span smaller than the wall and otherwise keeps it
// covering the wall on that axis.
func centerOrClamp(pos, span, wall float64) float64 {
	if span < wall {
		return (wall - span) / 2
	}
	return geom.Clamp(pos, wall-span, 0)
}

func (c *WindowController) adjustZoom() {
	if !c.window.Content().CanBeZoomed() {
		return
	}
	zoom.NewController(c.window, zoom.ForRect(c.Coordinates)).AdjustZoomToContentAspectRatio()
}
