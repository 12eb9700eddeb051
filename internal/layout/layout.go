// Package layout computes the focused coordinates of windows shown in
// presentation mode.
package layout

import (
	"fmt"
	"math"

	"github.com/1broseidon/displaywall/internal/config"
	"github.com/1broseidon/displaywall/internal/controller"
	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/window"
)

// Engine places a set of focused windows on the focus surface.
type Engine interface {
	// Compute returns one rectangle per window, in input order.
	Compute(windows []*window.Window) []geom.Rect
}

// New returns the engine for a configured layout name.
func New(kind string, policy Policy) (Engine, error) {
	switch kind {
	case config.FocusLayoutAutomatic, "":
		return NewCanvas(policy), nil
	case config.FocusLayoutLine:
		return NewLine(policy), nil
	default:
		return nil, fmt.Errorf("unsupported focus layout: %q", kind)
	}
}

// UpdateFocusedCoordinates writes the engine result into each window's
// focused rectangle.
func UpdateFocusedCoordinates(e Engine, windows []*window.Window) {
	if len(windows) == 0 {
		return
	}
	rects := e.Compute(windows)
	for i, w := range windows {
		w.SetFocusedCoordinates(rects[i])
	}
}

// FocusedCoordinates returns the rectangle target would get if the given
// windows were focused together. It does not modify any window.
func FocusedCoordinates(e Engine, windows []*window.Window, target *window.Window) geom.Rect {
	for i, w := range e.Compute(windows) {
		if windows[i] == target {
			return w
		}
	}
	return geom.Rect{}
}

// Policy holds the wall-level parameters shared by the focus layouts.
type Policy struct {
	Wall          geom.Size
	Region        config.FocusRegion
	Spacing       float64
	ControlsWidth float64
	TitleHeight   float64
}

// NewPolicy builds a policy from the focus configuration.
func NewPolicy(wall geom.Size, focus config.FocusConfig) Policy {
	return Policy{
		Wall:          wall,
		Region:        focus.Region,
		Spacing:       focus.Spacing,
		ControlsWidth: focus.ControlsWidth,
		TitleHeight:   focus.TitleHeight,
	}
}

// Size makes the policy usable as a controller surface.
func (p Policy) Size() geom.Size { return p.Wall }

// FocusSurface is the part of the wall available to focused windows.
// Windows pad themselves on the right and bottom, so only the left and top
// edges are inset here.
func (p Policy) FocusSurface() geom.Rect {
	region := ApplyRegion(geom.Rect{W: p.Wall.W, H: p.Wall.H}, p.Region)
	return region.Inset(geom.Margins{Left: p.Spacing, Top: p.Spacing})
}

// WindowMargins is the space reserved around each focused window for its
// controls, title bar and spacing.
func (p Policy) WindowMargins() geom.Margins {
	return geom.Margins{
		Left:   p.ControlsWidth,
		Top:    p.TitleHeight,
		Right:  p.Spacing,
		Bottom: p.Spacing,
	}
}

// ApplyRegion restricts bounds to the configured region.
func ApplyRegion(bounds geom.Rect, region config.FocusRegion) geom.Rect {
	adjusted := bounds

	switch region.Type {
	case config.RegionFull:
		// No change

	case config.RegionLeftHalf:
		adjusted.W = bounds.W / 2

	case config.RegionRightHalf:
		adjusted.X = bounds.X + bounds.W/2
		adjusted.W = bounds.W / 2

	case config.RegionTopHalf:
		adjusted.H = bounds.H / 2

	case config.RegionBottomHalf:
		adjusted.Y = bounds.Y + bounds.H/2
		adjusted.H = bounds.H / 2

	case config.RegionCustom:
		adjusted.X = bounds.X + bounds.W*float64(region.XPercent)/100
		adjusted.Y = bounds.Y + bounds.H*float64(region.YPercent)/100
		adjusted.W = bounds.W * float64(region.WidthPercent) / 100
		adjusted.H = bounds.H * float64(region.HeightPercent) / 100
	}

	if adjusted.W < 1 {
		adjusted.W = 1
	}
	if adjusted.H < 1 {
		adjusted.H = 1
	}

	return adjusted
}

// aspectRatio is the ratio a focused window must keep.
func aspectRatio(w *window.Window) float64 {
	if w.ResizePolicy() != window.AdjustContent || !w.CanAdjustContent() {
		if ar := w.Content().AspectRatio(); ar > 0 {
			return ar
		}
	}
	if ar := w.Coordinates().Size().AspectRatio(); ar > 0 {
		return ar
	}
	if ar := w.Content().AspectRatio(); ar > 0 {
		return ar
	}
	return 1
}

// fitWindow strips the window margins from cell and fits the window centered
// in what remains, capped by the window's maximum focused size. The margins
// are shrunk by k when the cell itself was shrunk to fit the surface.
func fitWindow(p Policy, w *window.Window, cell geom.Rect, k float64) geom.Rect {
	inner := cell.Inset(p.WindowMargins().Scaled(math.Min(k, 1)))
	if inner.IsEmpty() {
		c := cell.Center()
		return geom.Rect{X: c.X, Y: c.Y}
	}
	size := geom.Size{W: aspectRatio(w), H: 1}.Scaled(inner.Size(), geom.KeepAspectRatio)
	maxSize := controller.New(w, p, controller.TargetFocused).MaxSize()
	if !size.Fits(maxSize) {
		size = size.Scaled(maxSize, geom.KeepAspectRatio)
	}
	return geom.CenteredRect(inner.Center(), size)
}
