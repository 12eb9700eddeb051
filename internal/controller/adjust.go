package controller

import (
	"github.com/1broseidon/displaywall/internal/geom"
)

// SizeState names a preset window size.
type SizeState int

const (
	Size1To1 SizeState = iota
	Size1To1Fitting
	SizeLarge
	SizeFullscreen
	SizeFullscreenMax
	SizeFullscreen1To1
)

var sizeStateNames = map[SizeState]string{
	Size1To1:           "1to1",
	Size1To1Fitting:    "1to1_fitting",
	SizeLarge:          "large",
	SizeFullscreen:     "fullscreen",
	SizeFullscreenMax:  "fullscreen_max",
	SizeFullscreen1To1: "fullscreen_1to1",
}

func (s SizeState) String() string {
	if name, ok := sizeStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSizeState resolves a preset name.
func ParseSizeState(name string) (SizeState, bool) {
	for s, n := range sizeStateNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// SizeStateNames lists the preset names in declaration order.
func SizeStateNames() []string {
	names := make([]string, 0, len(sizeStateNames))
	for s := Size1To1; s <= SizeFullscreen1To1; s++ {
		names = append(names, s.String())
	}
	return names
}

// AdjustSize applies a preset size. Unknown states are ignored.
//
// The fullscreen presets reset the content zoom and center the window on
// the wall; their size is taken as is and only the position is constrained.
func (c *WindowController) AdjustSize(state SizeState) {
	wall := c.surface.Size()
	preferred := c.window.Content().PreferredDimensions()

	switch state {
	case Size1To1:
		c.Resize(preferred, FixedCenter)
	case Size1To1Fitting:
		bound := wall.Mul(FittingSizeScale)
		size := preferred
		if !size.Fits(bound) {
			size = size.Scaled(bound, geom.KeepAspectRatio)
		}
		c.Resize(size, FixedCenter)
	case SizeLarge:
		w := wall.W * LargeSizeScale
		c.Resize(geom.Size{W: w, H: w / c.currentAspectRatio()}, FixedCenter)
	case SizeFullscreen:
		c.window.Content().ResetZoom()
		c.centerOnWall(preferred.Scaled(wall, geom.KeepAspectRatio))
	case SizeFullscreenMax:
		c.window.Content().ResetZoom()
		c.centerOnWall(preferred.Scaled(wall, geom.KeepAspectRatioByExpanding))
	case SizeFullscreen1To1:
		c.window.Content().ResetZoom()
		c.centerOnWall(preferred)
	}
}

// ToggleFullscreenMaxSize switches between the wall-covering and wall-fitting
// fullscreen sizes.
func (c *WindowController) ToggleFullscreenMaxSize() {
	wall := c.surface.Size()
	cover := c.window.Content().PreferredDimensions().Scaled(wall, geom.KeepAspectRatioByExpanding)
	current := c.Coordinates().Size()
	if current.W < cover.W-geom.Epsilon || current.H < cover.H-geom.Epsilon {
		c.AdjustSize(SizeFullscreenMax)
		return
	}
	c.AdjustSize(SizeFullscreen)
}

func (c *WindowController) centerOnWall(size geom.Size) {
	if size.IsEmpty() {
		return
	}
	wall := c.surface.Size()
	r := geom.CenteredRect(geom.Point{X: wall.W / 2, Y: wall.H / 2}, size)
	c.setCoordinates(c.constrainPosition(r))
	c.adjustZoom()
}
