package zoom

import (
	"github.com/1broseidon/displaywall/internal/content"
	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/window"
)

// ContentController handles the content-level gestures of a window.
type ContentController interface {
	Pinch(pos geom.Point, pixelDelta geom.Point)
	Pan(delta geom.Point)
	DoubleTap()
	TapAndHold()
}

// ContentControllerFor picks the gesture handler for the window's content type.
func ContentControllerFor(w *window.Window) ContentController {
	switch w.Content().Type() {
	case content.Texture, content.PDF, content.SVG, content.ImagePyramid:
		return NewController(w)
	case content.Movie, content.PixelStream, content.WebBrowser:
		return noopController{}
	default:
		return noopController{}
	}
}

// noopController ignores gestures for content that handles input itself.
type noopController struct{}

func (noopController) Pinch(geom.Point, geom.Point) {}
func (noopController) Pan(geom.Point)               {}
func (noopController) DoubleTap()                   {}
func (noopController) TapAndHold()                  {}
