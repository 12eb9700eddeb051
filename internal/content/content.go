// Package content describes the media shown inside a wall window.
package content

import (
	"fmt"
	"math"
	"strings"

	"github.com/1broseidon/displaywall/internal/geom"
)

// Type identifies the kind of media a window presents.
type Type int

const (
	Texture Type = iota
	Movie
	PDF
	SVG
	ImagePyramid
	PixelStream
	WebBrowser
)

const (
	// MaxUpscale bounds how far raster content may be enlarged.
	MaxUpscale = 3.0
	// MaxVectorUpscale bounds how far vector content may be enlarged.
	MaxVectorUpscale = 16.0
)

// Transparency says whether a content type may carry an alpha channel.
type Transparency int

const (
	// Opaque content never shows what lies below it.
	Opaque Transparency = iota
	// Flagged content is transparent only when created WithTransparency.
	Flagged
	// Alpha content may always be see-through.
	Alpha
)

type capabilities struct {
	zoomable     bool
	fixedAspect  bool
	transparency Transparency
	maxUpscale   float64 // 0 = unbounded
	name         string
}

var capabilityTable = map[Type]capabilities{
	Texture:      {zoomable: true, fixedAspect: true, transparency: Flagged, maxUpscale: MaxUpscale, name: "texture"},
	Movie:        {zoomable: false, fixedAspect: true, transparency: Opaque, maxUpscale: MaxUpscale, name: "movie"},
	PDF:          {zoomable: true, fixedAspect: true, transparency: Opaque, maxUpscale: MaxVectorUpscale, name: "pdf"},
	SVG:          {zoomable: true, fixedAspect: true, transparency: Alpha, maxUpscale: MaxVectorUpscale, name: "svg"},
	ImagePyramid: {zoomable: true, fixedAspect: true, transparency: Opaque, maxUpscale: MaxUpscale, name: "image_pyramid"},
	PixelStream:  {zoomable: false, fixedAspect: true, transparency: Alpha, maxUpscale: MaxUpscale, name: "pixel_stream"},
	WebBrowser:   {zoomable: false, fixedAspect: false, transparency: Alpha, maxUpscale: 0, name: "web_browser"},
}

// String returns the configuration name of the type.
func (t Type) String() string {
	if c, ok := capabilityTable[t]; ok {
		return c.name
	}
	return "unknown"
}

// ParseType resolves a type name as written in sessions and IPC payloads.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, c := range capabilityTable {
		if c.name == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown content type %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// SizeHints override the dimensions derived from the content size.
// Zero sizes mean "not set".
type SizeHints struct {
	Min       geom.Size `json:"min" yaml:"min"`
	Max       geom.Size `json:"max" yaml:"max"`
	Preferred geom.Size `json:"preferred" yaml:"preferred"`
}

// Content describes the media shown by a window. It is owned by exactly one window.
type Content struct {
	typ         Type
	uri         string
	dimensions  geom.Size
	hints       SizeHints
	zoomRect    geom.Rect
	transparent bool

	onModified func()
}

// Option configures a Content at construction.
type Option func(*Content)

// WithSizeHints sets explicit min/max/preferred dimensions.
func WithSizeHints(h SizeHints) Option { return func(c *Content) { c.hints = h } }

// WithTransparency marks the content as having an alpha channel. It only
// matters for types whose transparency is Flagged.
func WithTransparency(transparent bool) Option { return func(c *Content) { c.transparent = transparent } }

// WithZoomRect sets the initial zoom rect (used by session restore).
func WithZoomRect(r geom.Rect) Option { return func(c *Content) { c.zoomRect = r } }

// New creates content of the given type and native dimensions.
func New(t Type, uri string, dimensions geom.Size, opts ...Option) *Content {
	c := &Content{
		typ:        t,
		uri:        uri,
		dimensions: dimensions,
		zoomRect:   geom.UnitRect,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Content) Type() Type { return c.typ }
func (c *Content) URI() string { return c.uri }
func (c *Content) Hints() SizeHints { return c.hints }

// Dimensions returns the native content size in pixels.
func (c *Content) Dimensions() geom.Size { return c.dimensions }

// SetDimensions updates the native size, e.g. when a pixel stream is resized at the source.
func (c *Content) SetDimensions(s geom.Size) {
	if c.dimensions == s {
		return
	}
	c.dimensions = s
	c.modified()
}

// SetSizeHints replaces the size hints.
func (c *Content) SetSizeHints(h SizeHints) {
	if c.hints == h {
		return
	}
	c.hints = h
	c.modified()
}

// MinDimensions returns the smallest size the content should be shown at.
func (c *Content) MinDimensions() geom.Size { return c.hints.Min }

// MaxDimensions returns the largest size the content can be shown at.
// Unbounded content returns +Inf on both axes.
func (c *Content) MaxDimensions() geom.Size {
	if !c.hints.Max.IsEmpty() {
		return c.hints.Max
	}
	up := capabilityTable[c.typ].maxUpscale
	if up == 0 || c.dimensions.IsEmpty() {
		return geom.Size{W: math.Inf(1), H: math.Inf(1)}
	}
	return c.dimensions.Mul(up)
}

// PreferredDimensions returns the 1:1 size of the content.
func (c *Content) PreferredDimensions() geom.Size {
	if !c.hints.Preferred.IsEmpty() {
		return c.hints.Preferred
	}
	return c.dimensions
}

// AspectRatio returns width/height of the native dimensions, 0 if unknown.
func (c *Content) AspectRatio() float64 { return c.dimensions.AspectRatio() }

// HasFixedAspectRatio reports whether windows must keep the content aspect ratio.
func (c *Content) HasFixedAspectRatio() bool { return capabilityTable[c.typ].fixedAspect }

// CanBeZoomed reports whether the content supports a zoom rect other than the unit rect.
func (c *Content) CanBeZoomed() bool { return capabilityTable[c.typ].zoomable }

// HasTransparency reports whether the content may be see-through.
func (c *Content) HasTransparency() bool {
	switch capabilityTable[c.typ].transparency {
	case Alpha:
		return true
	case Flagged:
		return c.transparent
	}
	return false
}

// TransparencyFlag returns the flag given at construction, regardless of type.
func (c *Content) TransparencyFlag() bool { return c.transparent }

// ZoomRect returns the normalized visible area of the content.
func (c *Content) ZoomRect() geom.Rect { return c.zoomRect }

// SetZoomRect replaces the zoom rect. Callers are responsible for constraining it.
func (c *Content) SetZoomRect(r geom.Rect) {
	if c.zoomRect == r {
		return
	}
	c.zoomRect = r
	c.modified()
}

// ResetZoom restores the unit zoom rect.
func (c *Content) ResetZoom() { c.SetZoomRect(geom.UnitRect) }

// SetModifiedHandler registers the callback run after each change. Used by the owning window.
func (c *Content) SetModifiedHandler(fn func()) { c.onModified = fn }

func (c *Content) modified() {
	if c.onModified != nil {
		c.onModified()
	}
}
