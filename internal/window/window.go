// Package window models one window on the wall: its content, its three
// rectangles and its interaction state.
package window

import (
	"github.com/google/uuid"

	"github.com/1broseidon/displaywall/internal/content"
	"github.com/1broseidon/displaywall/internal/geom"
)

// ID uniquely identifies a window for its whole lifetime.
type ID = uuid.UUID

// Mode selects which of the three rectangles is displayed.
type Mode int

const (
	ModeStandard Mode = iota
	ModeFocused
	ModeFullscreen
)

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeFocused:
		return "focused"
	case ModeFullscreen:
		return "fullscreen"
	default:
		return "unknown"
	}
}

// ParseMode resolves a mode name.
func ParseMode(name string) (Mode, bool) {
	for m := ModeStandard; m <= ModeFullscreen; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return ModeStandard, false
}

// State is the current interaction state.
type State int

const (
	StateNone State = iota
	StateMoving
	StateResizing
	StateHidden
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateMoving:
		return "moving"
	case StateResizing:
		return "resizing"
	case StateHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Handle is the resize handle grabbed by the user.
type Handle int

const (
	NoHandle Handle = iota
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
)

var handleNames = map[Handle]string{
	NoHandle:          "none",
	HandleTopLeft:     "top_left",
	HandleTop:         "top",
	HandleTopRight:    "top_right",
	HandleRight:       "right",
	HandleBottomRight: "bottom_right",
	HandleBottom:      "bottom",
	HandleBottomLeft:  "bottom_left",
	HandleLeft:        "left",
}

func (h Handle) String() string {
	if name, ok := handleNames[h]; ok {
		return name
	}
	return "unknown"
}

// ParseHandle resolves a handle name, returning NoHandle for unknown names.
func ParseHandle(name string) Handle {
	for h, n := range handleNames {
		if n == name {
			return h
		}
	}
	return NoHandle
}

// IsCorner reports whether the handle changes both axes.
func (h Handle) IsCorner() bool {
	switch h {
	case HandleTopLeft, HandleTopRight, HandleBottomRight, HandleBottomLeft:
		return true
	}
	return false
}

// ResizePolicy controls whether resizing may change the aspect ratio.
type ResizePolicy int

const (
	KeepAspectRatio ResizePolicy = iota
	AdjustContent
)

func (p ResizePolicy) String() string {
	if p == AdjustContent {
		return "adjust_content"
	}
	return "keep_aspect_ratio"
}

// ParseResizePolicy resolves a policy name.
func ParseResizePolicy(name string) (ResizePolicy, bool) {
	switch name {
	case "keep_aspect_ratio":
		return KeepAspectRatio, true
	case "adjust_content":
		return AdjustContent, true
	}
	return KeepAspectRatio, false
}

// Type is fixed when the window is created.
type Type int

const (
	TypeDefault Type = iota
	// TypePanel windows are overlays (e.g. the launcher) that never join the focused set.
	TypePanel
)

// Window presents one Content on the wall.
type Window struct {
	id      ID
	typ     Type
	content *content.Content

	coordinates           geom.Rect
	focusedCoordinates    geom.Rect
	fullscreenCoordinates geom.Rect

	mode         Mode
	state        State
	activeHandle Handle
	resizePolicy ResizePolicy
	selected     bool

	version    uint64
	onModified func(*Window)
}

// Option configures a Window at construction.
type Option func(*Window)

// WithID restores a known identifier, e.g. from a session.
func WithID(id ID) Option { return func(w *Window) { w.id = id } }

// WithType marks the window as a panel.
func WithType(t Type) Option { return func(w *Window) { w.typ = t } }

// WithCoordinates sets the initial standard rectangle.
func WithCoordinates(r geom.Rect) Option { return func(w *Window) { w.coordinates = r } }

// New creates a window owning c. Standard coordinates default to the
// content's preferred size at the origin.
func New(c *content.Content, opts ...Option) *Window {
	w := &Window{
		id:      uuid.New(),
		content: c,
	}
	w.coordinates = geom.Rect{W: c.PreferredDimensions().W, H: c.PreferredDimensions().H}
	for _, opt := range opts {
		opt(w)
	}
	c.SetModifiedHandler(w.modified)
	return w
}

func (w *Window) ID() ID { return w.id }
func (w *Window) Type() Type { return w.typ }
func (w *Window) Content() *content.Content { return w.content }
func (w *Window) Version() uint64 { return w.version }

// IsPanel reports whether the window is a panel.
func (w *Window) IsPanel() bool { return w.typ == TypePanel }

// Coordinates returns the standard rectangle.
func (w *Window) Coordinates() geom.Rect { return w.coordinates }

// SetCoordinates replaces the standard rectangle.
func (w *Window) SetCoordinates(r geom.Rect) {
	if w.coordinates == r {
		return
	}
	w.coordinates = r
	w.modified()
}

// FocusedCoordinates returns the rectangle used in focus mode.
func (w *Window) FocusedCoordinates() geom.Rect { return w.focusedCoordinates }

// SetFocusedCoordinates replaces the focus-mode rectangle.
func (w *Window) SetFocusedCoordinates(r geom.Rect) {
	if w.focusedCoordinates == r {
		return
	}
	w.focusedCoordinates = r
	w.modified()
}

// FullscreenCoordinates returns the rectangle used in fullscreen mode.
func (w *Window) FullscreenCoordinates() geom.Rect { return w.fullscreenCoordinates }

// SetFullscreenCoordinates replaces the fullscreen rectangle.
func (w *Window) SetFullscreenCoordinates(r geom.Rect) {
	if w.fullscreenCoordinates == r {
		return
	}
	w.fullscreenCoordinates = r
	w.modified()
}

// DisplayCoordinates returns the rectangle matching the current mode.
func (w *Window) DisplayCoordinates() geom.Rect {
	switch w.mode {
	case ModeFocused:
		return w.focusedCoordinates
	case ModeFullscreen:
		return w.fullscreenCoordinates
	default:
		return w.coordinates
	}
}

func (w *Window) Mode() Mode { return w.mode }

func (w *Window) SetMode(m Mode) {
	if w.mode == m {
		return
	}
	w.mode = m
	w.modified()
}

func (w *Window) IsFocused() bool { return w.mode == ModeFocused }
func (w *Window) IsFullscreen() bool { return w.mode == ModeFullscreen }

func (w *Window) State() State { return w.state }

func (w *Window) SetState(s State) {
	if w.state == s {
		return
	}
	w.state = s
	w.modified()
}

func (w *Window) IsMoving() bool { return w.state == StateMoving }
func (w *Window) IsResizing() bool { return w.state == StateResizing }
func (w *Window) IsHidden() bool { return w.state == StateHidden }

func (w *Window) ActiveHandle() Handle { return w.activeHandle }

func (w *Window) SetActiveHandle(h Handle) {
	if w.activeHandle == h {
		return
	}
	w.activeHandle = h
	w.modified()
}

func (w *Window) ResizePolicy() ResizePolicy { return w.resizePolicy }

// CanAdjustContent reports whether AdjustContent may be selected for this content.
func (w *Window) CanAdjustContent() bool {
	return !w.content.HasFixedAspectRatio() || w.content.CanBeZoomed()
}

// SetResizePolicy changes the policy. It returns false, leaving the policy
// unchanged, when AdjustContent is requested for content that does not allow it.
func (w *Window) SetResizePolicy(p ResizePolicy) bool {
	if p == AdjustContent && !w.CanAdjustContent() {
		return false
	}
	if w.resizePolicy != p {
		w.resizePolicy = p
		w.modified()
	}
	return true
}

func (w *Window) Selected() bool { return w.selected }

func (w *Window) SetSelected(selected bool) {
	if w.selected == selected {
		return
	}
	w.selected = selected
	w.modified()
}

// SetModifiedHandler registers the callback run after each change.
// The owning display group uses it to forward notifications.
func (w *Window) SetModifiedHandler(fn func(*Window)) { w.onModified = fn }

func (w *Window) modified() {
	w.version++
	if w.onModified != nil {
		w.onModified(w)
	}
}
