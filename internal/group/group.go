// Package group holds the windows of one wall surface in z-order, together
// with the focused set, the panels and the fullscreen window.
package group

import (
	"slices"

	"go.uber.org/zap"

	"github.com/1broseidon/displaywall/internal/config"
	"github.com/1broseidon/displaywall/internal/controller"
	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/layout"
	"github.com/1broseidon/displaywall/internal/window"
)

// EventKind identifies a group mutation.
type EventKind int

const (
	WindowAdded EventKind = iota
	WindowRemoved
	WindowMovedToFront
	WindowFocused
	WindowUnfocused
	FullscreenChanged
	WindowModified
	Cleared
	Resized
)

func (k EventKind) String() string {
	switch k {
	case WindowAdded:
		return "window_added"
	case WindowRemoved:
		return "window_removed"
	case WindowMovedToFront:
		return "window_moved_to_front"
	case WindowFocused:
		return "window_focused"
	case WindowUnfocused:
		return "window_unfocused"
	case FullscreenChanged:
		return "fullscreen_changed"
	case WindowModified:
		return "window_modified"
	case Cleared:
		return "cleared"
	case Resized:
		return "resized"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after a mutation completes.
// WindowID is the zero ID for group-wide events.
type Event struct {
	Kind     EventKind
	WindowID window.ID
}

type subscriber struct {
	id int
	fn func(Event)
}

// DisplayGroup owns the windows shown on one wall. The last window is the
// front-most. It is not safe for concurrent use.
type DisplayGroup struct {
	size     geom.Size
	windows  []*window.Window
	byID     map[window.ID]*window.Window
	focused  map[window.ID]struct{}
	fullscr  *window.Window
	focusCfg config.FocusConfig
	engine   layout.Engine
	fixed    bool // engine set through WithLayout
	logger   *zap.Logger

	subscribers []subscriber
	nextSub     int
	// mutating suppresses per-window notifications while the group itself
	// changes windows.
	mutating int
}

// Option configures a DisplayGroup.
type Option func(*DisplayGroup)

// WithFocusConfig selects the focus layout and its surface policy.
func WithFocusConfig(cfg config.FocusConfig) Option {
	return func(g *DisplayGroup) { g.focusCfg = cfg }
}

// WithLayout uses e for every focus computation, ignoring the focus config.
func WithLayout(e layout.Engine) Option {
	return func(g *DisplayGroup) {
		g.engine = e
		g.fixed = e != nil
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *DisplayGroup) { g.logger = l }
}

// New creates an empty group for a wall of the given size.
func New(size geom.Size, opts ...Option) *DisplayGroup {
	g := &DisplayGroup{
		size:     size,
		byID:     make(map[window.ID]*window.Window),
		focused:  make(map[window.ID]struct{}),
		focusCfg: config.DefaultConfig().Focus,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if !g.fixed {
		g.rebuildEngine()
	}
	return g
}

// Size returns the wall size. It makes the group usable as a controller surface.
func (g *DisplayGroup) Size() geom.Size { return g.size }

// SetSize changes the wall size and lays the focused windows out again.
func (g *DisplayGroup) SetSize(size geom.Size) {
	if g.size == size {
		return
	}
	g.size = size
	g.mutate(func() {
		if !g.fixed {
			g.rebuildEngine()
		}
		g.relayout()
		if g.fullscr != nil {
			controller.New(g.fullscr, g, controller.TargetFullscreen).AdjustSize(controller.SizeFullscreen)
		}
	})
	g.emit(Event{Kind: Resized})
}

// SetFocusConfig switches the focus layout. Focused windows are laid out
// again with the new engine.
func (g *DisplayGroup) SetFocusConfig(cfg config.FocusConfig) error {
	policy := layout.NewPolicy(g.size, cfg)
	e, err := layout.New(cfg.Layout, policy)
	if err != nil {
		return err
	}
	g.focusCfg = cfg
	g.engine = e
	g.fixed = false
	g.mutate(g.relayout)
	return nil
}

// FocusConfig returns the active focus configuration.
func (g *DisplayGroup) FocusConfig() config.FocusConfig { return g.focusCfg }

// LayoutPolicy returns the surface policy used for focused windows.
func (g *DisplayGroup) LayoutPolicy() layout.Policy { return layout.NewPolicy(g.size, g.focusCfg) }

func (g *DisplayGroup) rebuildEngine() {
	e, err := layout.New(g.focusCfg.Layout, g.LayoutPolicy())
	if err != nil {
		g.logger.Warn("unknown focus layout, using automatic",
			zap.String("layout", g.focusCfg.Layout), zap.Error(err))
		e = layout.NewCanvas(g.LayoutPolicy())
	}
	g.engine = e
}

// Subscribe registers fn for all future events. The returned function
// cancels the subscription.
func (g *DisplayGroup) Subscribe(fn func(Event)) (cancel func()) {
	id := g.nextSub
	g.nextSub++
	g.subscribers = append(g.subscribers, subscriber{id: id, fn: fn})
	return func() {
		g.subscribers = slices.DeleteFunc(g.subscribers, func(s subscriber) bool { return s.id == id })
	}
}

func (g *DisplayGroup) emit(ev Event) {
	for _, s := range slices.Clone(g.subscribers) {
		s.fn(ev)
	}
}

func (g *DisplayGroup) mutate(fn func()) {
	g.mutating++
	defer func() { g.mutating-- }()
	fn()
}

func (g *DisplayGroup) windowModified(w *window.Window) {
	if g.mutating > 0 {
		return
	}
	g.emit(Event{Kind: WindowModified, WindowID: w.ID()})
}

// Add appends w at the front of the z-order. A window already in focused
// mode joins the focused set; a window in fullscreen mode becomes the
// fullscreen window unless there already is one.
func (g *DisplayGroup) Add(w *window.Window) {
	if w == nil {
		return
	}
	if _, ok := g.byID[w.ID()]; ok {
		g.logger.Warn("window already in group", zap.Stringer("window", w.ID()))
		return
	}

	g.mutate(func() {
		g.windows = append(g.windows, w)
		g.byID[w.ID()] = w
		w.SetModifiedHandler(g.windowModified)

		switch w.Mode() {
		case window.ModeFocused:
			if w.IsPanel() {
				w.SetMode(window.ModeStandard)
				break
			}
			g.focused[w.ID()] = struct{}{}
			g.relayout()
		case window.ModeFullscreen:
			if g.fullscr != nil {
				w.SetMode(window.ModeStandard)
				break
			}
			g.fullscr = w
		}
	})
	g.logger.Debug("window added", zap.Stringer("window", w.ID()), zap.Int("z", len(g.windows)-1))
	g.emit(Event{Kind: WindowAdded, WindowID: w.ID()})
}

// Remove detaches the window. Unknown ids are ignored.
func (g *DisplayGroup) Remove(id window.ID) {
	w, ok := g.byID[id]
	if !ok {
		return
	}
	g.mutate(func() {
		g.detach(w)
		if _, wasFocused := g.focused[id]; wasFocused {
			delete(g.focused, id)
			g.relayout()
		}
	})
	g.emit(Event{Kind: WindowRemoved, WindowID: id})
}

func (g *DisplayGroup) detach(w *window.Window) {
	w.SetModifiedHandler(nil)
	g.windows = slices.DeleteFunc(g.windows, func(o *window.Window) bool { return o == w })
	delete(g.byID, w.ID())
	if g.fullscr == w {
		g.fullscr = nil
	}
}

// MoveToFront raises the window to the top of the z-order.
func (g *DisplayGroup) MoveToFront(id window.ID) {
	z := g.ZIndex(id)
	if z < 0 || z == len(g.windows)-1 {
		return
	}
	w := g.windows[z]
	g.windows = append(slices.Delete(g.windows, z, z+1), w)
	g.emit(Event{Kind: WindowMovedToFront, WindowID: id})
}

// Focus adds the window to the focused set and lays the set out again.
// Panels and unknown ids are ignored.
func (g *DisplayGroup) Focus(id window.ID) {
	w, ok := g.byID[id]
	if !ok || w.IsPanel() {
		return
	}
	if _, already := g.focused[id]; already {
		return
	}
	g.mutate(func() {
		g.focused[id] = struct{}{}
		if w != g.fullscr {
			w.SetMode(window.ModeFocused)
		}
		g.relayout()
	})
	g.emit(Event{Kind: WindowFocused, WindowID: id})
}

// Unfocus removes the window from the focused set.
func (g *DisplayGroup) Unfocus(id window.ID) {
	w, ok := g.byID[id]
	if !ok {
		return
	}
	if _, focused := g.focused[id]; !focused {
		return
	}
	g.mutate(func() {
		delete(g.focused, id)
		if w != g.fullscr {
			w.SetMode(window.ModeStandard)
		}
		g.relayout()
	})
	g.emit(Event{Kind: WindowUnfocused, WindowID: id})
}

// UnfocusAll empties the focused set.
func (g *DisplayGroup) UnfocusAll() {
	for _, w := range g.FocusedWindows() {
		g.Unfocus(w.ID())
	}
}

// SetFullscreenWindow shows w fullscreen, replacing any current fullscreen
// window. A nil w exits fullscreen. Windows not in the group are ignored.
func (g *DisplayGroup) SetFullscreenWindow(w *window.Window) {
	if w != nil && g.byID[w.ID()] != w {
		return
	}
	if w == g.fullscr {
		return
	}
	g.mutate(func() {
		if prev := g.fullscr; prev != nil {
			g.fullscr = nil
			prev.SetMode(g.restingMode(prev))
		}
		if w != nil {
			g.fullscr = w
			w.SetMode(window.ModeFullscreen)
			controller.New(w, g, controller.TargetFullscreen).AdjustSize(controller.SizeFullscreen)
		}
	})
	var id window.ID
	if w != nil {
		id = w.ID()
	}
	g.emit(Event{Kind: FullscreenChanged, WindowID: id})
}

func (g *DisplayGroup) restingMode(w *window.Window) window.Mode {
	if _, ok := g.focused[w.ID()]; ok {
		return window.ModeFocused
	}
	return window.ModeStandard
}

// Clear removes every window.
func (g *DisplayGroup) Clear() {
	if len(g.windows) == 0 {
		return
	}
	g.mutate(func() {
		for _, w := range slices.Clone(g.windows) {
			g.detach(w)
		}
		clear(g.focused)
	})
	g.emit(Event{Kind: Cleared})
}

// DeselectAll clears the selection flag of every window.
func (g *DisplayGroup) DeselectAll() {
	var changed []window.ID
	g.mutate(func() {
		for _, w := range g.windows {
			if w.Selected() {
				w.SetSelected(false)
				changed = append(changed, w.ID())
			}
		}
	})
	for _, id := range changed {
		g.emit(Event{Kind: WindowModified, WindowID: id})
	}
}

// UpdateFocusedCoordinates lays the focused set out again, e.g. after a
// focused window changed its aspect ratio.
func (g *DisplayGroup) UpdateFocusedCoordinates() {
	g.mutate(g.relayout)
}

func (g *DisplayGroup) relayout() {
	focused := g.FocusedWindows()
	if len(focused) == 0 || g.engine == nil {
		return
	}
	layout.UpdateFocusedCoordinates(g.engine, focused)
	g.logger.Debug("focused windows laid out", zap.Int("count", len(focused)))
}

// Windows returns all windows, back to front.
func (g *DisplayGroup) Windows() []*window.Window { return slices.Clone(g.windows) }

// Window returns the window with the given id, or nil.
func (g *DisplayGroup) Window(id window.ID) *window.Window { return g.byID[id] }

// FocusedWindows returns the focused set in z-order.
func (g *DisplayGroup) FocusedWindows() []*window.Window {
	var out []*window.Window
	for _, w := range g.windows {
		if _, ok := g.focused[w.ID()]; ok {
			out = append(out, w)
		}
	}
	return out
}

// Panels returns the panel windows in z-order.
func (g *DisplayGroup) Panels() []*window.Window {
	var out []*window.Window
	for _, w := range g.windows {
		if w.IsPanel() {
			out = append(out, w)
		}
	}
	return out
}

func (g *DisplayGroup) FullscreenWindow() *window.Window { return g.fullscr }

func (g *DisplayGroup) HasFocusedWindows() bool { return len(g.focused) > 0 }

func (g *DisplayGroup) IsFocused(id window.ID) bool {
	_, ok := g.focused[id]
	return ok
}

// ZIndex returns the z-order position of the window, or -1 if absent.
func (g *DisplayGroup) ZIndex(id window.ID) int {
	return slices.IndexFunc(g.windows, func(w *window.Window) bool { return w.ID() == id })
}

// FocusedCoordinates returns the rectangle w would get if it joined the
// current focused set. Nothing is modified.
func (g *DisplayGroup) FocusedCoordinates(w *window.Window) geom.Rect {
	if g.engine == nil {
		return geom.Rect{}
	}
	set := g.FocusedWindows()
	if !slices.Contains(set, w) {
		set = append(set, w)
	}
	return layout.FocusedCoordinates(g.engine, set, w)
}
