package wall

import (
	"go.uber.org/zap"

	"github.com/1broseidon/displaywall/internal/content"
	"github.com/1broseidon/displaywall/internal/controller"
	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/window"
	"github.com/1broseidon/displaywall/internal/zoom"
)

// OpenRequest describes a window to open.
type OpenRequest struct {
	ContentType string      `json:"content_type"`
	URI         string      `json:"uri"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	Panel       bool        `json:"panel,omitempty"`
	Transparent bool        `json:"transparent,omitempty"`
	Center      *geom.Point `json:"center,omitempty"`
}

// OpenWindow adds a window showing the described content. It is sized to
// its preferred dimensions, bounded by the wall, and centered on Center or
// on the wall.
func (s *Service) OpenWindow(req OpenRequest) (WindowInfo, error) {
	typ, err := content.ParseType(req.ContentType)
	if err != nil {
		return WindowInfo{}, invalid("%v", err)
	}
	if req.Width <= 0 || req.Height <= 0 {
		return WindowInfo{}, invalid("content dimensions must be positive, got %vx%v", req.Width, req.Height)
	}

	c := content.New(typ, req.URI, geom.Size{W: req.Width, H: req.Height},
		content.WithTransparency(req.Transparent))
	var opts []window.Option
	if req.Panel {
		opts = append(opts, window.WithType(window.TypePanel))
	}
	w := window.New(c, opts...)

	s.mu.Lock()
	defer s.mu.Unlock()

	wall := s.group.Size()
	center := geom.Point{X: wall.W / 2, Y: wall.H / 2}
	if req.Center != nil {
		center = *req.Center
	}
	ctrl := controller.New(w, s.group, controller.TargetStandard)
	ctrl.AdjustSize(controller.Size1To1Fitting)
	ctrl.MoveCenterTo(center)

	s.group.Add(w)
	s.logger.Info("window opened",
		zap.Stringer("window", w.ID()),
		zap.String("content_type", typ.String()),
		zap.String("uri", req.URI))
	return s.info(w), nil
}

func (s *Service) CloseWindow(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.lookup(id)
	if err != nil {
		return err
	}
	s.group.Remove(w.ID())
	s.logger.Info("window closed", zap.Stringer("window", w.ID()))
	return nil
}

func (s *Service) controllerFor(w *window.Window) *controller.WindowController {
	return controller.New(w, s.group, controller.TargetAuto)
}

// MoveWindow moves the active rectangle so its top-left corner, or its
// center, is at p.
func (s *Service) MoveWindow(id string, p geom.Point, center bool) (WindowInfo, error) {
	return s.withWindow(id, func(w *window.Window) error {
		fixed := controller.FixedTopLeft
		if center {
			fixed = controller.FixedCenter
		}
		s.controllerFor(w).MoveTo(p, fixed)
		return nil
	})
}

func (s *Service) MoveWindowBy(id string, delta geom.Point) (WindowInfo, error) {
	return s.withWindow(id, func(w *window.Window) error {
		s.controllerFor(w).MoveBy(delta)
		return nil
	})
}

func (s *Service) ResizeWindow(id string, size geom.Size, center bool) (WindowInfo, error) {
	return s.withWindow(id, func(w *window.Window) error {
		fixed := controller.FixedTopLeft
		if center {
			fixed = controller.FixedCenter
		}
		s.controllerFor(w).Resize(size, fixed)
		return nil
	})
}

// DragHandle resizes the window as if the named handle was dragged by delta.
func (s *Service) DragHandle(id string, handle string, delta geom.Point) (WindowInfo, error) {
	h := window.ParseHandle(handle)
	if h == window.NoHandle {
		return WindowInfo{}, invalid("unknown handle %q", handle)
	}
	return s.withWindow(id, func(w *window.Window) error {
		prevState := w.State()
		w.SetActiveHandle(h)
		w.SetState(window.StateResizing)
		s.controllerFor(w).ResizeRelative(delta)
		w.SetActiveHandle(window.NoHandle)
		w.SetState(prevState)
		return nil
	})
}

func (s *Service) ScaleWindow(id string, center geom.Point, pixelDelta float64) (WindowInfo, error) {
	return s.withWindow(id, func(w *window.Window) error {
		s.controllerFor(w).Scale(center, pixelDelta)
		return nil
	})
}

// AdjustWindow applies a named preset size (see controller.SizeStateNames).
func (s *Service) AdjustWindow(id string, state string) (WindowInfo, error) {
	st, ok := controller.ParseSizeState(state)
	if !ok {
		return WindowInfo{}, invalid("unknown size state %q", state)
	}
	return s.withWindow(id, func(w *window.Window) error {
		s.controllerFor(w).AdjustSize(st)
		return nil
	})
}

func (s *Service) ToggleFullscreenMaxSize(id string) (WindowInfo, error) {
	return s.withWindow(id, func(w *window.Window) error {
		controller.New(w, s.group, controller.TargetFullscreen).ToggleFullscreenMaxSize()
		return nil
	})
}

func (s *Service) SetResizePolicy(id string, policy string) (WindowInfo, error) {
	p, ok := window.ParseResizePolicy(policy)
	if !ok {
		return WindowInfo{}, invalid("unknown resize policy %q", policy)
	}
	return s.withWindow(id, func(w *window.Window) error {
		if !w.SetResizePolicy(p) {
			return invalid("content %s does not allow %s", w.Content().Type(), p)
		}
		return nil
	})
}

func (s *Service) SetSelected(id string, selected bool) (WindowInfo, error) {
	return s.withWindow(id, func(w *window.Window) error {
		w.SetSelected(selected)
		return nil
	})
}

func (s *Service) DeselectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.group.DeselectAll()
}

func (s *Service) RaiseWindow(id string) (WindowInfo, error) {
	return s.withWindow(id, func(w *window.Window) error {
		s.group.MoveToFront(w.ID())
		return nil
	})
}

func (s *Service) FocusWindow(id string) (WindowInfo, error) {
	return s.withWindow(id, func(w *window.Window) error {
		if w.IsPanel() {
			return invalid("panels cannot be focused")
		}
		s.group.Focus(w.ID())
		return nil
	})
}

func (s *Service) UnfocusWindow(id string) (WindowInfo, error) {
	return s.withWindow(id, func(w *window.Window) error {
		s.group.Unfocus(w.ID())
		return nil
	})
}

func (s *Service) UnfocusAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.group.UnfocusAll()
}

// SetFullscreen shows the window fullscreen, or exits fullscreen when id is empty.
func (s *Service) SetFullscreen(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		s.group.SetFullscreenWindow(nil)
		return nil
	}
	w, err := s.lookup(id)
	if err != nil {
		return err
	}
	s.group.SetFullscreenWindow(w)
	return nil
}

// Pinch zooms the window content around pos (wall coordinates).
func (s *Service) Pinch(id string, pos, pixelDelta geom.Point) (WindowInfo, error) {
	return s.withWindow(id, func(w *window.Window) error {
		zoom.ContentControllerFor(w).Pinch(pos, pixelDelta)
		return nil
	})
}

// Pan moves the window content by delta wall pixels.
func (s *Service) Pan(id string, delta geom.Point) (WindowInfo, error) {
	return s.withWindow(id, func(w *window.Window) error {
		zoom.ContentControllerFor(w).Pan(delta)
		return nil
	})
}

func (s *Service) ResetZoom(id string) (WindowInfo, error) {
	return s.withWindow(id, func(w *window.Window) error {
		zoom.ContentControllerFor(w).DoubleTap()
		return nil
	})
}
