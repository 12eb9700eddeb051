// Package wall serialises access to the display group of one wall and
// exposes the operations used by the IPC server, the MCP tools and the CLI.
package wall

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/1broseidon/displaywall/internal/config"
	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/group"
	"github.com/1broseidon/displaywall/internal/session"
	"github.com/1broseidon/displaywall/internal/visibility"
	"github.com/1broseidon/displaywall/internal/window"
)

var (
	ErrWindowNotFound  = errors.New("window not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Service owns one display group. All methods are safe for concurrent use.
type Service struct {
	mu       sync.Mutex
	group    *group.DisplayGroup
	view     config.ViewConfig
	sessions *session.Store
	logger   *zap.Logger
	started  time.Time

	// generation counts group events; it changes whenever the wall does.
	generation atomic.Uint64
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.logger = l } }

// WithSessionStore enables the session operations.
func WithSessionStore(st *session.Store) Option { return func(s *Service) { s.sessions = st } }

// New creates a service for a wall configured by cfg.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		view:    cfg.View,
		logger:  zap.NewNop(),
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.group = group.New(
		geom.Size{W: cfg.Wall.Width, H: cfg.Wall.Height},
		group.WithFocusConfig(cfg.Focus),
		group.WithLogger(s.logger.Named("group")),
	)
	s.group.Subscribe(func(ev group.Event) {
		s.generation.Add(1)
		s.logger.Debug("group event", zap.Stringer("kind", ev.Kind), zap.Stringer("window", ev.WindowID))
	})
	return s
}

// ApplyConfig updates the wall size, focus layout and view settings.
func (s *Service) ApplyConfig(cfg *config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.group.SetFocusConfig(cfg.Focus); err != nil {
		return invalid("%v", err)
	}
	s.group.SetSize(geom.Size{W: cfg.Wall.Width, H: cfg.Wall.Height})
	s.view = cfg.View
	s.logger.Info("configuration applied",
		zap.Float64("wall_width", cfg.Wall.Width),
		zap.Float64("wall_height", cfg.Wall.Height),
		zap.String("focus_layout", cfg.Focus.Layout))
	return nil
}

// Generation returns a counter that changes with every change to the wall.
func (s *Service) Generation() uint64 { return s.generation.Load() }

// Status summarises the wall.
type Status struct {
	Wall          geom.Size `json:"wall"`
	Windows       int       `json:"windows"`
	Focused       int       `json:"focused"`
	Fullscreen    string    `json:"fullscreen,omitempty"`
	FocusLayout   string    `json:"focus_layout"`
	AlphaBlending bool      `json:"alpha_blending"`
	UptimeSeconds int64     `json:"uptime_seconds"`
}

func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Wall:          s.group.Size(),
		Windows:       len(s.group.Windows()),
		Focused:       len(s.group.FocusedWindows()),
		FocusLayout:   s.group.FocusConfig().Layout,
		AlphaBlending: s.view.AlphaBlending,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	}
	if fs := s.group.FullscreenWindow(); fs != nil {
		st.Fullscreen = fs.ID().String()
	}
	return st
}

// WindowInfo is the externally visible state of a window.
type WindowInfo struct {
	ID                    string    `json:"id"`
	ContentType           string    `json:"content_type"`
	URI                   string    `json:"uri"`
	Dimensions            geom.Size `json:"dimensions"`
	Coordinates           geom.Rect `json:"coordinates"`
	FocusedCoordinates    geom.Rect `json:"focused_coordinates"`
	FullscreenCoordinates geom.Rect `json:"fullscreen_coordinates"`
	DisplayCoordinates    geom.Rect `json:"display_coordinates"`
	ZoomRect              geom.Rect `json:"zoom_rect"`
	Mode                  string    `json:"mode"`
	State                 string    `json:"state"`
	ResizePolicy          string    `json:"resize_policy"`
	Selected              bool      `json:"selected"`
	Panel                 bool      `json:"panel"`
	Focused               bool      `json:"focused"`
	ZIndex                int       `json:"z_index"`
	Version               uint64    `json:"version"`
}

func (s *Service) info(w *window.Window) WindowInfo {
	c := w.Content()
	return WindowInfo{
		ID:                    w.ID().String(),
		ContentType:           c.Type().String(),
		URI:                   c.URI(),
		Dimensions:            c.Dimensions(),
		Coordinates:           w.Coordinates(),
		FocusedCoordinates:    w.FocusedCoordinates(),
		FullscreenCoordinates: w.FullscreenCoordinates(),
		DisplayCoordinates:    w.DisplayCoordinates(),
		ZoomRect:              c.ZoomRect(),
		Mode:                  w.Mode().String(),
		State:                 w.State().String(),
		ResizePolicy:          w.ResizePolicy().String(),
		Selected:              w.Selected(),
		Panel:                 w.IsPanel(),
		Focused:               s.group.IsFocused(w.ID()),
		ZIndex:                s.group.ZIndex(w.ID()),
		Version:               w.Version(),
	}
}

// ListWindows returns all windows back to front.
func (s *Service) ListWindows() []WindowInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	windows := s.group.Windows()
	out := make([]WindowInfo, 0, len(windows))
	for _, w := range windows {
		out = append(out, s.info(w))
	}
	return out
}

func (s *Service) Window(id string) (WindowInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.lookup(id)
	if err != nil {
		return WindowInfo{}, err
	}
	return s.info(w), nil
}

func (s *Service) lookup(id string) (*window.Window, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, invalid("window id %q: %v", id, err)
	}
	w := s.group.Window(uid)
	if w == nil {
		return nil, fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	return w, nil
}

// withWindow runs fn on the window under the lock and returns its new state.
func (s *Service) withWindow(id string, fn func(*window.Window) error) (WindowInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.lookup(id)
	if err != nil {
		return WindowInfo{}, err
	}
	if err := fn(w); err != nil {
		return WindowInfo{}, err
	}
	return s.info(w), nil
}

// VisibleArea returns the unobstructed part of the window on the whole wall.
func (s *Service) VisibleArea(id string) (geom.Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.lookup(id)
	if err != nil {
		return geom.Rect{}, err
	}
	wall := s.group.Size()
	h := visibility.New(s.group, geom.Rect{W: wall.W, H: wall.H}, s.view.AlphaBlending)
	return h.VisibleArea(w), nil
}

// Clear closes every window.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.group.Clear()
}

var errNoSessions = errors.New("session storage is not configured")

func (s *Service) SaveSession(name string) error {
	if s.sessions == nil {
		return errNoSessions
	}
	s.mu.Lock()
	snap := session.Capture(name, s.group)
	s.mu.Unlock()

	if err := s.sessions.Write(snap); err != nil {
		return err
	}
	s.logger.Info("session saved", zap.String("session", name), zap.Int("windows", len(snap.Windows)))
	return nil
}

func (s *Service) LoadSession(name string) error {
	if s.sessions == nil {
		return errNoSessions
	}
	snap, err := s.sessions.Read(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := session.Restore(snap, s.group); err != nil {
		return fmt.Errorf("restore session %q: %w", name, err)
	}
	s.logger.Info("session loaded", zap.String("session", name), zap.Int("windows", len(snap.Windows)))
	return nil
}

func (s *Service) ListSessions() ([]string, error) {
	if s.sessions == nil {
		return nil, errNoSessions
	}
	return s.sessions.List()
}

func (s *Service) DeleteSession(name string) error {
	if s.sessions == nil {
		return errNoSessions
	}
	return s.sessions.Delete(name)
}
