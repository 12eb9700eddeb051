// Package session saves and restores the windows of a display group.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/displaywall/internal/content"
	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/group"
	"github.com/1broseidon/displaywall/internal/window"
)

// Snapshot is the persisted state of a display group.
type Snapshot struct {
	Name    string        `yaml:"name"`
	SavedAt time.Time     `yaml:"saved_at"`
	Wall    geom.Size     `yaml:"wall"`
	Windows []WindowState `yaml:"windows"` // back to front
}

// WindowState is one persisted window.
type WindowState struct {
	ID           string       `yaml:"id"`
	Content      ContentState `yaml:"content"`
	Panel        bool         `yaml:"panel,omitempty"`
	Coordinates  geom.Rect    `yaml:"coordinates"`
	Focused      geom.Rect    `yaml:"focused_coordinates"`
	Fullscreen   geom.Rect    `yaml:"fullscreen_coordinates"`
	Mode         string       `yaml:"mode"`
	ResizePolicy string       `yaml:"resize_policy"`
	Selected     bool         `yaml:"selected,omitempty"`
	InFocusSet   bool         `yaml:"in_focus_set,omitempty"`
}

// ContentState describes the content of a persisted window.
type ContentState struct {
	Type        string            `yaml:"type"`
	URI         string            `yaml:"uri"`
	Dimensions  geom.Size         `yaml:"dimensions"`
	Hints       content.SizeHints `yaml:"hints,omitempty"`
	ZoomRect    geom.Rect         `yaml:"zoom_rect"`
	Transparent bool              `yaml:"transparent,omitempty"`
}

// Capture records the current state of g.
func Capture(name string, g *group.DisplayGroup) *Snapshot {
	snap := &Snapshot{
		Name:    name,
		SavedAt: time.Now().UTC(),
		Wall:    g.Size(),
	}
	for _, w := range g.Windows() {
		c := w.Content()
		snap.Windows = append(snap.Windows, WindowState{
			ID: w.ID().String(),
			Content: ContentState{
				Type:        c.Type().String(),
				URI:         c.URI(),
				Dimensions:  c.Dimensions(),
				Hints:       c.Hints(),
				ZoomRect:    c.ZoomRect(),
				Transparent: c.TransparencyFlag(),
			},
			Panel:        w.IsPanel(),
			Coordinates:  w.Coordinates(),
			Focused:      w.FocusedCoordinates(),
			Fullscreen:   w.FullscreenCoordinates(),
			Mode:         w.Mode().String(),
			ResizePolicy: w.ResizePolicy().String(),
			Selected:     w.Selected(),
			InFocusSet:   g.IsFocused(w.ID()),
		})
	}
	return snap
}

// Restore replaces the windows of g with the snapshot content. The whole
// snapshot is validated before g is touched.
func Restore(snap *Snapshot, g *group.DisplayGroup) error {
	if snap == nil {
		return fmt.Errorf("snapshot is nil")
	}
	windows := make([]*window.Window, 0, len(snap.Windows))
	for i, ws := range snap.Windows {
		w, err := ws.build()
		if err != nil {
			return fmt.Errorf("window %d: %w", i, err)
		}
		windows = append(windows, w)
	}

	g.Clear()
	var fullscreen *window.Window
	for i, w := range windows {
		ws := snap.Windows[i]
		mode, _ := window.ParseMode(ws.Mode)
		g.Add(w)
		if ws.InFocusSet {
			g.Focus(w.ID())
		}
		if mode == window.ModeFullscreen && fullscreen == nil {
			fullscreen = w
		}
	}
	if fullscreen != nil {
		saved := fullscreen.FullscreenCoordinates()
		g.SetFullscreenWindow(fullscreen)
		if !saved.IsEmpty() {
			fullscreen.SetFullscreenCoordinates(saved)
		}
	}
	return nil
}

func (ws WindowState) build() (*window.Window, error) {
	id, err := uuid.Parse(ws.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", ws.ID, err)
	}
	typ, err := content.ParseType(ws.Content.Type)
	if err != nil {
		return nil, err
	}
	if _, ok := window.ParseMode(ws.Mode); !ok && ws.Mode != "" {
		return nil, fmt.Errorf("invalid mode %q", ws.Mode)
	}
	policy, ok := window.ParseResizePolicy(ws.ResizePolicy)
	if !ok && ws.ResizePolicy != "" {
		return nil, fmt.Errorf("invalid resize policy %q", ws.ResizePolicy)
	}

	opts := []content.Option{
		content.WithSizeHints(ws.Content.Hints),
		content.WithTransparency(ws.Content.Transparent),
	}
	if !ws.Content.ZoomRect.IsEmpty() {
		opts = append(opts, content.WithZoomRect(ws.Content.ZoomRect))
	}
	c := content.New(typ, ws.Content.URI, ws.Content.Dimensions, opts...)

	wopts := []window.Option{window.WithID(id), window.WithCoordinates(ws.Coordinates)}
	if ws.Panel {
		wopts = append(wopts, window.WithType(window.TypePanel))
	}
	w := window.New(c, wopts...)
	w.SetFocusedCoordinates(ws.Focused)
	w.SetFullscreenCoordinates(ws.Fullscreen)
	w.SetResizePolicy(policy)
	w.SetSelected(ws.Selected)
	return w, nil
}
