// Package hotkeys grabs global X key sequences on the wall's control
// display and maps them to wall actions.
package hotkeys

import (
	"context"
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"go.uber.org/zap"

	"github.com/1broseidon/displaywall/internal/config"
	"github.com/1broseidon/displaywall/internal/x11"
)

// Actions is the part of the wall service reachable from the keyboard.
type Actions interface {
	UnfocusAll()
	SetFullscreen(id string) error
	DeselectAll()
}

// Binding ties a key sequence to an action.
type Binding struct {
	Name string
	Keys string
	Run  func() error
}

// Bindings returns the configured bindings in a fixed order, skipping
// unbound actions.
func Bindings(cfg config.HotkeyConfig, a Actions) []Binding {
	all := []Binding{
		{Name: "unfocus_all", Keys: cfg.UnfocusAll, Run: func() error { a.UnfocusAll(); return nil }},
		{Name: "exit_fullscreen", Keys: cfg.ExitFullscreen, Run: func() error { return a.SetFullscreen("") }},
		{Name: "deselect_all", Keys: cfg.DeselectAll, Run: func() error { a.DeselectAll(); return nil }},
	}
	out := all[:0]
	for _, b := range all {
		if b.Keys != "" {
			out = append(out, b)
		}
	}
	return out
}

// Handler manages global keyboard shortcuts.
type Handler struct {
	conn   *x11.Connection
	logger *zap.Logger
}

var ignoreModsOnce sync.Once

// NewHandler prepares conn for key grabs. The handler owns conn from now on.
func NewHandler(conn *x11.Connection, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	keybind.Initialize(conn.XUtil)
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(conn.XUtil)
	})
	return &Handler{conn: conn, logger: logger}
}

// Register grabs b.Keys on the root window.
func (h *Handler) Register(b Binding) error {
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.logger.Debug("hotkey triggered", zap.String("action", b.Name))
		if err := b.Run(); err != nil {
			h.logger.Warn("hotkey action failed", zap.String("action", b.Name), zap.Error(err))
		}
	}).Connect(h.conn.XUtil, h.conn.Root, b.Keys, true)
	if err != nil {
		return fmt.Errorf("grab %s (%s): %w", b.Name, b.Keys, err)
	}
	h.logger.Info("hotkey registered", zap.String("action", b.Name), zap.String("keys", b.Keys))
	return nil
}

// Run processes X events until ctx is done, then closes the connection.
// Losing the X connection ends hotkey handling but is not an error.
func (h *Handler) Run(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		xevent.Main(h.conn.XUtil)
	}()

	select {
	case <-ctx.Done():
		xevent.Quit(h.conn.XUtil)
		// Closing unblocks the pending WaitForEvent.
		h.conn.Close()
		<-done
		return nil
	case <-done:
		h.conn.Close()
		h.logger.Warn("x event loop exited, hotkeys disabled")
		return nil
	}
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
