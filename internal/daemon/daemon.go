// Package daemon runs a wall: the wall service, its IPC server, config hot
// reload and session autosave.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/1broseidon/displaywall/internal/config"
	"github.com/1broseidon/displaywall/internal/hotkeys"
	"github.com/1broseidon/displaywall/internal/ipc"
	"github.com/1broseidon/displaywall/internal/observability"
	"github.com/1broseidon/displaywall/internal/session"
	"github.com/1broseidon/displaywall/internal/wall"
	"github.com/1broseidon/displaywall/internal/x11"
)

// Options configures a daemon run.
type Options struct {
	// ConfigPath is the file loaded at start and watched for changes.
	ConfigPath string
	// SocketPath overrides the runtime socket path.
	SocketPath string
	// Autosave is the snapshot interval; zero disables autosave.
	Autosave time.Duration
	// Restore loads the autosave session at start when it exists.
	Restore bool
	// Watch enables config hot reload.
	Watch bool
}

// Daemon owns one wall service and the goroutines around it.
type Daemon struct {
	opts     Options
	cfg      *config.Config
	files    []string
	service  *wall.Service
	monitors []x11.Monitor
	logger   *zap.Logger
}

// New loads the configuration and builds the wall service.
func New(opts Options, logger *zap.Logger) (*Daemon, error) {
	if logger == nil {
		logger = observability.Logger()
	}
	if opts.ConfigPath == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		opts.ConfigPath = path
	}
	res, err := config.LoadFromPath(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	d := &Daemon{
		opts:   opts,
		cfg:    res.Config,
		files:  res.Files,
		logger: logger,
	}
	if err := d.detectWall(d.cfg); err != nil {
		return nil, err
	}

	d.service = wall.New(d.cfg,
		wall.WithLogger(logger.Named("wall")),
		wall.WithSessionStore(session.NewStore(d.cfg.SessionDir())))
	return d, nil
}

// Service returns the wall service.
func (d *Daemon) Service() *wall.Service { return d.service }

// detectWall sizes the wall from the X11 monitor layout when enabled.
func (d *Daemon) detectWall(cfg *config.Config) error {
	if !cfg.Wall.DetectX11 {
		return nil
	}
	size, monitors, err := x11.DetectWall(cfg.Wall.Display, cfg.Wall.XAuthority)
	if err != nil {
		return fmt.Errorf("failed to detect wall geometry: %w", err)
	}
	cfg.Wall.Width, cfg.Wall.Height = size.W, size.H
	d.monitors = monitors
	d.logger.Info("wall detected from X11",
		zap.Int("monitors", len(monitors)),
		zap.Float64("width", size.W),
		zap.Float64("height", size.H))
	return nil
}

// Run serves IPC until ctx is cancelled or a component fails.
func (d *Daemon) Run(ctx context.Context) error {
	if d.opts.Restore {
		d.restore()
	}

	reloadCh := make(chan struct{}, 1)
	srvOpts := []ipc.ServerOption{
		ipc.WithMonitors(d.monitors),
		ipc.WithServerLogger(d.logger.Named("ipc")),
	}
	if d.opts.SocketPath != "" {
		srvOpts = append(srvOpts, ipc.WithSocketPath(d.opts.SocketPath))
	}
	srv, err := ipc.NewServer(d.service, reloadCh, srvOpts...)
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}
	d.logger.Info("displaywall daemon started",
		zap.String("socket", srv.SocketPath()),
		zap.Float64("wall_width", d.cfg.Wall.Width),
		zap.Float64("wall_height", d.cfg.Wall.Height))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		srv.Stop()
		return nil
	})

	var watcher *ConfigWatcher
	if d.opts.Watch {
		watcher, err = NewConfigWatcher(d.watchList(d.files), d.logger.Named("watch"))
		if err != nil {
			d.logger.Warn("config hot reload disabled", zap.Error(err))
		} else {
			g.Go(func() error { return watcher.Run(ctx, reloadCh) })
		}
	}

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-reloadCh:
				if files, err := d.Reload(); err == nil && watcher != nil {
					if err := watcher.SetFiles(d.watchList(files)); err != nil {
						d.logger.Warn("failed to update watched config files", zap.Error(err))
					}
				}
			}
		}
	})

	if d.cfg.Hotkeys.Enabled() {
		if h := d.startHotkeys(); h != nil {
			g.Go(func() error { return h.Run(ctx) })
		}
	}

	if d.opts.Autosave > 0 {
		saver := NewAutosaver(d.opts.Autosave, d.service, d.logger.Named("autosave"))
		g.Go(func() error { return saver.Run(ctx) })
	}

	err = g.Wait()
	d.logger.Info("displaywall daemon stopped")
	return err
}

// Reload re-reads the configuration and applies it to the wall. A broken
// file is logged and the running configuration is kept.
func (d *Daemon) Reload() ([]string, error) {
	res, err := config.LoadFromPath(d.opts.ConfigPath)
	if err != nil {
		d.logger.Warn("config reload failed; keeping current configuration", zap.Error(err))
		return nil, err
	}
	cfg := res.Config
	if cfg.Wall.DetectX11 {
		// Monitors are only detected at start.
		cfg.Wall.Width, cfg.Wall.Height = d.cfg.Wall.Width, d.cfg.Wall.Height
	}
	if err := d.service.ApplyConfig(cfg); err != nil {
		d.logger.Warn("config reload rejected", zap.Error(err))
		return nil, err
	}
	observability.SetLevel(cfg.Log.Level)
	d.cfg, d.files = cfg, res.Files
	d.logger.Info("configuration reloaded", zap.Strings("files", res.Files))
	return res.Files, nil
}

// watchList returns the loaded files, or the main config path while no file
// exists yet so that creating it is noticed.
func (d *Daemon) watchList(files []string) []string {
	if len(files) > 0 {
		return files
	}
	return []string{d.opts.ConfigPath}
}

func (d *Daemon) restore() {
	err := d.service.LoadSession(AutosaveSession)
	switch {
	case err == nil:
		d.logger.Info("restored autosave session")
	case errors.Is(err, os.ErrNotExist):
		d.logger.Debug("no autosave session to restore")
	default:
		d.logger.Warn("failed to restore autosave session", zap.Error(err))
	}
}

// startHotkeys grabs the configured key sequences on the wall display.
// Bindings are read once; changing them needs a daemon restart.
func (d *Daemon) startHotkeys() *hotkeys.Handler {
	logger := d.logger.Named("hotkeys")
	conn, err := x11.NewConnection(d.cfg.Wall.Display, d.cfg.Wall.XAuthority)
	if err != nil {
		logger.Warn("hotkeys disabled", zap.Error(err))
		return nil
	}
	h := hotkeys.NewHandler(conn, logger)
	for _, b := range hotkeys.Bindings(d.cfg.Hotkeys, d.service) {
		if err := h.Register(b); err != nil {
			logger.Warn("hotkey not registered", zap.Error(err))
		}
	}
	return h
}
