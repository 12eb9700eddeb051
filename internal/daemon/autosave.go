package daemon

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AutosaveSession is the session name used for periodic snapshots.
const AutosaveSession = "autosave"

// SessionSaver is the part of the wall service the autosaver needs.
type SessionSaver interface {
	Generation() uint64
	SaveSession(name string) error
}

// Autosaver periodically snapshots the wall when it changed since the
// last snapshot.
type Autosaver struct {
	interval time.Duration
	saver    SessionSaver
	logger   *zap.Logger
	saved    uint64
	hasSaved bool
}

// NewAutosaver creates an autosaver. A non-positive interval defaults to one minute.
func NewAutosaver(interval time.Duration, saver SessionSaver, logger *zap.Logger) *Autosaver {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Autosaver{
		interval: interval,
		saver:    saver,
		logger:   logger,
	}
}

// Run starts the autosave loop. Blocks until ctx is cancelled, then saves
// one last time.
func (a *Autosaver) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Info("autosave started", zap.Duration("interval", a.interval))

	for {
		select {
		case <-ctx.Done():
			a.SaveNow()
			a.logger.Info("autosave stopped")
			return nil
		case <-ticker.C:
			a.SaveNow()
		}
	}
}

// SaveNow writes a snapshot if the wall changed. It reports whether one was written.
func (a *Autosaver) SaveNow() (saved bool) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			a.logger.Error("autosave panic recovered", zap.Any("error", err))
			saved = false
		}
	}()

	gen := a.saver.Generation()
	if a.hasSaved && gen == a.saved {
		return false
	}
	if err := a.saver.SaveSession(AutosaveSession); err != nil {
		a.logger.Warn("autosave failed", zap.Error(err))
		return false
	}
	a.saved, a.hasSaved = gen, true
	a.logger.Debug("autosave written", zap.Uint64("generation", gen))
	return true
}
