package heartbeat

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is how often the plugin proves it is alive.
const DefaultInterval = 3 * time.Second

// Emitter refreshes the heartbeat record on a fixed interval. It runs on its
// own goroutine so a blocked action handler (for example a conflict prompt
// waiting on the user) never delays a beat.
type Emitter struct {
	path     string
	pluginID string
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewEmitter returns an Emitter writing to path every interval.
func NewEmitter(path, pluginID string, interval time.Duration, logger *zap.Logger) *Emitter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{
		path:     path,
		pluginID: pluginID,
		interval: interval,
		logger:   logger.Named("heartbeat"),
		now:      time.Now,
	}
}

// Beat writes one heartbeat. Failures are logged and otherwise ignored; the
// store may not be provisioned yet on first run.
func (e *Emitter) Beat() bool {
	rec := Record{PluginID: e.pluginID, PID: os.Getpid(), At: e.now()}
	if err := Write(e.path, rec); err != nil {
		e.logger.Debug("heartbeat write failed, retrying next tick", zap.String("path", e.path), zap.Error(err))
		return false
	}
	return true
}

// Run beats immediately and then every interval until ctx is done.
func (e *Emitter) Run(ctx context.Context) error {
	e.logger.Info("heartbeat emitter started", zap.String("path", e.path), zap.Duration("interval", e.interval))
	e.Beat()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Debug("heartbeat emitter stopped")
			return nil
		case <-ticker.C:
			e.Beat()
		}
	}
}
