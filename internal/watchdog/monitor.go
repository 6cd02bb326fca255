package watchdog

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rightmenu-labs/rightmenu/internal/heartbeat"
)

// Default timings.
const (
	DefaultPollInterval = 5 * time.Second
	DefaultStaleAfter   = 3 * heartbeat.DefaultInterval
	DefaultRespawnGrace = 2 * time.Second
)

// Options configure a Monitor. PluginID, HeartbeatPath and Guard are
// required.
type Options struct {
	PluginID      string
	HeartbeatPath string
	Guard         *Guard

	// ProcessName and Locator enable the event-driven path. Without them
	// the monitor polls only.
	ProcessName string
	Locator     Locator
	Exits       ExitWatcher

	PollInterval time.Duration
	StaleAfter   time.Duration
	RespawnGrace time.Duration

	Registry    *Registry
	Metrics     *Metrics
	MetricsPath string
	Logger      *zap.Logger
	Now         func() time.Time
}

// Probe is the outcome of one polling check.
type Probe struct {
	// State is the verdict of this probe, before any revival moved the
	// identity on to Reviving.
	State   State
	Age     time.Duration
	Revived bool
}

// Monitor drives the LivenessState of one plugin identity.
type Monitor struct {
	opts    Options
	logger  *zap.Logger
	started time.Time

	// mu serializes transitions coming from the concurrent detection paths.
	mu sync.Mutex
}

// NewMonitor returns a Monitor with defaults filled in.
func NewMonitor(opts Options) *Monitor {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = DefaultStaleAfter
	}
	if opts.RespawnGrace <= 0 {
		opts.RespawnGrace = DefaultRespawnGrace
	}
	if opts.Exits == nil {
		opts.Exits = OSExitWatcher{}
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Monitor{
		opts:    opts,
		logger:  opts.Logger.Named("watchdog").With(zap.String("plugin_id", opts.PluginID)),
		started: opts.Now(),
	}
}

// Status returns the current status of the watched identity.
func (m *Monitor) Status() Status {
	return m.opts.Registry.Get(m.opts.PluginID)
}

// Check performs one heartbeat probe. A heartbeat that was never written
// ages from the monitor's start and reads as Unknown until it is stale; any
// other read failure leaves the state untouched and is returned.
func (m *Monitor) Check(ctx context.Context) (Probe, error) {
	if err := ctx.Err(); err != nil {
		return Probe{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.Now()
	rec, err := heartbeat.Read(m.opts.HeartbeatPath)
	var age time.Duration
	missing := false
	switch {
	case err == nil:
		age = rec.Age(now)
	case errors.Is(err, fs.ErrNotExist):
		age = now.Sub(m.started)
		missing = true
	default:
		m.opts.Metrics.probeError(m.opts.PluginID, "heartbeat")
		m.logger.Warn("heartbeat unreadable, liveness unknown", zap.Error(err))
		return Probe{State: Unknown}, err
	}

	cur := m.Status()
	verdict := Verdict(age, m.opts.StaleAfter)
	probe := Probe{State: verdict, Age: age}

	switch {
	case verdict == Alive && cur.State == Reviving && !rec.At.After(cur.LastRevival):
		// Still the beat from before the revival; keep waiting.
		probe.State = Reviving
	case verdict == Alive && missing:
		// Never beaten yet; the plugin gets until StaleAfter to show up.
		probe.State = Unknown
	case verdict == Alive:
		m.set(now, func(st Status) Status {
			st.State = Alive
			st.LastBeat = rec.At
			if rec.PID != 0 {
				st.PID = rec.PID
			}
			return st
		})
	case cur.State == Reviving && now.Sub(cur.LastRevival) < m.opts.Guard.Cooldown():
		probe.State = Reviving
	default:
		m.logger.Info("heartbeat stale", zap.Duration("age", age), zap.Duration("stale_after", m.opts.StaleAfter))
		probe.Revived = m.reviveLocked(now, "heartbeat stale")
	}

	m.writeMetrics()
	return probe, nil
}

// ProcessExited records an exit notification for the watched process and
// requests a revival. An exit seen while a recent revival is still landing
// is ignored.
func (m *Monitor) ProcessExited(pid int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.opts.Now()
	m.logger.Info("plugin process exited", zap.Int("pid", pid))
	if cur := m.Status(); cur.State == Reviving && now.Sub(cur.LastRevival) < m.opts.Guard.Cooldown() {
		return false
	}
	revived := m.reviveLocked(now, "process exited")
	m.writeMetrics()
	return revived
}

func (m *Monitor) reviveLocked(now time.Time, reason string) bool {
	m.set(now, func(st Status) Status {
		st.State = Dead
		return st
	})
	if !m.opts.Guard.Trigger(reason) {
		return false
	}
	m.set(now, func(st Status) Status {
		st.State = Reviving
		st.LastRevival = now
		st.Revivals++
		return st
	})
	return true
}

func (m *Monitor) set(now time.Time, fn func(Status) Status) {
	before := m.Status().State
	st := m.opts.Registry.Update(m.opts.PluginID, now, fn)
	if st.State != before {
		m.logger.Debug("liveness transition", zap.Stringer("from", before), zap.Stringer("to", st.State))
	}
	m.opts.Metrics.setState(m.opts.PluginID, st.State)
}

func (m *Monitor) writeMetrics() {
	if m.opts.MetricsPath == "" {
		return
	}
	if err := m.opts.Metrics.WriteTextfile(m.opts.MetricsPath); err != nil {
		m.logger.Debug("metrics textfile not written", zap.Error(err))
	}
}

// Run starts every detection path and blocks until ctx is cancelled. It
// returns nil on cancellation; individual path failures are logged.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("watchdog started",
		zap.Duration("poll_interval", m.opts.PollInterval),
		zap.Duration("stale_after", m.opts.StaleAfter),
		zap.Duration("cooldown", m.opts.Guard.Cooldown()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.pollLoop(ctx) })
	g.Go(func() error { return m.watchHeartbeat(ctx) })
	if m.opts.Locator != nil && m.opts.ProcessName != "" {
		g.Go(func() error { return m.exitLoop(ctx) })
	}
	err := g.Wait()
	m.logger.Info("watchdog stopped")
	return err
}

func (m *Monitor) pollLoop(ctx context.Context) error {
	ticker := time.NewTicker(m.opts.PollInterval)
	defer ticker.Stop()

	for {
		_, _ = m.Check(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// exitLoop binds to the current plugin PID and waits for it to exit. After
// each exit it waits the respawn grace and locates the new PID.
func (m *Monitor) exitLoop(ctx context.Context) error {
	for {
		pid, err := m.locate(ctx)
		if err != nil {
			return nil
		}
		m.set(m.opts.Now(), func(st Status) Status {
			st.PID = pid
			return st
		})

		err = m.opts.Exits.Wait(ctx, pid)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, ErrExitWatchUnsupported):
			m.logger.Info("exit notification unavailable, polling only")
			return nil
		case err != nil:
			m.opts.Metrics.probeError(m.opts.PluginID, "exit")
			m.logger.Warn("exit watch failed", zap.Int("pid", pid), zap.Error(err))
		default:
			m.ProcessExited(pid)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(m.opts.RespawnGrace):
		}
	}
}

// locate retries until the process is found or ctx is done. The retry
// interval grows up to the poll interval.
func (m *Monitor) locate(ctx context.Context) (int, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = m.opts.RespawnGrace / 4
	b.MaxInterval = m.opts.PollInterval
	b.MaxElapsedTime = 0

	var pid int
	op := func() error {
		p, err := m.opts.Locator.Locate(ctx, m.opts.ProcessName)
		if err != nil {
			return err
		}
		pid = p
		return nil
	}
	notify := func(err error, next time.Duration) {
		if !errors.Is(err, ErrNotRunning) {
			m.opts.Metrics.probeError(m.opts.PluginID, "locate")
		}
		m.logger.Debug("plugin process not located", zap.Error(err), zap.Duration("retry_in", next))
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return 0, err
	}
	return pid, nil
}

// watchHeartbeat re-checks as soon as the heartbeat file changes, so a
// revived plugin is seen Alive without waiting for the next poll.
func (m *Monitor) watchHeartbeat(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		m.logger.Debug("heartbeat watcher unavailable", zap.Error(err))
		return nil
	}
	defer w.Close()

	dir := filepath.Dir(m.opts.HeartbeatPath)
	if err := w.Add(dir); err != nil {
		m.logger.Debug("heartbeat directory not watched", zap.String("dir", dir), zap.Error(err))
		return nil
	}

	name := filepath.Base(m.opts.HeartbeatPath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if st := m.Status().State; st == Alive {
				continue
			}
			_, _ = m.Check(ctx)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			m.logger.Debug("heartbeat watcher error", zap.Error(err))
		}
	}
}
