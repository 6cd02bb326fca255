package watchdog

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// DefaultCooldown is the minimum spacing between two revivals of the same
// identity.
const DefaultCooldown = 10 * time.Second

// Reviver asks the host to bring a plugin back.
type Reviver interface {
	Revive(ctx context.Context, pluginID string) error
}

// ReviverFunc adapts a function to Reviver.
type ReviverFunc func(ctx context.Context, pluginID string) error

// Revive implements Reviver.
func (f ReviverFunc) Revive(ctx context.Context, pluginID string) error {
	return f(ctx, pluginID)
}

// CommandReviver runs the host's extension-control utility. Every argument
// equal to or containing "{id}" has the plugin identifier substituted.
type CommandReviver struct {
	Argv []string
}

// Revive implements Reviver. Output is folded into the error so it reaches
// the log.
func (r CommandReviver) Revive(ctx context.Context, pluginID string) error {
	if len(r.Argv) == 0 {
		return errors.New("no revive command configured")
	}
	argv := make([]string, len(r.Argv))
	for i, a := range r.Argv {
		argv[i] = strings.ReplaceAll(a, "{id}", pluginID)
	}
	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("running %s: %w: %s", strings.Join(argv, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Guard serializes revival requests for one plugin identity from every
// detection path. A request is coalesced into a no-op when the previous
// revival was issued less than the cooldown ago, or is still executing.
type Guard struct {
	pluginID string
	reviver  Reviver
	cooldown time.Duration
	timeout  time.Duration
	metrics  *Metrics
	logger   *zap.Logger
	now      func() time.Time

	pool     *ants.Pool
	inflight atomic.Bool

	mu   sync.Mutex
	last time.Time
}

// GuardOptions configure a Guard.
type GuardOptions struct {
	Cooldown time.Duration
	// Timeout bounds one revival command.
	Timeout time.Duration
	Metrics *Metrics
	Logger  *zap.Logger
	Now     func() time.Time
}

// NewGuard returns a Guard reviving pluginID through r on a single worker.
func NewGuard(pluginID string, r Reviver, opts GuardOptions) (*Guard, error) {
	pool, err := ants.NewPool(1, ants.WithDisablePurge(true))
	if err != nil {
		return nil, fmt.Errorf("creating revival pool: %w", err)
	}
	if opts.Cooldown < 0 {
		opts.Cooldown = 0
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Guard{
		pluginID: pluginID,
		reviver:  r,
		cooldown: opts.Cooldown,
		timeout:  opts.Timeout,
		metrics:  opts.Metrics,
		logger:   opts.Logger.Named("revive").With(zap.String("plugin_id", pluginID)),
		now:      opts.Now,
		pool:     pool,
	}, nil
}

// Cooldown returns the configured cooldown.
func (g *Guard) Cooldown() time.Duration { return g.cooldown }

// Trigger requests a revival and reports whether one was issued. It does not
// wait for the revival command.
func (g *Guard) Trigger(reason string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if !g.last.IsZero() && now.Sub(g.last) < g.cooldown {
		g.coalesced(reason, "cooldown")
		return false
	}
	if g.inflight.Load() {
		g.coalesced(reason, "in flight")
		return false
	}

	g.inflight.Store(true)
	// The worker is idle or about to be, so Submit returns promptly.
	err := g.pool.Submit(func() {
		defer g.inflight.Store(false)
		ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
		defer cancel()
		start := time.Now()
		if err := g.reviver.Revive(ctx, g.pluginID); err != nil {
			g.logger.Warn("revival failed", zap.Error(err))
			return
		}
		g.logger.Info("revival issued", zap.Duration("took", time.Since(start)))
	})
	if err != nil {
		g.inflight.Store(false)
		g.logger.Warn("revival not scheduled", zap.Error(err))
		return false
	}

	g.last = now
	g.metrics.revived(g.pluginID)
	g.logger.Info("reviving plugin", zap.String("reason", reason))
	return true
}

func (g *Guard) coalesced(reason, why string) {
	g.metrics.coalesced(g.pluginID)
	g.logger.Debug("revival coalesced", zap.String("reason", reason), zap.String("because", why))
}

// Close waits up to the revival timeout for an in-flight revival and
// releases the worker.
func (g *Guard) Close() error {
	if err := g.pool.ReleaseTimeout(g.timeout); err != nil && !errors.Is(err, ants.ErrPoolClosed) {
		return fmt.Errorf("releasing revival pool: %w", err)
	}
	return nil
}
