package watchdog

import (
	"context"
	"errors"
)

// ErrExitWatchUnsupported is returned by exit watchers on platforms without
// a process-exit notification facility. The monitor then polls only.
var ErrExitWatchUnsupported = errors.New("process exit notification not supported on this platform")

// ExitWatcher blocks until a process exits.
type ExitWatcher interface {
	// Wait returns nil once pid has exited (or if it was already gone),
	// ctx.Err() when cancelled, and ErrExitWatchUnsupported when the
	// platform offers no notification.
	Wait(ctx context.Context, pid int) error
}

// ExitWatcherFunc adapts a function to ExitWatcher.
type ExitWatcherFunc func(ctx context.Context, pid int) error

// Wait implements ExitWatcher.
func (f ExitWatcherFunc) Wait(ctx context.Context, pid int) error {
	return f(ctx, pid)
}

// OSExitWatcher uses the kernel's process-exit notification.
type OSExitWatcher struct{}

// Wait implements ExitWatcher.
func (OSExitWatcher) Wait(ctx context.Context, pid int) error {
	return waitExit(ctx, pid)
}
