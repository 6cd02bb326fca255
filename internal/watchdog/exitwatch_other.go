//go:build !linux && !darwin

package watchdog

import "context"

func waitExit(context.Context, int) error {
	return ErrExitWatchUnsupported
}
