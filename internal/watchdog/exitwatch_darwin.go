package watchdog

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

func waitExit(ctx context.Context, pid int) error {
	kq, err := unix.Kqueue()
	if err != nil {
		return fmt.Errorf("kqueue: %w", err)
	}
	defer unix.Close(kq)

	cancelFd, stop, err := cancelPipe(ctx)
	if err != nil {
		return err
	}
	defer stop()

	changes := make([]unix.Kevent_t, 2)
	unix.SetKevent(&changes[0], pid, unix.EVFILT_PROC, unix.EV_ADD|unix.EV_ONESHOT)
	changes[0].Fflags = unix.NOTE_EXIT
	unix.SetKevent(&changes[1], cancelFd, unix.EVFILT_READ, unix.EV_ADD)

	if _, err := unix.Kevent(kq, changes, nil, nil); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return nil
		}
		return fmt.Errorf("registering exit filter for %d: %w", pid, err)
	}

	events := make([]unix.Kevent_t, 2)
	for {
		n, err := unix.Kevent(kq, nil, events, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return fmt.Errorf("waiting on kqueue: %w", err)
		}
		for _, ev := range events[:n] {
			switch ev.Filter {
			case unix.EVFILT_PROC:
				return nil
			case unix.EVFILT_READ:
				return ctx.Err()
			}
		}
	}
}
