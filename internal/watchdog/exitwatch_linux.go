package watchdog

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

func waitExit(ctx context.Context, pid int) error {
	pfd, err := unix.PidfdOpen(pid, 0)
	switch {
	case errors.Is(err, unix.ESRCH):
		return nil
	case errors.Is(err, unix.ENOSYS):
		return ErrExitWatchUnsupported
	case err != nil:
		return fmt.Errorf("pidfd_open %d: %w", pid, err)
	}
	defer unix.Close(pfd)

	cancelFd, stop, err := cancelPipe(ctx)
	if err != nil {
		return err
	}
	defer stop()

	fds := []unix.PollFd{
		{Fd: int32(pfd), Events: unix.POLLIN},
		{Fd: int32(cancelFd), Events: unix.POLLIN},
	}
	for {
		_, err := unix.Poll(fds, -1)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return fmt.Errorf("polling pidfd %d: %w", pid, err)
		}
		if fds[0].Revents != 0 {
			return nil
		}
		if fds[1].Revents != 0 {
			return ctx.Err()
		}
	}
}
