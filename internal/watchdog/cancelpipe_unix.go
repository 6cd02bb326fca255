//go:build linux || darwin

package watchdog

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// cancelPipe returns the read end of a pipe that becomes readable when ctx
// is done, so a blocking poll or kevent can select on cancellation. stop
// must be called to release the pipe and its goroutine.
func cancelPipe(ctx context.Context) (int, func(), error) {
	var p [2]int
	if err := unix.Pipe(p[:]); err != nil {
		return 0, nil, fmt.Errorf("creating cancel pipe: %w", err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			_, _ = unix.Write(p[1], []byte{0})
		case <-done:
		}
	}()

	stop := func() {
		close(done)
		wg.Wait()
		_ = unix.Close(p[0])
		_ = unix.Close(p[1])
	}
	return p[0], stop, nil
}
