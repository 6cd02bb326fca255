package watchdog

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// ErrNotRunning is returned by a Locator when no process matches.
var ErrNotRunning = errors.New("process not running")

// Locator finds the PID of a process by name.
type Locator interface {
	Locate(ctx context.Context, name string) (int, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context, name string) (int, error)

// Locate implements Locator.
func (f LocatorFunc) Locate(ctx context.Context, name string) (int, error) {
	return f(ctx, name)
}

// GopsutilLocator scans the process table in-process.
type GopsutilLocator struct{}

// Locate implements Locator. The lowest matching PID wins.
func (GopsutilLocator) Locate(ctx context.Context, name string) (int, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing processes: %w", err)
	}
	found := 0
	for _, p := range procs {
		pname, err := p.NameWithContext(ctx)
		if err != nil || pname != name {
			continue
		}
		if pid := int(p.Pid); found == 0 || pid < found {
			found = pid
		}
	}
	if found == 0 {
		return 0, ErrNotRunning
	}
	return found, nil
}

// PgrepLocator shells out to pgrep(1), for hosts where the process table is
// not readable by the companion directly.
type PgrepLocator struct {
	// Path overrides the pgrep binary; empty means look it up on PATH.
	Path string
}

// Locate implements Locator.
func (l PgrepLocator) Locate(ctx context.Context, name string) (int, error) {
	bin := l.Path
	if bin == "" {
		bin = "pgrep"
	}
	out, err := exec.CommandContext(ctx, bin, "-x", name).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return 0, ErrNotRunning
		}
		return 0, fmt.Errorf("running %s: %w", bin, err)
	}
	return parsePgrep(out)
}

func parsePgrep(out []byte) (int, error) {
	found := 0
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		pid, err := strconv.Atoi(line)
		if err != nil {
			return 0, fmt.Errorf("parsing pgrep output %q: %w", line, err)
		}
		if found == 0 || pid < found {
			found = pid
		}
	}
	if found == 0 {
		return 0, ErrNotRunning
	}
	return found, nil
}
