package actions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rightmenu-labs/rightmenu/internal/platform"
)

// OpenTerminal opens a terminal in target's folder by running argv with
// "{dir}" substituted. When no argument mentions {dir} the folder is
// appended.
func OpenTerminal(ctx context.Context, argv []string, target string) error {
	if len(argv) == 0 {
		return errors.New("no terminal command configured")
	}
	dir := platform.FolderOf(target)

	args := make([]string, 0, len(argv)+1)
	substituted := false
	for _, a := range argv {
		if strings.Contains(a, "{dir}") {
			substituted = true
		}
		args = append(args, strings.ReplaceAll(a, "{dir}", dir))
	}
	if !substituted {
		args = append(args, dir)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("opening terminal: %w: %s", err, msg)
		}
		return fmt.Errorf("opening terminal: %w", err)
	}
	return nil
}
