package actions

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rightmenu-labs/rightmenu/internal/clipboard"
)

// CopyPath puts the first selected path, or the target when nothing is
// selected, on the clipboard as text and returns it.
func CopyPath(board clipboard.Board, selection []string, target string) (string, error) {
	path := target
	if len(selection) > 0 {
		path = selection[0]
	}
	if path == "" {
		return "", errors.New("no path to copy")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	if err := board.WriteText(abs); err != nil {
		return "", err
	}
	return abs, nil
}
