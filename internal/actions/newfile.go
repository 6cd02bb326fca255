package actions

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rightmenu-labs/rightmenu/internal/platform"
	"github.com/rightmenu-labs/rightmenu/internal/settings"
	"github.com/rightmenu-labs/rightmenu/internal/store"
	"github.com/rightmenu-labs/rightmenu/internal/transfer"
)

// maxCreateAttempts bounds the retries when another writer keeps taking the
// chosen name.
const maxCreateAttempts = 16

// NewFile creates an empty file from template templateID in target's folder
// and returns its path. The name is deduplicated with " N" counters.
func NewFile(target, templateID string) (string, error) {
	tpl, ok := settings.FindTemplate(templateID)
	if !ok {
		return "", fmt.Errorf("unknown template %q", templateID)
	}

	folder := platform.FolderOf(target)
	if info, err := os.Stat(folder); err != nil {
		return "", fmt.Errorf("new file target: %w", err)
	} else if !info.IsDir() {
		return "", fmt.Errorf("new file target %s is not a directory", folder)
	}

	for i := 0; i < maxCreateAttempts; i++ {
		path := transfer.UniquePath(filepath.Join(folder, tpl.BaseName+tpl.Ext))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, store.FilePerm)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("creating %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("closing %s: %w", path, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("could not find a free name for %s in %s", tpl.BaseName+tpl.Ext, folder)
}
