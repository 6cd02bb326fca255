package transfer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UniquePath returns path if nothing exists there, otherwise the first of
// "name 1.ext", "name 2.ext", … that is free. Each candidate is checked
// against the filesystem when it is tried.
func UniquePath(path string) string {
	if !exists(path) {
		return path
	}
	dir := filepath.Dir(path)
	stem, ext := splitExt(filepath.Base(path))
	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s %d%s", stem, n, ext))
		if !exists(candidate) {
			return candidate
		}
	}
}

// splitExt splits off the last extension. A leading dot names a hidden
// file, not an extension.
func splitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	if ext == name || ext == "." || strings.TrimSuffix(name, ext) == "" {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// exists reports whether anything, including a dangling symlink, is at path.
func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
