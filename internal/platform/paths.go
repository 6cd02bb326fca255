package platform

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FolderOf returns path itself when it is a directory and its parent when it
// is any other existing entry. A path that cannot be stat'ed is returned
// unchanged so the caller's own operation reports the error.
func FolderOf(path string) string {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}

// SamePath reports whether a and b name the same filesystem entry: equal after
// cleaning, or the same inode. Entries are Lstat'ed, so a symlink is never the
// file it points at. Differently normalised spellings only match where the
// filesystem maps them to one inode (HFS+/APFS), not on Linux where they are
// distinct files.
func SamePath(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if a == b {
		return true
	}
	ai, err := os.Lstat(a)
	if err != nil {
		return false
	}
	bi, err := os.Lstat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// IsWithin reports whether path equals dir or lies beneath it. Symlinks are
// resolved where possible so a link into the tree is still caught.
func IsWithin(path, dir string) bool {
	path, dir = resolve(path), resolve(dir)
	if path == dir {
		return true
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// CopySymlink recreates the symlink at src as dst with the same target.
func CopySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return err
	}
	return os.Symlink(target, dst)
}

// RealHome returns the account's home directory from the user database,
// which stays correct when $HOME points into a sandbox container.
func RealHome() (string, error) {
	if u, err := user.Current(); err == nil && u.HomeDir != "" {
		return u.HomeDir, nil
	}
	return os.UserHomeDir()
}

func resolve(p string) string {
	p = filepath.Clean(p)
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if r, err := filepath.EvalSymlinks(p); err == nil {
		return r
	}
	return norm.NFC.String(p)
}
