package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFolderOf(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "report.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{tmp, tmp},
		{file, tmp},
		{filepath.Join(tmp, "missing"), filepath.Join(tmp, "missing")},
	}
	for _, tt := range tests {
		if got := FolderOf(tt.in); got != tt.want {
			t.Errorf("FolderOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSamePath(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "a.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	hard := filepath.Join(tmp, "hard.txt")
	if err := os.Link(file, hard); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(tmp, "link.txt")
	if err := os.Symlink(file, link); err != nil {
		t.Fatal(err)
	}
	other := filepath.Join(tmp, "b.txt")
	if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", file, file, true},
		{"unclean spelling", file, tmp + "/./a.txt", true},
		{"hard link shares inode", file, hard, true},
		{"different files", file, other, false},
		{"symlink is not its target", file, link, false},
		{"missing entries differ", filepath.Join(tmp, "m1"), filepath.Join(tmp, "m2"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SamePath(tt.a, tt.b); got != tt.want {
				t.Errorf("SamePath(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSamePathNormalisedSpellings(t *testing.T) {
	tmp := t.TempDir()
	nfc := filepath.Join(tmp, "caf\u00e9.txt")
	nfd := filepath.Join(tmp, "cafe\u0301.txt")
	if err := os.WriteFile(nfc, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Lstat(nfd); err == nil {
		// The filesystem folds both spellings onto one entry.
		if !SamePath(nfc, nfd) {
			t.Errorf("SamePath(%q, %q) = false on a normalising filesystem", nfc, nfd)
		}
		return
	}
	if err := os.WriteFile(nfd, []byte("y"), 0644); err != nil {
		t.Fatal(err)
	}
	if SamePath(nfc, nfd) {
		t.Errorf("SamePath(%q, %q) = true for two distinct files", nfc, nfd)
	}
}

func TestIsWithin(t *testing.T) {
	tmp := t.TempDir()
	sub := filepath.Join(tmp, "a", "b")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(tmp, "link")
	if err := os.Symlink(filepath.Join(tmp, "a"), link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path, dir string
		want      bool
	}{
		{sub, filepath.Join(tmp, "a"), true},
		{filepath.Join(tmp, "a"), filepath.Join(tmp, "a"), true},
		{filepath.Join(tmp, "a"), sub, false},
		{filepath.Join(tmp, "ab"), filepath.Join(tmp, "a"), false},
		{filepath.Join(link, "b"), filepath.Join(tmp, "a"), true},
	}
	for _, tt := range tests {
		if got := IsWithin(tt.path, tt.dir); got != tt.want {
			t.Errorf("IsWithin(%q, %q) = %v, want %v", tt.path, tt.dir, got, tt.want)
		}
	}
}

func TestCopySymlink(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "link")
	if err := os.Symlink("target.txt", src); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(tmp, "copy")
	if err := CopySymlink(src, dst); err != nil {
		t.Fatalf("CopySymlink: %v", err)
	}
	got, err := os.Readlink(dst)
	if err != nil {
		t.Fatal(err)
	}
	if got != "target.txt" {
		t.Errorf("link target = %q, want %q", got, "target.txt")
	}
}

func TestRealHome(t *testing.T) {
	home, err := RealHome()
	if err != nil {
		t.Fatalf("RealHome: %v", err)
	}
	if home == "" {
		t.Error("RealHome returned empty path")
	}
}
