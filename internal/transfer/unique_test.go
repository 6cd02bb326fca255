package transfer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	touch := func(name string) {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if got := UniquePath(filepath.Join(dir, "free.txt")); got != filepath.Join(dir, "free.txt") {
		t.Errorf("free path changed to %s", got)
	}

	touch("report.txt")
	touch("report 1.txt")
	if got, want := UniquePath(filepath.Join(dir, "report.txt")), filepath.Join(dir, "report 2.txt"); got != want {
		t.Errorf("UniquePath = %s, want %s", got, want)
	}

	touch("Makefile")
	if got, want := UniquePath(filepath.Join(dir, "Makefile")), filepath.Join(dir, "Makefile 1"); got != want {
		t.Errorf("UniquePath = %s, want %s", got, want)
	}

	touch(".env")
	if got, want := UniquePath(filepath.Join(dir, ".env")), filepath.Join(dir, ".env 1"); got != want {
		t.Errorf("UniquePath = %s, want %s", got, want)
	}

	touch("archive.tar.gz")
	if got, want := UniquePath(filepath.Join(dir, "archive.tar.gz")), filepath.Join(dir, "archive.tar 1.gz"); got != want {
		t.Errorf("UniquePath = %s, want %s", got, want)
	}

	if err := os.Symlink(filepath.Join(dir, "nowhere"), filepath.Join(dir, "dangling")); err != nil {
		t.Fatal(err)
	}
	if got, want := UniquePath(filepath.Join(dir, "dangling")), filepath.Join(dir, "dangling 1"); got != want {
		t.Errorf("dangling symlink must count as taken: got %s", got)
	}
}
