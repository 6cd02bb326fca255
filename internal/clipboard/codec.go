package clipboard

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Encode renders in using the x-special/gnome-copied-files layout: the mode
// on the first line, then one file:// URI per path.
func Encode(in *Intent) string {
	var b strings.Builder
	b.WriteString(string(in.Mode))
	for _, p := range in.Paths {
		b.WriteByte('\n')
		u := url.URL{Scheme: "file", Path: p}
		b.WriteString(u.String())
	}
	return b.String()
}

// Decode parses clipboard text. Text with a cut/copy header is an intent we
// (or a GNOME-style file manager) wrote; a bare list of file:// URIs or
// absolute paths from another application decodes as a copy.
func Decode(text string) (*Intent, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, ErrEmpty
	}

	mode := ModeCopy
	switch Mode(lines[0]) {
	case ModeCut, ModeCopy:
		mode = Mode(lines[0])
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return nil, ErrEmpty
	}

	paths := make([]string, 0, len(lines))
	for _, line := range lines {
		p, err := parseRef(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmpty, err)
		}
		paths = append(paths, p)
	}
	return &Intent{Mode: mode, Paths: paths}, nil
}

// sniffLen bounds how much clipboard text LooksLikeFiles looks at.
const sniffLen = 4 << 10

// LooksLikeFiles is the fast check used by HasFiles: it reads at most the
// first sniffLen bytes and inspects only the first reference line.
func LooksLikeFiles(text string) bool {
	if len(text) > sniffLen {
		text = text[:sniffLen]
		// A line cut by the limit is only kept when it is the sole line.
		if i := strings.LastIndexByte(text, '\n'); i >= 0 {
			text = text[:i]
		}
	}
	headerSeen := false
	for text != "" {
		var line string
		line, text, _ = strings.Cut(text, "\n")
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if m := Mode(line); !headerSeen && (m == ModeCut || m == ModeCopy) {
			headerSeen = true
			continue
		}
		_, err := parseRef(line)
		return err == nil
	}
	return false
}

func parseRef(line string) (string, error) {
	if strings.HasPrefix(line, "file://") {
		u, err := url.Parse(line)
		if err != nil {
			return "", fmt.Errorf("parsing %q: %w", line, err)
		}
		if u.Path == "" {
			return "", fmt.Errorf("empty path in %q", line)
		}
		return filepath.Clean(u.Path), nil
	}
	if filepath.IsAbs(line) {
		return filepath.Clean(line), nil
	}
	return "", fmt.Errorf("%q is not a file reference", line)
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
