package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// SystemBoard stores intents on the desktop clipboard as text.
type SystemBoard struct {
	readAll  func() (string, error)
	writeAll func(string) error
}

// NewSystemBoard returns a Board backed by the desktop clipboard.
func NewSystemBoard() *SystemBoard {
	return &SystemBoard{readAll: clipboard.ReadAll, writeAll: clipboard.WriteAll}
}

// Supported reports whether a clipboard utility is available on this host.
func Supported() bool {
	return !clipboard.Unsupported
}

// HasFiles implements Board. The desktop clipboard exposes no type query
// through this library, so only the first reference within the leading
// sniffLen bytes is inspected.
func (s *SystemBoard) HasFiles() bool {
	text, err := s.readAll()
	if err != nil {
		return false
	}
	return LooksLikeFiles(text)
}

// ReadIntent implements Board.
func (s *SystemBoard) ReadIntent() (*Intent, error) {
	text, err := s.readAll()
	if err != nil {
		return nil, fmt.Errorf("reading clipboard: %w", err)
	}
	return Decode(text)
}

// WriteIntent implements Board.
func (s *SystemBoard) WriteIntent(in *Intent) error {
	if err := s.writeAll(Encode(in)); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// WriteText implements Board.
func (s *SystemBoard) WriteText(text string) error {
	if err := s.writeAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// Clear implements Board.
func (s *SystemBoard) Clear() error {
	return s.WriteText("")
}
