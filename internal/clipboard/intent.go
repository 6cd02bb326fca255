// Package clipboard carries TransferIntents (a pending cut or copy of file
// paths) between the action that creates them and the paste that consumes
// them. Two boards are provided: SystemBoard uses the desktop clipboard and
// StoreBoard keeps the intent in the shared store for sandboxed or headless
// hosts.
package clipboard

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Mode says what a paste does with the sources.
type Mode string

// Transfer modes.
const (
	ModeCopy Mode = "copy"
	ModeCut  Mode = "cut"
)

var (
	// ErrEmpty is returned when the board holds no file references.
	ErrEmpty = errors.New("clipboard holds no file references")
)

// Intent is a pending cut or copy.
type Intent struct {
	ID        string    `json:"id,omitempty"`
	Mode      Mode      `json:"mode"`
	Paths     []string  `json:"paths"`
	CreatedAt time.Time `json:"created_at"`
}

// NewIntent returns an intent stamped with a fresh id and the current time.
func NewIntent(mode Mode, paths []string) *Intent {
	return &Intent{
		ID:        uuid.NewString(),
		Mode:      mode,
		Paths:     append([]string(nil), paths...),
		CreatedAt: time.Now(),
	}
}

// Board is the clipboard surface the menu and transfer engine depend on.
type Board interface {
	// HasFiles is the cheap type check used while building a menu.
	HasFiles() bool
	// ReadIntent returns the current intent or ErrEmpty.
	ReadIntent() (*Intent, error)
	WriteIntent(in *Intent) error
	// WriteText replaces the board content with plain text.
	WriteText(text string) error
	Clear() error
}
