package clipboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rightmenu-labs/rightmenu/internal/store"
)

// StoreBoard keeps the clipboard in two files of the shared store: one slot
// for file intents and one for text. Writing either slot empties the other,
// so the presence of the intent file doubles as the type check.
type StoreBoard struct {
	IntentPath string
	TextPath   string
}

// NewStoreBoard returns a StoreBoard rooted in the shared store.
func NewStoreBoard() (*StoreBoard, error) {
	ip, err := store.ClipboardPath()
	if err != nil {
		return nil, err
	}
	tp, err := store.ClipboardTextPath()
	if err != nil {
		return nil, err
	}
	return &StoreBoard{IntentPath: ip, TextPath: tp}, nil
}

// HasFiles implements Board with a single stat.
func (b *StoreBoard) HasFiles() bool {
	info, err := os.Stat(b.IntentPath)
	return err == nil && info.Size() > 0
}

// ReadIntent implements Board.
func (b *StoreBoard) ReadIntent() (*Intent, error) {
	data, err := os.ReadFile(b.IntentPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("reading clipboard: %w", err)
	}
	var in Intent
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing clipboard: %w", err)
	}
	if len(in.Paths) == 0 {
		return nil, ErrEmpty
	}
	return &in, nil
}

// WriteIntent implements Board.
func (b *StoreBoard) WriteIntent(in *Intent) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling intent: %w", err)
	}
	if err := store.WriteFileAtomic(b.IntentPath, data, store.FilePerm); err != nil {
		return err
	}
	return removeIfExists(b.TextPath)
}

// WriteText implements Board.
func (b *StoreBoard) WriteText(text string) error {
	if err := store.WriteFileAtomic(b.TextPath, []byte(text), store.FilePerm); err != nil {
		return err
	}
	return removeIfExists(b.IntentPath)
}

// ReadText returns the text slot, or "" when it is empty.
func (b *StoreBoard) ReadText() (string, error) {
	data, err := os.ReadFile(b.TextPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	return string(data), err
}

// Clear implements Board.
func (b *StoreBoard) Clear() error {
	if err := removeIfExists(b.IntentPath); err != nil {
		return err
	}
	return removeIfExists(b.TextPath)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}
