// Package heartbeat implements the liveness record the plugin process writes
// into the shared store and the companion reads back.
package heartbeat

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rightmenu-labs/rightmenu/internal/store"
)

// Record is one heartbeat.
type Record struct {
	PluginID string    `json:"plugin_id"`
	PID      int       `json:"pid"`
	At       time.Time `json:"at"`
}

// Age returns how long ago the record was written, relative to now.
func (r Record) Age(now time.Time) time.Duration {
	return now.Sub(r.At)
}

// Write stores rec at path atomically.
func Write(path string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling heartbeat: %w", err)
	}
	if err := store.WriteFileAtomic(path, data, store.FilePerm); err != nil {
		return fmt.Errorf("writing heartbeat: %w", err)
	}
	return nil
}

// Read loads the record at path. When the content cannot be parsed (a writer
// from an older build, or an external `touch`), the file's mtime stands in
// for the timestamp.
func Read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err == nil && !rec.At.IsZero() {
		return rec, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return Record{}, err
	}
	return Record{At: info.ModTime()}, nil
}
