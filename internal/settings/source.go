package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Source supplies settings snapshots. Reload must re-read the backing store on
// every call; on failure it returns Defaults() alongside the error so callers
// can fail open.
type Source interface {
	Reload() (*Settings, error)
}

// FileSource reads settings.yaml with a fresh viper instance per Reload.
type FileSource struct {
	Path string
}

// NewFileSource returns a Source backed by the YAML file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Reload implements Source. A missing file is not an error: the settings
// surface may simply not have written anything yet.
func (f *FileSource) Reload() (*Settings, error) {
	if _, err := os.Stat(f.Path); errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}

	v := viper.New()
	v.SetConfigFile(f.Path)
	v.SetConfigType("yaml")
	for key, value := range Defaults().Flags() {
		v.SetDefault(key, value)
	}
	v.SetDefault(KeyMenuOrder, DefaultOrder)
	v.SetDefault(KeySchemaVersion, CurrentSchemaVersion)

	if err := v.ReadInConfig(); err != nil {
		return Defaults(), fmt.Errorf("reading settings %s: %w", f.Path, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Defaults(), fmt.Errorf("decoding settings %s: %w", f.Path, err)
	}
	if err := CheckCompatible(s.SchemaVersion); err != nil {
		return Defaults(), err
	}
	return &s, nil
}

// Static is a Source that always returns a copy of the wrapped settings.
type Static struct {
	Settings *Settings
	Err      error
}

// Reload implements Source.
func (s Static) Reload() (*Settings, error) {
	if s.Err != nil {
		return Defaults(), s.Err
	}
	if s.Settings == nil {
		return Defaults(), nil
	}
	cp := *s.Settings
	cp.MenuOrder = append([]string(nil), s.Settings.MenuOrder...)
	return &cp, nil
}
