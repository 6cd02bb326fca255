package settings

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/rightmenu-labs/rightmenu/internal/store"
)

// Set updates one key in the settings file at path, creating the file when
// needed. Flags take a boolean literal; menuOrder takes a comma-separated list.
// Keys keep their camelCase spelling so other readers of the file see the
// layout they wrote.
func Set(path, key, value string) error {
	doc := map[string]interface{}{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]interface{}{}
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("reading %s: %w", path, err)
	}

	switch {
	case IsFlag(key):
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false, got %q", key, value)
		}
		doc[key] = b
	case key == KeyMenuOrder:
		var order []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				order = append(order, part)
			}
		}
		doc[key] = order
	default:
		return fmt.Errorf("unknown settings key %q", key)
	}
	if _, ok := doc[KeySchemaVersion]; !ok {
		doc[KeySchemaVersion] = CurrentSchemaVersion
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return store.WriteFileAtomic(path, out, store.FilePerm)
}

// Get returns the effective value of key from a snapshot, formatted the way
// Set accepts it.
func Get(s *Settings, key string) (string, error) {
	if key == KeyMenuOrder {
		return strings.Join(s.Order(), ","), nil
	}
	if key == KeySchemaVersion {
		return s.SchemaVersion, nil
	}
	v, ok := s.Flags()[key]
	if !ok {
		return "", fmt.Errorf("unknown settings key %q", key)
	}
	return strconv.FormatBool(v), nil
}
