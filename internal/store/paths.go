package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rightmenu-labs/rightmenu/internal/branding"
)

// Directory and file name constants for the shared store.
const (
	SharedDir     = "shared"
	HeartbeatsDir = "heartbeats"
	SettingsFile  = "settings.yaml"
	ClipboardFile = "clipboard.json"
	ClipboardText = "clipboard.txt"
	MetricsFile   = "watchdog.prom"
	CompanionLock = "companion.lock"
	heartbeatExt  = ".json"
)

// Permission constants.
const (
	DirPerm  os.FileMode = 0755
	FilePerm os.FileMode = 0644
)

// Root returns the shared store directory.
// It checks the RIGHTMENU_STORE environment variable first,
// then falls back to ~/.rightmenu/shared.
func Root() (string, error) {
	if v := os.Getenv(branding.EnvVar("STORE")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir(), SharedDir), nil
}

// EnsureRoot creates the store and its heartbeat directory.
func EnsureRoot() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(root, HeartbeatsDir), DirPerm); err != nil {
		return "", fmt.Errorf("creating store %s: %w", root, err)
	}
	return root, nil
}

// SettingsPath returns the path to settings.yaml.
func SettingsPath() (string, error) {
	return join(SettingsFile)
}

// HeartbeatDir returns the directory holding heartbeat records.
func HeartbeatDir() (string, error) {
	return join(HeartbeatsDir)
}

// HeartbeatPath returns the heartbeat record for a plugin identity.
// For example, HeartbeatPath("com.x.ext") returns "<store>/heartbeats/com.x.ext.json".
func HeartbeatPath(pluginID string) (string, error) {
	if pluginID == "" || strings.ContainsAny(pluginID, `/\`) {
		return "", fmt.Errorf("invalid plugin id %q", pluginID)
	}
	return join(HeartbeatsDir, pluginID+heartbeatExt)
}

// ClipboardPath returns the path of the store-backed clipboard.
func ClipboardPath() (string, error) {
	return join(ClipboardFile)
}

// ClipboardTextPath returns the path of the store-backed clipboard's text slot.
func ClipboardTextPath() (string, error) {
	return join(ClipboardText)
}

// MetricsPath returns the textfile the watchdog exports metrics to.
func MetricsPath() (string, error) {
	return join(MetricsFile)
}

// LockPath returns the companion singleton lock file.
func LockPath() (string, error) {
	return join(CompanionLock)
}

func join(parts ...string) (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{root}, parts...)...), nil
}
