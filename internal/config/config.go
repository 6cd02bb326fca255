package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rightmenu-labs/rightmenu/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by the runtime configuration.
const (
	KeyPluginID          = "plugin_id"
	KeyProcessName       = "process_name"
	KeyReviveCommand     = "revive_command"
	KeyHeartbeatInterval = "heartbeat_interval"
	KeyPollInterval      = "poll_interval"
	KeyStaleAfter        = "stale_after"
	KeyReviveCooldown    = "revive_cooldown"
	KeyRespawnGrace      = "respawn_grace"
	KeyReviveTimeout     = "revive_timeout"
	KeyProcessProbe      = "process_probe"
	KeyClipboard         = "clipboard"
	KeyTerminalCommand   = "terminal_command"
	KeyMetricsTextfile   = "metrics_textfile"
)

var allKeys = []string{
	KeyPluginID, KeyProcessName, KeyReviveCommand, KeyHeartbeatInterval,
	KeyPollInterval, KeyStaleAfter, KeyReviveCooldown, KeyRespawnGrace,
	KeyReviveTimeout, KeyProcessProbe, KeyClipboard, KeyTerminalCommand,
	KeyMetricsTextfile,
}

// Keys returns every known configuration key.
func Keys() []string {
	return append([]string(nil), allKeys...)
}

// IsKey reports whether key is a known configuration key.
func IsKey(key string) bool {
	for _, k := range allKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Probe and clipboard backends.
const (
	ProbeGopsutil = "gopsutil"
	ProbePgrep    = "pgrep"

	ClipboardSystem = "system"
	ClipboardStore  = "store"
)

// Watchdog holds the companion-side liveness tunables.
type Watchdog struct {
	PluginID          string
	ProcessName       string
	ReviveCommand     []string
	HeartbeatInterval time.Duration
	PollInterval      time.Duration
	StaleAfter        time.Duration
	ReviveCooldown    time.Duration
	RespawnGrace      time.Duration
	ReviveTimeout     time.Duration
	ProcessProbe      string
	MetricsTextfile   bool
}

// Dir returns the path to the RightMenu config directory (~/.rightmenu/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.rightmenu/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault(KeyPluginID, branding.ExtensionID())
	viper.SetDefault(KeyProcessName, branding.ProcessName())
	viper.SetDefault(KeyReviveCommand, []string{"pluginkit", "-e", "use", "-i", "{id}"})
	viper.SetDefault(KeyHeartbeatInterval, 3*time.Second)
	viper.SetDefault(KeyPollInterval, 5*time.Second)
	viper.SetDefault(KeyStaleAfter, time.Duration(0))
	viper.SetDefault(KeyReviveCooldown, 10*time.Second)
	viper.SetDefault(KeyRespawnGrace, 2*time.Second)
	viper.SetDefault(KeyReviveTimeout, 10*time.Second)
	viper.SetDefault(KeyProcessProbe, ProbeGopsutil)
	viper.SetDefault(KeyClipboard, ClipboardSystem)
	viper.SetDefault(KeyTerminalCommand, []string{"open", "-a", "Terminal", "{dir}"})
	viper.SetDefault(KeyMetricsTextfile, false)
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	setDefaults()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// WatchdogConfig returns the liveness tunables. A zero stale_after resolves
// to three heartbeat intervals.
func WatchdogConfig() Watchdog {
	w := Watchdog{
		PluginID:          viper.GetString(KeyPluginID),
		ProcessName:       viper.GetString(KeyProcessName),
		ReviveCommand:     viper.GetStringSlice(KeyReviveCommand),
		HeartbeatInterval: viper.GetDuration(KeyHeartbeatInterval),
		PollInterval:      viper.GetDuration(KeyPollInterval),
		StaleAfter:        viper.GetDuration(KeyStaleAfter),
		ReviveCooldown:    viper.GetDuration(KeyReviveCooldown),
		RespawnGrace:      viper.GetDuration(KeyRespawnGrace),
		ReviveTimeout:     viper.GetDuration(KeyReviveTimeout),
		ProcessProbe:      viper.GetString(KeyProcessProbe),
		MetricsTextfile:   viper.GetBool(KeyMetricsTextfile),
	}
	if w.HeartbeatInterval <= 0 {
		w.HeartbeatInterval = 3 * time.Second
	}
	if w.StaleAfter <= 0 {
		w.StaleAfter = 3 * w.HeartbeatInterval
	}
	return w
}

// ClipboardBackend returns "system" or "store".
func ClipboardBackend() string {
	return viper.GetString(KeyClipboard)
}

// TerminalCommand returns the argv template used by open-terminal.
func TerminalCommand() []string {
	return viper.GetStringSlice(KeyTerminalCommand)
}
