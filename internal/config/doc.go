// Package config manages the runtime tunables stored at ~/.rightmenu/config.yaml
// and overridable through RIGHTMENU_* environment variables: watchdog
// intervals, the host extension-control command, the clipboard backend, and
// the terminal launcher. Menu settings shared with the plugin process live in
// the settings package instead.
package config
