// Package settings models the menu configuration shared between the settings
// surface and the plugin process: one boolean flag per optional action and the
// ordered menuOrder list. The plugin never trusts an in-memory copy; every
// menu build calls Source.Reload, which re-reads settings.yaml from the shared
// store and falls back to Defaults on any failure.
package settings
