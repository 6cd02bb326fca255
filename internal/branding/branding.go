// Package branding provides compile-time identity values for the CLI.
//
// The identity lives in branding.yaml next to this file and is baked into the
// binary with //go:embed. Forks that ship under a different extension
// identifier only need to edit that file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	GitHubRepo  string `yaml:"github_repo"`
	ExtensionID string `yaml:"extension_id"`
	ProcessName string `yaml:"process_name"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:     "rightmenu",
			DisplayName: "RightMenu",
			Description: "Context-menu actions for your file manager",
			HomeDir:     ".rightmenu",
			EnvPrefix:   "RIGHTMENU",
			GoModule:    "github.com/rightmenu-labs/rightmenu",
			GitHubRepo:  "rightmenu-labs/rightmenu",
			ExtensionID: "com.rightmenu.findersync",
			ProcessName: "RightMenuFinderSync",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "rightmenu").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "RightMenu").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".rightmenu").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "RIGHTMENU").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path.
func GoModule() string { load(); return defaults.GoModule }

// GitHubRepo returns the "owner/repo" string.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// ExtensionID returns the host extension identifier the companion revives.
func ExtensionID() string { load(); return defaults.ExtensionID }

// ProcessName returns the executable name of the host-loaded plugin process.
func ProcessName() string { load(); return defaults.ProcessName }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("STORE") → "RIGHTMENU_STORE".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
