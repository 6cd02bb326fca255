package host

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/rightmenu-labs/rightmenu/internal/platform"
)

// Registration is what the host needs to route context menus to the plugin.
type Registration struct {
	ExtensionID string   `json:"extension_id"`
	Directories []string `json:"directories"`
}

// Discover returns the registration for extensionID: the account's real
// home directory plus every mounted volume.
func Discover(extensionID string) Registration {
	reg := Registration{ExtensionID: extensionID}
	if home, err := platform.RealHome(); err == nil {
		reg.Directories = append(reg.Directories, home)
	}

	username := ""
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	for _, pattern := range volumeGlobs(runtime.GOOS, username) {
		matches, _ := filepath.Glob(pattern)
		sort.Strings(matches)
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				reg.Directories = append(reg.Directories, m)
			}
		}
	}
	return reg
}

// volumeGlobs lists where removable and network volumes are mounted.
func volumeGlobs(goos, username string) []string {
	if goos == "darwin" {
		return []string{"/Volumes/*"}
	}
	globs := []string{"/mnt/*"}
	if username != "" {
		globs = append([]string{filepath.Join("/media", username, "*")}, globs...)
	}
	return globs
}
