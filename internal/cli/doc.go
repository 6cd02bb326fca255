// Package cli defines the Cobra command tree for the rightmenu binary. The
// plugin and companion commands are the two long-running processes; the
// rest are one-shot commands over the same internal packages. Commands only
// parse flags, wire components and format output.
package cli
