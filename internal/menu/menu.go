// Package menu builds the context menu for one popup from the current
// settings, the popup kind, the selection, and a clipboard type check.
package menu

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rightmenu-labs/rightmenu/internal/clipboard"
	"github.com/rightmenu-labs/rightmenu/internal/settings"
)

// Kind is the kind of popup the host is asking for.
type Kind int

// Popup kinds. Only Container and Items are contextual.
const (
	Container Kind = iota
	Items
	Sidebar
	Toolbar
)

var kindNames = map[Kind]string{
	Container: "container",
	Items:     "items",
	Sidebar:   "sidebar",
	Toolbar:   "toolbar",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind parses a kind name as used on the command line and the host
// protocol.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(s, n) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown menu kind %q (want container, items, sidebar or toolbar)", s)
}

// Context describes one popup.
type Context struct {
	Kind      Kind
	Selection []string
	Target    string
}

// Item is one menu entry. Key is the action dispatched when the entry is
// chosen; submenu parents have Children and no action of their own.
type Item struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Icon     string `json:"icon,omitempty"`
	Children []Item `json:"children,omitempty"`
}

// TemplateKey returns the action key of a new-file template entry.
func TemplateKey(id string) string {
	return settings.ActionNewFile + ":" + id
}

var entries = map[string]Item{
	settings.ActionNewFile:        {Key: settings.ActionNewFile, Title: "New…", Icon: "doc.badge.plus"},
	settings.ActionCopy:           {Key: settings.ActionCopy, Title: "Copy", Icon: "doc.on.doc"},
	settings.ActionCut:            {Key: settings.ActionCut, Title: "Cut", Icon: "scissors"},
	settings.ActionPaste:          {Key: settings.ActionPaste, Title: "Paste", Icon: "doc.on.clipboard.fill"},
	settings.ActionCopyPath:       {Key: settings.ActionCopyPath, Title: "Copy Path", Icon: "doc.on.clipboard"},
	settings.ActionOpenInTerminal: {Key: settings.ActionOpenInTerminal, Title: "Open in Terminal", Icon: "terminal"},
}

// Builder produces menus. It holds no settings of its own: every Build
// reloads from the Source.
type Builder struct {
	source settings.Source
	board  clipboard.Board
	logger *zap.Logger
}

// NewBuilder returns a Builder. board may be nil, in which case paste is
// never offered.
func NewBuilder(source settings.Source, board clipboard.Board, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{source: source, board: board, logger: logger.Named("menu")}
}

// Build returns the menu for c. It never fails: unreadable settings fall
// back to the defaults.
func (b *Builder) Build(c Context) []Item {
	s, err := b.source.Reload()
	if err != nil {
		b.logger.Warn("settings unreadable, using defaults", zap.Error(err))
	}
	if s == nil {
		s = settings.Defaults()
	}
	return b.build(s, c)
}

func (b *Builder) build(s *settings.Settings, c Context) []Item {
	items := []Item{}
	if !s.ExtensionEnabled {
		return items
	}
	if c.Kind != Container && c.Kind != Items {
		return items
	}

	hasSelection := len(c.Selection) > 0
	for _, key := range s.Order() {
		switch key {
		case settings.ActionNewFile:
			if sub := templateItems(s); len(sub) > 0 {
				it := entries[key]
				it.Children = sub
				items = append(items, it)
			}
		case settings.ActionCut:
			if s.EnableCut && hasSelection && c.Kind == Items {
				items = append(items, entries[key])
			}
		case settings.ActionCopy:
			if s.EnableCopy && hasSelection && c.Kind == Items {
				items = append(items, entries[key])
			}
		case settings.ActionPaste:
			// The clipboard is only consulted when paste is enabled.
			if s.EnablePaste && b.board != nil && b.board.HasFiles() {
				items = append(items, entries[key])
			}
		case settings.ActionCopyPath:
			if s.EnableCopyPath {
				items = append(items, entries[key])
			}
		case settings.ActionOpenInTerminal:
			if s.EnableOpenInTerminal {
				items = append(items, entries[key])
			}
		}
	}
	return items
}

func templateItems(s *settings.Settings) []Item {
	var sub []Item
	for _, t := range s.EnabledTemplates() {
		sub = append(sub, Item{Key: TemplateKey(t.ID), Title: t.Title})
	}
	return sub
}

// Keys flattens items to their top-level keys.
func Keys(items []Item) []string {
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Key
	}
	return keys
}
