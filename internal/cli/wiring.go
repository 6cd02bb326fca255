package cli

import (
	"fmt"

	"github.com/rightmenu-labs/rightmenu/internal/actions"
	"github.com/rightmenu-labs/rightmenu/internal/clipboard"
	"github.com/rightmenu-labs/rightmenu/internal/config"
	"github.com/rightmenu-labs/rightmenu/internal/settings"
	"github.com/rightmenu-labs/rightmenu/internal/store"
	"github.com/rightmenu-labs/rightmenu/internal/transfer"
)

// openBoard returns the clipboard backend named by the clipboard config key.
// The system clipboard falls back to the store when no clipboard utility is
// available.
func openBoard() (clipboard.Board, error) {
	switch backend := config.ClipboardBackend(); backend {
	case config.ClipboardSystem, "":
		if clipboard.Supported() {
			return clipboard.NewSystemBoard(), nil
		}
		logger.Warn("system clipboard unavailable, using the shared store")
		return clipboard.NewStoreBoard()
	case config.ClipboardStore:
		return clipboard.NewStoreBoard()
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q (want %s or %s)", backend, config.ClipboardSystem, config.ClipboardStore)
	}
}

func settingsSource() (*settings.FileSource, error) {
	path, err := store.SettingsPath()
	if err != nil {
		return nil, fmt.Errorf("resolving settings path: %w", err)
	}
	return settings.NewFileSource(path), nil
}

// wiring is the set of components shared by the action commands and the
// plugin host.
type wiring struct {
	board    clipboard.Board
	settings settings.Source
	engine   *transfer.Engine
	dispatch *actions.Dispatcher
}

func newWiring(prompter transfer.Prompter, reporter transfer.Reporter) (*wiring, error) {
	board, err := openBoard()
	if err != nil {
		return nil, err
	}
	src, err := settingsSource()
	if err != nil {
		return nil, err
	}
	engine := transfer.NewEngine(board, transfer.Options{
		Settings: src,
		Prompter: prompter,
		Reporter: reporter,
		Logger:   logger,
	})
	return &wiring{
		board:    board,
		settings: src,
		engine:   engine,
		dispatch: actions.NewDispatcher(engine, board, src, config.TerminalCommand(), logger),
	}, nil
}
