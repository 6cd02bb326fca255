package actions

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rightmenu-labs/rightmenu/internal/clipboard"
	"github.com/rightmenu-labs/rightmenu/internal/settings"
	"github.com/rightmenu-labs/rightmenu/internal/transfer"
)

// Request is one chosen menu entry.
type Request struct {
	Action    string   `json:"action"`
	Selection []string `json:"selection,omitempty"`
	Target    string   `json:"target,omitempty"`
}

// Response reports what an action did.
type Response struct {
	Action  string            `json:"action"`
	Created string            `json:"created,omitempty"`
	Text    string            `json:"text,omitempty"`
	Intent  *clipboard.Intent `json:"intent,omitempty"`
	Paste   *transfer.Result  `json:"paste,omitempty"`
}

// ParseAction splits a menu key into its action and argument, as in
// "newFile:md". It returns false for unknown actions.
func ParseAction(key string) (action, arg string, ok bool) {
	action, arg, _ = strings.Cut(key, ":")
	if !settings.IsAction(action) {
		return "", "", false
	}
	if action == settings.ActionNewFile {
		if _, found := settings.FindTemplate(arg); !found {
			return "", "", false
		}
	} else if arg != "" {
		return "", "", false
	}
	return action, arg, true
}

// Dispatcher routes requests to the actions.
type Dispatcher struct {
	engine   *transfer.Engine
	board    clipboard.Board
	settings settings.Source
	terminal []string
	logger   *zap.Logger
}

// NewDispatcher returns a Dispatcher. terminal is the argv template used by
// openInTerminal.
func NewDispatcher(engine *transfer.Engine, board clipboard.Board, src settings.Source, terminal []string, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		engine:   engine,
		board:    board,
		settings: src,
		terminal: terminal,
		logger:   logger.Named("actions"),
	}
}

// Dispatch runs req. Actions switched off in settings are refused; cut, copy
// and paste are gated by the transfer engine itself.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Response, error) {
	action, arg, ok := ParseAction(req.Action)
	if !ok {
		return nil, fmt.Errorf("unknown action %q", req.Action)
	}
	if err := d.allowed(action, arg); err != nil {
		return nil, err
	}

	resp := &Response{Action: req.Action}
	var err error
	switch action {
	case settings.ActionNewFile:
		resp.Created, err = NewFile(d.target(req), arg)
	case settings.ActionCopyPath:
		resp.Text, err = CopyPath(d.board, req.Selection, req.Target)
	case settings.ActionOpenInTerminal:
		err = OpenTerminal(ctx, d.terminal, d.target(req))
	case settings.ActionCut:
		resp.Intent, err = d.engine.Cut(req.Selection)
	case settings.ActionCopy:
		resp.Intent, err = d.engine.Copy(req.Selection)
	case settings.ActionPaste:
		resp.Paste, err = d.engine.Paste(ctx, d.target(req))
	}
	if err != nil {
		d.logger.Warn("action failed", zap.String("action", req.Action), zap.Error(err))
		return nil, err
	}
	d.logger.Debug("action done", zap.String("action", req.Action))
	return resp, nil
}

// target is the folder-bearing path of a request: the explicit target, or
// the first selected item.
func (d *Dispatcher) target(req Request) string {
	if req.Target != "" || len(req.Selection) == 0 {
		return req.Target
	}
	return req.Selection[0]
}

func (d *Dispatcher) allowed(action, arg string) error {
	if d.settings == nil {
		return nil
	}
	s, err := d.settings.Reload()
	if err != nil {
		d.logger.Warn("settings unreadable, using defaults", zap.Error(err))
	}
	if s == nil {
		s = settings.Defaults()
	}

	on := true
	switch action {
	case settings.ActionNewFile:
		tpl, _ := settings.FindTemplate(arg)
		on = s.Flags()[tpl.Flag]
	case settings.ActionCopyPath:
		on = s.EnableCopyPath
	case settings.ActionOpenInTerminal:
		on = s.EnableOpenInTerminal
	}
	if !s.ExtensionEnabled || !on {
		return fmt.Errorf("%s: %w", action, transfer.ErrDisabled)
	}
	return nil
}
