package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rightmenu-labs/rightmenu/internal/clipboard"
	"github.com/rightmenu-labs/rightmenu/internal/platform"
	"github.com/rightmenu-labs/rightmenu/internal/settings"
)

var (
	// ErrNoIntent is returned by Paste when the clipboard holds no files.
	ErrNoIntent = errors.New("nothing to paste")
	// ErrSelfOverlap fails a single file whose transfer would copy a
	// directory into itself or replace a folder containing the source.
	ErrSelfOverlap = errors.New("source and destination overlap")
	// ErrNoSelection is returned by Cut and Copy without paths.
	ErrNoSelection = errors.New("no files selected")
	// ErrDisabled is returned when the action is switched off in settings.
	ErrDisabled = errors.New("action disabled in settings")
)

// Status is the fate of one source in a paste.
type Status string

// Outcome statuses.
const (
	Transferred Status = "transferred"
	Skipped     Status = "skipped"
	Failed      Status = "failed"
)

// Outcome records what happened to one source.
type Outcome struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Status      Status `json:"status"`
	Renamed     bool   `json:"renamed,omitempty"`
	Err         error  `json:"-"`
	Error       string `json:"error,omitempty"`
}

// Result summarizes a paste batch.
type Result struct {
	Mode     clipboard.Mode `json:"mode"`
	Folder   string         `json:"folder"`
	Prompted bool           `json:"prompted"`
	// Resolution is the batch decision, empty when nothing collided.
	Resolution Resolution `json:"resolution,omitempty"`
	Outcomes   []Outcome  `json:"outcomes"`
}

// Count returns how many outcomes have status s.
func (r *Result) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Options configure an Engine. Every field is optional.
type Options struct {
	// Settings gates cut, copy and paste on their enable flags.
	Settings settings.Source
	// Prompter resolves collisions. Without one every collision is skipped.
	Prompter Prompter
	Reporter Reporter
	Logger   *zap.Logger
}

// Engine runs cut, copy and paste against a clipboard board.
type Engine struct {
	board    clipboard.Board
	settings settings.Source
	prompter Prompter
	reporter Reporter
	logger   *zap.Logger
}

// NewEngine returns an Engine using board.
func NewEngine(board clipboard.Board, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	logger := opts.Logger.Named("transfer")
	if opts.Prompter == nil {
		opts.Prompter = FixedPrompter{Resolution: Skip}
	}
	if opts.Reporter == nil {
		opts.Reporter = LogReporter{Logger: logger}
	}
	return &Engine{
		board:    board,
		settings: opts.Settings,
		prompter: opts.Prompter,
		reporter: opts.Reporter,
		logger:   logger,
	}
}

// Cut places a cut intent for paths on the clipboard.
func (e *Engine) Cut(paths []string) (*clipboard.Intent, error) {
	if !e.enabled(func(s *settings.Settings) bool { return s.EnableCut }) {
		return nil, fmt.Errorf("cut: %w", ErrDisabled)
	}
	return e.place(clipboard.ModeCut, paths)
}

// Copy places a copy intent for paths on the clipboard.
func (e *Engine) Copy(paths []string) (*clipboard.Intent, error) {
	if !e.enabled(func(s *settings.Settings) bool { return s.EnableCopy }) {
		return nil, fmt.Errorf("copy: %w", ErrDisabled)
	}
	return e.place(clipboard.ModeCopy, paths)
}

func (e *Engine) place(mode clipboard.Mode, paths []string) (*clipboard.Intent, error) {
	if len(paths) == 0 {
		return nil, ErrNoSelection
	}
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		abs = append(abs, a)
	}

	in := clipboard.NewIntent(mode, abs)
	if err := e.board.WriteIntent(in); err != nil {
		return nil, err
	}
	e.logger.Info("clipboard intent placed", zap.String("mode", string(mode)), zap.Int("files", len(abs)))
	return in, nil
}

func (e *Engine) enabled(flag func(*settings.Settings) bool) bool {
	if e.settings == nil {
		return true
	}
	s, err := e.settings.Reload()
	if err != nil {
		e.logger.Warn("settings unreadable, using defaults", zap.Error(err))
	}
	if s == nil {
		s = settings.Defaults()
	}
	return s.ExtensionEnabled && flag(s)
}

// Paste transfers every source of the current intent into target's folder
// (target itself when it is a directory, otherwise its parent). It returns
// an error only when the batch cannot start; per-file problems are in the
// Result. A cut intent is cleared once it has been read, whatever the
// per-file outcomes and even when the target is unusable.
func (e *Engine) Paste(ctx context.Context, target string) (*Result, error) {
	if !e.enabled(func(s *settings.Settings) bool { return s.EnablePaste }) {
		return nil, fmt.Errorf("paste: %w", ErrDisabled)
	}

	in, err := e.board.ReadIntent()
	if errors.Is(err, clipboard.ErrEmpty) {
		return nil, ErrNoIntent
	}
	if err != nil {
		return nil, err
	}
	if in.Mode == clipboard.ModeCut {
		// A cut is consumed by this paste even when the batch cannot start.
		defer e.clearCut()
	}

	folder, err := filepath.Abs(platform.FolderOf(target))
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", target, err)
	}
	info, err := os.Stat(folder)
	if err != nil {
		return nil, fmt.Errorf("paste target: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("paste target %s is not a directory", folder)
	}

	b := &batch{engine: e, ctx: ctx, mode: in.Mode}
	res := &Result{Mode: in.Mode, Folder: folder}
	for _, src := range in.Paths {
		out := b.pasteOne(src, folder)
		if out.Err != nil {
			out.Status = Failed
			out.Error = out.Err.Error()
			e.reporter.Failed(out)
		}
		res.Outcomes = append(res.Outcomes, out)
	}
	res.Prompted = b.prompted
	if b.decided {
		res.Resolution = b.decision
	}

	e.logger.Info("paste finished",
		zap.String("mode", string(in.Mode)),
		zap.String("folder", folder),
		zap.Int("transferred", res.Count(Transferred)),
		zap.Int("skipped", res.Count(Skipped)),
		zap.Int("failed", res.Count(Failed)))
	return res, nil
}

func (e *Engine) clearCut() {
	if err := e.board.Clear(); err != nil {
		e.logger.Warn("cut intent not cleared", zap.Error(err))
	}
}

// batch carries the once-per-batch collision decision.
type batch struct {
	engine   *Engine
	ctx      context.Context
	mode     clipboard.Mode
	decided  bool
	prompted bool
	decision Resolution
}

func (b *batch) pasteOne(src, folder string) Outcome {
	dst := filepath.Join(folder, filepath.Base(src))
	out := Outcome{Source: src, Destination: dst}

	info, err := os.Lstat(src)
	if err != nil {
		out.Err = fmt.Errorf("source: %w", err)
		return out
	}
	if info.IsDir() && platform.IsWithin(folder, src) && !isSelf(src, dst) {
		out.Err = fmt.Errorf("%s into %s: %w", src, folder, ErrSelfOverlap)
		return out
	}

	switch {
	case isSelf(src, dst):
		out.Destination = UniquePath(dst)
		out.Renamed = true
	case exists(dst):
		switch b.resolve(Conflict{Source: src, Destination: dst, Mode: b.mode}) {
		case Skip:
			out.Status = Skipped
			return out
		case KeepBoth:
			out.Destination = UniquePath(dst)
			out.Renamed = true
		case Replace:
			if platform.IsWithin(src, dst) {
				out.Err = fmt.Errorf("replacing %s would remove %s: %w", dst, src, ErrSelfOverlap)
				return out
			}
			if err := os.RemoveAll(dst); err != nil {
				out.Err = fmt.Errorf("removing existing %s: %w", dst, err)
				return out
			}
		}
	}

	if b.mode == clipboard.ModeCut {
		err = move(src, out.Destination)
	} else {
		err = duplicate(src, out.Destination)
	}
	if err != nil {
		out.Err = err
		return out
	}
	out.Status = Transferred
	return out
}

// resolve returns the batch decision, asking the prompter on the first
// collision only. Errors and unknown answers count as Skip.
func (b *batch) resolve(c Conflict) Resolution {
	if b.decided {
		return b.decision
	}
	b.decided, b.prompted = true, true

	r, err := b.engine.prompter.Resolve(b.ctx, c)
	switch {
	case err != nil:
		b.engine.logger.Info("conflict prompt gave no answer, skipping", zap.Error(err))
		r = Skip
	case r != Replace && r != KeepBoth:
		r = Skip
	}
	b.decision = r
	return r
}

// isSelf reports whether pasting src to dst would land on the source
// itself. Paths naming the same inode count.
func isSelf(src, dst string) bool {
	return filepath.Clean(src) == filepath.Clean(dst) || platform.SamePath(src, dst)
}
