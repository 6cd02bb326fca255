package host

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rightmenu-labs/rightmenu/internal/actions"
	"github.com/rightmenu-labs/rightmenu/internal/menu"
	"github.com/rightmenu-labs/rightmenu/internal/transfer"
)

// maxLine bounds one protocol line.
const maxLine = 1 << 20

// queueLen bounds the actions waiting behind the one being run.
const queueLen = 16

// ErrBusy is reported for an action that arrives while the queue is full.
var ErrBusy = errors.New("busy: too many actions pending")

// Handlers are the components requests are routed to.
type Handlers struct {
	Menu    *menu.Builder
	Actions *actions.Dispatcher
}

// Server speaks the host protocol over a reader and a writer.
type Server struct {
	in     io.Reader
	hello  Hello
	logger *zap.Logger

	outMu sync.Mutex
	enc   *json.Encoder

	mu      sync.Mutex
	closed  bool
	pending map[string]chan string
}

// NewServer returns a Server reading requests from in and writing responses
// and events to out.
func NewServer(in io.Reader, out io.Writer, hello Hello, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hello.PID == 0 {
		hello.PID = os.Getpid()
	}
	return &Server{
		in:      in,
		hello:   hello,
		logger:  logger.Named("host"),
		enc:     json.NewEncoder(out),
		pending: make(map[string]chan string),
	}
}

// Serve handles requests until the input ends or ctx is cancelled. Actions
// run one at a time in arrival order; hello, menu and resolve are answered
// as soon as they are read, so a paste waiting on a prompt never holds up
// the input.
func (s *Server) Serve(ctx context.Context, h Handlers) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	// A blocked read cannot be interrupted; the reader ends with the input
	// or with the process.
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.in)
		sc.Buffer(make([]byte, 64*1024), maxLine)
		for sc.Scan() {
			line := append([]byte(nil), sc.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	work := make(chan Request, queueLen)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for req := range work {
			s.handle(gctx, h, req)
		}
		return nil
	})
	g.Go(func() error {
		defer close(work)
		defer s.dismissAll()
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				s.route(gctx, h, line, work)
			}
		}
	})

	err := g.Wait()
	select {
	case rerr := <-readErr:
		if rerr != nil {
			return fmt.Errorf("reading host input: %w", rerr)
		}
	default:
	}
	return err
}

func (s *Server) route(ctx context.Context, h Handlers, line []byte, work chan<- Request) {
	if len(line) == 0 {
		return
	}
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.respond(Response{OK: false, Error: fmt.Sprintf("malformed request: %v", err)})
		return
	}
	switch req.Op {
	case OpResolve:
		s.resolve(req)
		return
	case OpAction:
	default:
		s.handle(ctx, h, req)
		return
	}
	select {
	case work <- req:
	case <-ctx.Done():
	default:
		s.logger.Warn("action queue full", zap.String("id", req.ID), zap.String("action", req.Action))
		s.respond(Response{ID: req.ID, OK: false, Error: ErrBusy.Error()})
	}
}

func (s *Server) handle(ctx context.Context, h Handlers, req Request) {
	result, err := s.dispatch(ctx, h, req)
	if err != nil {
		s.respond(Response{ID: req.ID, OK: false, Error: err.Error()})
		return
	}
	s.respond(Response{ID: req.ID, OK: true, Result: result})
}

func (s *Server) dispatch(ctx context.Context, h Handlers, req Request) (interface{}, error) {
	switch req.Op {
	case OpHello:
		return s.hello, nil
	case OpMenu:
		if h.Menu == nil {
			return nil, errors.New("menus not available")
		}
		kind, err := menu.ParseKind(req.Kind)
		if err != nil {
			return nil, err
		}
		return h.Menu.Build(menu.Context{Kind: kind, Selection: req.Selection, Target: req.Target}), nil
	case OpAction:
		if h.Actions == nil {
			return nil, errors.New("actions not available")
		}
		return h.Actions.Dispatch(ctx, actions.Request{Action: req.Action, Selection: req.Selection, Target: req.Target})
	default:
		return nil, fmt.Errorf("unknown op %q", req.Op)
	}
}

func (s *Server) respond(resp Response) {
	s.write(resp)
}

// Emit sends an event to the host.
func (s *Server) Emit(ev Event) {
	s.write(ev)
}

func (s *Server) write(v interface{}) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if err := s.enc.Encode(v); err != nil {
		s.logger.Warn("writing to host failed", zap.Error(err))
	}
}

// resolve delivers a resolve request to the prompt waiting on it.
func (s *Server) resolve(req Request) {
	s.mu.Lock()
	ch, ok := s.pending[req.PromptID]
	delete(s.pending, req.PromptID)
	s.mu.Unlock()

	if !ok {
		s.respond(Response{ID: req.ID, OK: false, Error: fmt.Sprintf("no pending prompt %q", req.PromptID)})
		return
	}
	ch <- req.Resolution
	s.respond(Response{ID: req.ID, OK: true})
}

func (s *Server) dismissAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.pending {
		close(ch)
		delete(s.pending, id)
	}
}

// Prompter returns a transfer.Prompter that asks the host through prompt
// events.
func (s *Server) Prompter() transfer.Prompter {
	return transfer.PromptFunc(s.prompt)
}

func (s *Server) prompt(ctx context.Context, c transfer.Conflict) (transfer.Resolution, error) {
	id := uuid.NewString()
	ch := make(chan string, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", transfer.ErrDismissed
	}
	s.pending[id] = ch
	s.mu.Unlock()

	s.Emit(Event{
		Event:    EventPrompt,
		PromptID: id,
		Conflict: &c,
		Choices:  []transfer.Resolution{transfer.Replace, transfer.Skip, transfer.KeepBoth},
		Message:  fmt.Sprintf("%q already exists in the destination.", filepath.Base(c.Destination)),
	})
	s.logger.Debug("waiting for conflict resolution", zap.String("prompt_id", id))

	select {
	case answer, ok := <-ch:
		if !ok || answer == "" {
			return "", transfer.ErrDismissed
		}
		return transfer.ParseResolution(answer)
	case <-ctx.Done():
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
		return "", ctx.Err()
	}
}

// Reporter returns a transfer.Reporter that forwards failures as notice
// events.
func (s *Server) Reporter() transfer.Reporter {
	return transfer.ReporterFunc(func(o transfer.Outcome) {
		s.Emit(Event{
			Event:   EventNotice,
			Level:   "error",
			Message: fmt.Sprintf("Could not transfer %s: %v", filepath.Base(o.Source), o.Err),
			Path:    o.Source,
		})
	})
}
