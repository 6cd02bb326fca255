package clipboard

import "sync"

// Memory is an in-process Board for tests and one-shot commands that do not
// share a clipboard with anyone.
type Memory struct {
	mu     sync.Mutex
	intent *Intent
	text   string
}

// HasFiles implements Board.
func (m *Memory) HasFiles() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.intent != nil && len(m.intent.Paths) > 0
}

// ReadIntent implements Board.
func (m *Memory) ReadIntent() (*Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.intent == nil || len(m.intent.Paths) == 0 {
		return nil, ErrEmpty
	}
	cp := *m.intent
	cp.Paths = append([]string(nil), m.intent.Paths...)
	return &cp, nil
}

// WriteIntent implements Board.
func (m *Memory) WriteIntent(in *Intent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *in
	cp.Paths = append([]string(nil), in.Paths...)
	m.intent, m.text = &cp, ""
	return nil
}

// WriteText implements Board.
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intent, m.text = nil, text
	return nil
}

// Text returns the text slot.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Clear implements Board.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intent, m.text = nil, ""
	return nil
}
