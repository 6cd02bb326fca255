package host

import (
	"github.com/rightmenu-labs/rightmenu/internal/transfer"
)

// Ops understood by the server.
const (
	OpHello   = "hello"
	OpMenu    = "menu"
	OpAction  = "action"
	OpResolve = "resolve"
)

// Events emitted by the server.
const (
	EventPrompt = "prompt"
	EventNotice = "notice"
)

// Request is one line from the host.
type Request struct {
	ID        string   `json:"id"`
	Op        string   `json:"op"`
	Kind      string   `json:"kind,omitempty"`
	Action    string   `json:"action,omitempty"`
	Selection []string `json:"selection,omitempty"`
	Target    string   `json:"target,omitempty"`
	// PromptID and Resolution answer a prompt event. An empty resolution
	// means the prompt was dismissed.
	PromptID   string `json:"prompt_id,omitempty"`
	Resolution string `json:"resolution,omitempty"`
}

// Response answers a Request.
type Response struct {
	ID     string      `json:"id"`
	OK     bool        `json:"ok"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Event is an unsolicited message to the host.
type Event struct {
	Event    string                `json:"event"`
	PromptID string                `json:"prompt_id,omitempty"`
	Conflict *transfer.Conflict    `json:"conflict,omitempty"`
	Choices  []transfer.Resolution `json:"choices,omitempty"`
	Level    string                `json:"level,omitempty"`
	Message  string                `json:"message,omitempty"`
	Path     string                `json:"path,omitempty"`
}

// Hello is the result of the hello op.
type Hello struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	PID          int          `json:"pid"`
	Registration Registration `json:"registration"`
}
