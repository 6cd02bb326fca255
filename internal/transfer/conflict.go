package transfer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rightmenu-labs/rightmenu/internal/clipboard"
)

// Resolution is the user's answer to a name collision.
type Resolution string

// Collision resolutions.
const (
	Replace  Resolution = "replace"
	Skip     Resolution = "skip"
	KeepBoth Resolution = "keep-both"
)

// ErrDismissed is returned by prompters when the user closed the prompt
// without choosing.
var ErrDismissed = errors.New("conflict prompt dismissed")

// ParseResolution accepts replace, skip and keep-both (also keepBoth and
// keep_both).
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.NewReplacer("_", "-", " ", "-").Replace(strings.TrimSpace(s))) {
	case "replace":
		return Replace, nil
	case "skip":
		return Skip, nil
	case "keep-both", "keepboth":
		return KeepBoth, nil
	}
	return "", fmt.Errorf("unknown conflict resolution %q (want replace, skip or keep-both)", s)
}

// Conflict describes the first collision of a batch.
type Conflict struct {
	Source      string         `json:"source"`
	Destination string         `json:"destination"`
	Mode        clipboard.Mode `json:"mode"`
}

// Prompter asks how to resolve a collision. It may block until the user
// answers.
type Prompter interface {
	Resolve(ctx context.Context, c Conflict) (Resolution, error)
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(ctx context.Context, c Conflict) (Resolution, error)

// Resolve implements Prompter.
func (f PromptFunc) Resolve(ctx context.Context, c Conflict) (Resolution, error) {
	return f(ctx, c)
}

// FixedPrompter answers every prompt with the same resolution.
type FixedPrompter struct {
	Resolution Resolution
}

// Resolve implements Prompter.
func (p FixedPrompter) Resolve(context.Context, Conflict) (Resolution, error) {
	return p.Resolution, nil
}

var resolutionChoices = []struct {
	label string
	value Resolution
}{
	{"Replace", Replace},
	{"Skip", Skip},
	{"Keep both", KeepBoth},
}

// TerminalPrompter presents a numbered menu on Out and reads the choice
// from In.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer

	once   sync.Once
	reader *bufio.Reader
}

// Resolve implements Prompter.
func (p *TerminalPrompter) Resolve(ctx context.Context, c Conflict) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.once.Do(func() { p.reader = bufio.NewReader(p.In) })

	labels := make([]string, len(resolutionChoices))
	for i, ch := range resolutionChoices {
		labels[i] = ch.label
	}
	prompt := fmt.Sprintf("%q already exists in %s. What should happen?",
		filepath.Base(c.Destination), filepath.Dir(c.Destination))

	idx, err := selectFromList(p.reader, p.Out, prompt, labels)
	if err != nil {
		return "", err
	}
	return resolutionChoices[idx].value, nil
}

// selectFromList presents a numbered list and returns the selected index.
// End of input or an empty answer counts as a dismissal.
func selectFromList(reader *bufio.Reader, w io.Writer, prompt string, items []string) (int, error) {
	fmt.Fprintf(w, "\n%s\n", prompt)
	for i, item := range items {
		fmt.Fprintf(w, "  %d) %s\n", i+1, item)
	}
	fmt.Fprintf(w, "Enter number [1-%d]: ", len(items))

	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("reading selection: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, ErrDismissed
	}

	num, err := strconv.Atoi(line)
	if err != nil || num < 1 || num > len(items) {
		return 0, fmt.Errorf("invalid selection %q: choose 1-%d", line, len(items))
	}
	return num - 1, nil
}
