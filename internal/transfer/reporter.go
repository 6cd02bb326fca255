package transfer

import (
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"
)

// Reporter receives per-file failures as they happen. Implementations must
// not block: the batch continues after the call.
type Reporter interface {
	Failed(o Outcome)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(o Outcome)

// Failed implements Reporter.
func (f ReporterFunc) Failed(o Outcome) { f(o) }

// LogReporter logs failures.
type LogReporter struct {
	Logger *zap.Logger
}

// Failed implements Reporter.
func (r LogReporter) Failed(o Outcome) {
	if r.Logger == nil {
		return
	}
	r.Logger.Warn("transfer failed",
		zap.String("source", o.Source),
		zap.String("destination", o.Destination),
		zap.Error(o.Err))
}

// WriterReporter prints one line per failure.
type WriterReporter struct {
	W io.Writer
}

// Failed implements Reporter.
func (r WriterReporter) Failed(o Outcome) {
	fmt.Fprintf(r.W, "could not transfer %s: %v\n", filepath.Base(o.Source), o.Err)
}

// Reporters fans a failure out to several reporters.
type Reporters []Reporter

// Failed implements Reporter.
func (rs Reporters) Failed(o Outcome) {
	for _, r := range rs {
		r.Failed(o)
	}
}
