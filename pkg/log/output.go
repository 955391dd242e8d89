package log

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
)

// ConsoleOutput writes formatted entries to stderr (or a custom writer).
type ConsoleOutput struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleOutput returns an output writing to stderr.
func NewConsoleOutput() *ConsoleOutput {
	return &ConsoleOutput{w: os.Stderr}
}

// NewWriterOutput returns an output writing to w.
func NewWriterOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{w: w}
}

func (o *ConsoleOutput) Write(_ *Entry, formatted []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := o.w.Write(formatted)
	return err
}

func (o *ConsoleOutput) Close() error { return nil }

// RedirectStdLog routes the standard library's default logger (used by Pebble
// among others) through the provided Logger at info level.
func RedirectStdLog(logger Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(stdLogBridge{logger})
}

type stdLogBridge struct {
	logger Logger
}

func (b stdLogBridge) Write(p []byte) (int, error) {
	b.logger.Info(strings.TrimRight(string(p), "\n"), Str("source", "stdlog"))
	return len(p), nil
}
