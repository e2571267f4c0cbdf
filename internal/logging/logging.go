package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/raysh454/fraudwatch/internal/interfaces"
)

// Re-export the shared logging types so callers can depend on this package
// alone for the common case.
type (
	Logger = interfaces.Logger
	Field  = interfaces.Field
)

// StdoutLogger is a small structured logger that prints JSON lines. It
// implements interfaces.Logger and is the default logger for both the
// watcher and the demo server.
type StdoutLogger struct {
	component string

	mu  *sync.Mutex
	out io.Writer
}

// NewStdoutLogger creates a StdoutLogger. component is optional and is
// carried as a persistent field on every line and on With() children.
func NewStdoutLogger(component string) *StdoutLogger {
	return &StdoutLogger{
		component: component,
		mu:        &sync.Mutex{},
		out:       os.Stdout,
	}
}

// NewWriterLogger creates a StdoutLogger that writes to w instead of stdout.
// Useful in tests and for redirecting the watcher's own log stream.
func NewWriterLogger(component string, w io.Writer) *StdoutLogger {
	return &StdoutLogger{
		component: component,
		mu:        &sync.Mutex{},
		out:       w,
	}
}

func (s *StdoutLogger) log(level string, msg string, fields ...Field) {
	type outEntry struct {
		Level     string         `json:"level"`
		Msg       string         `json:"msg"`
		Component string         `json:"component,omitempty"`
		Time      string         `json:"time"`
		Fields    map[string]any `json:"fields,omitempty"`
	}
	m := make(map[string]any)
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	entry := outEntry{
		Level:     level,
		Msg:       msg,
		Component: s.component,
		Time:      time.Now().UTC().Format(time.RFC3339),
		Fields:    m,
	}
	enc, err := json.Marshal(entry)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Fallback simple formatting if JSON marshal fails
		fmt.Fprintf(s.out, "%s %s %v\n", level, msg, m)
		return
	}
	fmt.Fprintln(s.out, string(enc))
}

func (s *StdoutLogger) Debug(msg string, fields ...Field) {
	s.log("debug", msg, fields...)
}

func (s *StdoutLogger) Info(msg string, fields ...Field) {
	s.log("info", msg, fields...)
}

func (s *StdoutLogger) Warn(msg string, fields ...Field) {
	s.log("warn", msg, fields...)
}

func (s *StdoutLogger) Error(msg string, fields ...Field) {
	s.log("error", msg, fields...)
}

// With returns a child logger sharing the same writer. If fields include a
// "component" key its value replaces the child's component name.
func (s *StdoutLogger) With(fields ...Field) Logger {
	child := &StdoutLogger{component: s.component, mu: s.mu, out: s.out}
	for _, f := range fields {
		if f.Key == "component" {
			if str, ok := f.Value.(string); ok {
				child.component = str
			}
		}
	}
	return child
}
