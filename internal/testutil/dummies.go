// Package testutil provides shared test doubles for use across package
// tests. All dummies implement the corresponding interfaces from the
// production code, allowing injection into components under test without
// real I/O or side effects.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/raysh454/fraudwatch/internal/interfaces"
	"github.com/raysh454/fraudwatch/internal/logging"
	"github.com/raysh454/fraudwatch/internal/model"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// WarnCount returns the number of recorded warnings.
func (l *DummyLogger) WarnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Warns)
}

// ─── Notifier ──────────────────────────────────────────────────────────

// Toast is one recorded notification.
type Toast struct {
	Severity interfaces.Severity
	Message  string
}

// DummyNotifier implements interfaces.Notifier with in-memory recording.
type DummyNotifier struct {
	mu     sync.Mutex
	Toasts []Toast
}

func (n *DummyNotifier) Notify(severity interfaces.Severity, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Toasts = append(n.Toasts, Toast{Severity: severity, Message: message})
}

// All returns a copy of the recorded toasts.
func (n *DummyNotifier) All() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Toast(nil), n.Toasts...)
}

// ─── StatsFetcher ──────────────────────────────────────────────────────

// StubStatsFetcher implements poller.StatsFetcher. It returns Snap until
// Err is set; ResponseDelay simulates a slow poll.
type StubStatsFetcher struct {
	Snap          *model.StatsSnapshot
	Err           error
	ResponseDelay time.Duration

	mu    sync.Mutex
	calls int
}

func (f *StubStatsFetcher) Stats(ctx context.Context) (*model.StatsSnapshot, error) {
	f.mu.Lock()
	f.calls++
	err := f.Err
	snap := f.Snap
	f.mu.Unlock()

	if f.ResponseDelay > 0 {
		select {
		case <-time.After(f.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return &model.StatsSnapshot{}, nil
	}
	cp := *snap
	return &cp, nil
}

// Calls returns the number of Stats invocations so far.
func (f *StubStatsFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// SetErr swaps the stub's error under lock, for mid-test failure injection.
func (f *StubStatsFetcher) SetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Err = err
}

// ─── Sequenced fetcher ─────────────────────────────────────────────────

// SeqStatsFetcher returns each configured result once, in order, then
// repeats the last one. Entries with Err set fail that call.
type SeqStatsFetcher struct {
	Results []SeqResult

	mu    sync.Mutex
	calls int
}

type SeqResult struct {
	Snap *model.StatsSnapshot
	Err  error
}

func (f *SeqStatsFetcher) Stats(ctx context.Context) (*model.StatsSnapshot, error) {
	f.mu.Lock()
	i := f.calls
	f.calls++
	f.mu.Unlock()

	if len(f.Results) == 0 {
		return &model.StatsSnapshot{}, nil
	}
	if i >= len(f.Results) {
		i = len(f.Results) - 1
	}
	r := f.Results[i]
	if r.Err != nil {
		return nil, r.Err
	}
	cp := *r.Snap
	return &cp, nil
}

func (f *SeqStatsFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
