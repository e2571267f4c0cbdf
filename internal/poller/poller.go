// Package poller implements the recurring stats poll-and-render cycle that
// keeps a dashboard's headline figures current. Each tick fetches one
// snapshot and overwrites the stat surfaces wholesale; a failed tick leaves
// the previous values in place and never disturbs the schedule.
package poller

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/raysh454/fraudwatch/internal/interfaces"
	"github.com/raysh454/fraudwatch/internal/logging"
	"github.com/raysh454/fraudwatch/internal/model"
	"github.com/raysh454/fraudwatch/internal/render"
)

// StatsFetcher provides validated stats snapshots. Keeps the poller
// decoupled from the concrete API client.
type StatsFetcher interface {
	Stats(ctx context.Context) (*model.StatsSnapshot, error)
}

const (
	// DefaultInterval is the wall-clock period between ticks.
	DefaultInterval = 30 * time.Second

	// DefaultMarker is the substring of the page path that activates the
	// poller. Pages without it have no stats surfaces to feed.
	DefaultMarker = "dashboard"
)

// The four stat surfaces a dashboard page may expose. Each one is optional;
// a page exposing only some of them gets partial rendering.
const (
	SurfaceTotal  = "stat-total"
	SurfaceAmount = "stat-amount"
	SurfaceFraud  = "stat-fraud"
	SurfaceRate   = "stat-rate"
)

// Config wires a Poller. Fetcher and Surfaces are required; the rest has
// working defaults.
type Config struct {
	// PagePath identifies the hosting page. The poller only activates when
	// it contains Marker.
	PagePath string

	// Marker overrides DefaultMarker when non-empty.
	Marker string

	// Interval overrides DefaultInterval when positive.
	Interval time.Duration

	Fetcher  StatsFetcher
	Surfaces interfaces.Surfaces

	// Notifier receives a toast for every failed tick. Optional.
	Notifier interfaces.Notifier

	Logger logging.Logger
}

// Poller is the handle for one page's recurring stats cycle. At most one
// cycle runs per Poller; Start is idempotent and Stop tears the cycle down
// deterministically so tests don't have to rely on page-unload behavior.
type Poller struct {
	cfg Config

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	inFlight atomic.Bool
	ticks    atomic.Int64
}

// New creates a Poller. It does not start polling.
func New(cfg Config) *Poller {
	if cfg.Marker == "" {
		cfg.Marker = DefaultMarker
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewStdoutLogger("poller")
	}
	return &Poller{cfg: cfg}
}

// Active reports whether the configured page should poll at all.
func (p *Poller) Active() bool {
	return strings.Contains(p.cfg.PagePath, p.cfg.Marker)
}

// Start begins the recurring cycle and reports whether it is running. On a
// page whose path lacks the activation marker Start does nothing and never
// touches the network. Calling Start on an already-running poller is a no-op.
func (p *Poller) Start() bool {
	if !p.Active() {
		p.cfg.Logger.Debug("poller not activated",
			logging.Field{Key: "page", Value: p.cfg.PagePath},
			logging.Field{Key: "marker", Value: p.cfg.Marker})
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return true
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(ctx, p.done)

	p.cfg.Logger.Info("poller started",
		logging.Field{Key: "page", Value: p.cfg.PagePath},
		logging.Field{Key: "interval", Value: p.cfg.Interval.String()})
	return true
}

// Stop ends the cycle and waits for any in-progress tick to finish. Safe to
// call on a poller that never started.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.cfg.Logger.Info("poller stopped")
}

// Running reports whether the cycle is currently scheduled.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// TickCount returns the number of completed tick attempts, successful or not.
func (p *Poller) TickCount() int64 { return p.ticks.Load() }

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Fill the surfaces right away rather than leaving them blank for a
	// whole interval.
	_ = p.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = p.Tick(ctx)
		}
	}
}

// Tick runs one poll-and-render cycle. Exported so tests (and one-shot CLI
// use) can drive the cycle without the schedule. Failures are logged and
// toasted but isolated: the returned error is informational and the next
// scheduled tick proceeds regardless. If a previous tick is still in flight
// the call is skipped so slow polls never stack.
func (p *Poller) Tick(ctx context.Context) error {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.cfg.Logger.Debug("tick skipped, previous poll still in flight")
		return nil
	}
	defer p.inFlight.Store(false)
	p.ticks.Add(1)

	snap, err := p.cfg.Fetcher.Stats(ctx)
	if err != nil {
		p.cfg.Logger.Warn("stats poll failed",
			logging.Field{Key: "error", Value: err.Error()})
		if p.cfg.Notifier != nil {
			p.cfg.Notifier.Notify(interfaces.SeverityError, err.Error())
		}
		return err
	}

	p.renderSnapshot(snap)
	return nil
}

// renderSnapshot overwrites the stat surfaces from a validated snapshot.
// A surface the page doesn't expose is skipped silently; the remaining
// fields still update.
func (p *Poller) renderSnapshot(snap *model.StatsSnapshot) {
	p.cfg.Surfaces.Set(SurfaceTotal, render.Count(snap.TotalTransactions))
	p.cfg.Surfaces.Set(SurfaceAmount, render.Currency(snap.TotalAmount))
	p.cfg.Surfaces.Set(SurfaceFraud, render.Count(snap.FraudCount))
	p.cfg.Surfaces.Set(SurfaceRate, render.Percent(snap.FraudRate))
}
