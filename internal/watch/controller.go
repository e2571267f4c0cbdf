// Package watch assembles the dashboard watcher: the API client, the stat
// surfaces, the toast channel and the poller, owned together so the whole
// cycle can be started and torn down as one unit.
package watch

import (
	"context"
	"fmt"

	"github.com/raysh454/fraudwatch/internal/apiclient"
	"github.com/raysh454/fraudwatch/internal/interfaces"
	"github.com/raysh454/fraudwatch/internal/logging"
	"github.com/raysh454/fraudwatch/internal/model"
	"github.com/raysh454/fraudwatch/internal/notify"
	"github.com/raysh454/fraudwatch/internal/poller"
	"github.com/raysh454/fraudwatch/internal/render"
)

// Controller owns one page's watcher stack.
type Controller struct {
	cfg      Config
	client   *apiclient.Client
	surfaces *render.Registry
	notifier interfaces.Notifier
	poller   *poller.Poller
	logger   logging.Logger
}

// NewController builds the full stack for the configured page. The surfaces
// registry starts with all four stat surfaces registered; callers fronting a
// page without some of them can Remove those ids before Start.
func NewController(cfg Config) (*Controller, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("watcher")
	}

	client, err := apiclient.New(cfg.Endpoint, logger, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api client: %w", err)
	}

	surfaces := render.NewRegistry(
		poller.SurfaceTotal,
		poller.SurfaceAmount,
		poller.SurfaceFraud,
		poller.SurfaceRate,
	)

	notifier := notify.NewLogNotifier(logger)
	p := poller.New(poller.Config{
		PagePath: cfg.PagePath,
		Marker:   cfg.Marker,
		Interval: cfg.Interval(),
		Fetcher:  client,
		Surfaces: surfaces,
		Notifier: notifier,
		Logger:   logger.With(logging.Field{Key: "component", Value: "poller"}),
	})

	return &Controller{
		cfg:      cfg,
		client:   client,
		surfaces: surfaces,
		notifier: notifier,
		poller:   p,
		logger:   logger,
	}, nil
}

// Surfaces exposes the stat surfaces for inspection.
func (c *Controller) Surfaces() *render.Registry { return c.surfaces }

// Start begins polling and reports whether the page activated.
func (c *Controller) Start() bool { return c.poller.Start() }

// Stop tears the poller down and releases the client.
func (c *Controller) Stop() {
	c.poller.Stop()
	if err := c.client.Close(); err != nil {
		c.logger.Warn("closing api client", logging.Field{Key: "error", Value: err.Error()})
	}
}

// Run starts the watcher and blocks until ctx is canceled, then stops it.
// Returns false without blocking when the page does not activate.
func (c *Controller) Run(ctx context.Context) bool {
	if !c.Start() {
		return false
	}
	<-ctx.Done()
	c.Stop()
	return true
}

// CheckTransaction submits one transaction for scoring through the owned
// client and toasts the verdict.
func (c *Controller) CheckTransaction(ctx context.Context, req model.CheckRequest) (*model.Assessment, error) {
	assessment, err := c.client.CheckTransaction(ctx, req)
	if err != nil {
		c.notifier.Notify(interfaces.SeverityError, err.Error())
		return nil, err
	}

	if assessment.IsFraud {
		c.notifier.Notify(interfaces.SeverityWarning,
			fmt.Sprintf("transaction flagged: %s (score %d)", assessment.Status, assessment.RiskScore))
	} else {
		c.notifier.Notify(interfaces.SeveritySuccess,
			fmt.Sprintf("transaction clear (score %d)", assessment.RiskScore))
	}
	return assessment, nil
}
