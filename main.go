// Command fraudwatch runs the dashboard watcher: it polls the fraud API's
// stats endpoint on an interval and keeps the page's stat surfaces current,
// logging every rendered update as JSON lines.
// Usage: go run . [-config watch.yaml] [-endpoint URL] [-page /dashboard]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raysh454/fraudwatch/internal/logging"
	"github.com/raysh454/fraudwatch/internal/watch"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	endpoint := flag.String("endpoint", "", "fraud API base URL (overrides config)")
	page := flag.String("page", "", "page path hosting the dashboard (overrides config)")
	interval := flag.Int("interval", 0, "polling interval in seconds (overrides config)")
	flag.Parse()

	cfg, err := watch.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}
	if *page != "" {
		cfg.PagePath = *page
	}
	if *interval > 0 {
		cfg.IntervalSeconds = *interval
	}

	logger := logging.NewStdoutLogger("watcher")
	cfg.Logger = logger

	controller, err := watch.NewController(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !controller.Run(ctx) {
		logger.Info("page is not a dashboard, nothing to watch",
			logging.Field{Key: "page", Value: cfg.PagePath})
		return
	}

	for id, text := range controller.Surfaces().Snapshot() {
		logger.Info("final surface value",
			logging.Field{Key: "surface", Value: id},
			logging.Field{Key: "value", Value: text})
	}
}
