// Command demoserver starts the FraudWatch demo API: sample transaction
// data, the stats endpoint the watcher polls, and a live dashboard page.
// Usage: go run ./cmd/demoserver [-config file.yaml] [-addr :8080]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/raysh454/fraudwatch/internal/server"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	fmt.Println("===========================================")
	fmt.Println("   FraudWatch Demo Server")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /api/stats                 aggregate fraud statistics")
	fmt.Println("  POST /api/check-transaction     score one transaction")
	fmt.Println("  GET  /api/transactions          list (filter/search/limit)")
	fmt.Println("  GET  /api/transactions/{id}     single transaction")
	fmt.Println("  GET  /api/transactions/export   CSV download")
	fmt.Println("  GET  /api/health                process health")
	fmt.Println("  GET  /dashboard                 live dashboard page")
	fmt.Println("  GET  /ws/stats                  WebSocket stats feed")
	fmt.Println()
	fmt.Printf("Listening on %s (db: %s)\n", cfg.ListenAddr, cfg.DBPath)

	s, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}
	defer s.Close()

	httpSrv := s.HTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
}
