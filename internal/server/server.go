// Package server is the demo fraud-detection API: the JSON endpoints the
// watcher polls, a transaction browser, and a WebSocket stats feed.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/raysh454/fraudwatch/internal/detector"
	"github.com/raysh454/fraudwatch/internal/export"
	"github.com/raysh454/fraudwatch/internal/interfaces"
	"github.com/raysh454/fraudwatch/internal/logging"
	"github.com/raysh454/fraudwatch/internal/model"
	"github.com/raysh454/fraudwatch/internal/notify"
	"github.com/raysh454/fraudwatch/internal/render"
	"github.com/raysh454/fraudwatch/internal/store"
)

//go:embed dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "dashboard.html"))

// Server is the HTTP + WebSocket API surface.
type Server struct {
	cfg      Config
	store    *store.Store
	hub      *notify.Hub
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger

	stopPush chan struct{}
}

// NewServer opens the store, seeds it if empty, and wires the routes.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("opening transaction store: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		store:  st,
		hub:    notify.NewHub(logger),
		router: chi.NewRouter(),
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
		stopPush: make(chan struct{}),
	}

	if err := s.seed(); err != nil {
		st.Close()
		return nil, err
	}

	s.routes()
	go s.pushLoop()
	return s, nil
}

// seed fills an empty store with the generated sample set.
func (s *Server) seed() error {
	if s.cfg.SeedCount <= 0 {
		return nil
	}
	ctx := context.Background()
	n, err := s.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting transactions: %w", err)
	}
	if n > 0 {
		return nil
	}

	sampleCfg := detector.DefaultSampleConfig()
	sampleCfg.Count = s.cfg.SeedCount
	inserted, err := s.store.InsertBatch(ctx, detector.SampleTransactions(sampleCfg))
	if err != nil {
		return fmt.Errorf("seeding sample transactions: %w", err)
	}
	s.logger.Info("seeded sample transactions", logging.Field{Key: "count", Value: inserted})
	return nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	r.Options("/api/stats", s.optionsHandler("GET"))
	r.Options("/api/check-transaction", s.optionsHandler("POST"))
	r.Options("/api/transactions", s.optionsHandler("GET"))
	r.Options("/api/transactions/{id}", s.optionsHandler("GET"))

	r.Get("/api/stats", s.handleStats)
	r.Post("/api/check-transaction", s.handleCheckTransaction)
	r.Get("/api/transactions", s.handleListTransactions)
	r.Get("/api/transactions/export", s.handleExportTransactions)
	r.Get("/api/transactions/{id}", s.handleGetTransaction)
	r.Get("/api/suspicious-accounts", s.handleSuspiciousAccounts)
	r.Get("/api/location-analysis", s.handleLocationAnalysis)
	r.Get("/api/health", s.handleHealth)

	r.Get("/dashboard", s.handleDashboard)
	r.Get("/ws/stats", s.handleStatsWS)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("http_request",
		logging.Field{Key: "method", Value: r.Method},
		logging.Field{Key: "path", Value: r.URL.Path})
	s.router.ServeHTTP(w, r)
}

// Close stops the stats pusher and releases the store and hub.
func (s *Server) Close() {
	close(s.stopPush)
	s.hub.Close()
	if err := s.store.Close(); err != nil {
		s.logger.Warn("closing store", logging.Field{Key: "error", Value: err.Error()})
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- HTTP handlers ---

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Stats(r.Context())
	if err != nil {
		s.logger.Warn("computing stats", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCheckTransaction(w http.ResponseWriter, r *http.Request) {
	var req model.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.SenderName == "" || req.SenderLocation == "" || req.ReceiverName == "" || req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	assessment := detector.Score(req)

	tx := model.Transaction{
		ID:               "TXN-" + uuid.New().String()[:8],
		Timestamp:        time.Now().Truncate(time.Second),
		SenderName:       req.SenderName,
		SenderLocation:   req.SenderLocation,
		ReceiverName:     req.ReceiverName,
		ReceiverLocation: req.ReceiverLocation,
		Amount:           req.Amount,
		DistanceKM:       detector.KnownDistance(req.SenderLocation, req.ReceiverLocation),
		IsFraud:          assessment.IsFraud,
		RiskScore:        assessment.RiskScore,
	}
	tx.FraudReason = detector.CanonicalReason(assessment)
	if err := s.store.Insert(r.Context(), tx); err != nil {
		s.logger.Warn("recording checked transaction", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("checked transaction",
		logging.Field{Key: "transaction_id", Value: tx.ID},
		logging.Field{Key: "risk_score", Value: assessment.RiskScore},
		logging.Field{Key: "status", Value: assessment.Status})

	if assessment.IsFraud {
		s.hub.Notify(interfaces.SeverityWarning,
			fmt.Sprintf("Fraud detected: %s (score %d)", tx.ID, assessment.RiskScore))
	}
	s.pushStats(r.Context())

	writeJSON(w, http.StatusOK, struct {
		TransactionID string `json:"transaction_id"`
		model.Assessment
	}{TransactionID: tx.ID, Assessment: assessment})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := model.TxnFilter(r.URL.Query().Get("filter"))
	search := r.URL.Query().Get("search")

	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	txns, err := s.store.List(r.Context(), filter, search, limit)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrUnknownFilter) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tx, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrTxnNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	filter := model.TxnFilter(r.URL.Query().Get("filter"))
	search := r.URL.Query().Get("search")

	txns, err := s.store.List(r.Context(), filter, search, 0)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrUnknownFilter) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := export.WriteCSV(w, txns); err != nil {
		s.logger.Warn("streaming csv export", logging.Field{Key: "error", Value: err.Error()})
	}
}

func (s *Server) handleSuspiciousAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.SuspiciousAccounts(r.Context())
	if err != nil {
		s.logger.Warn("aggregating suspicious accounts", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleLocationAnalysis(w http.ResponseWriter, r *http.Request) {
	locations, err := s.store.LocationStats(r.Context())
	if err != nil {
		s.logger.Warn("aggregating locations", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	unauthorized, err := s.store.UnauthorizedTransactions(r.Context())
	if err != nil {
		s.logger.Warn("listing unauthorized transactions", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"locations":                 locations,
		"unauthorized_transactions": unauthorized,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":     "ok",
		"goroutines": runtime.NumGoroutine(),
		"ws_clients": s.hub.ClientCount(),
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resp["mem_used_percent"] = vm.UsedPercent
	} else {
		s.logger.Warn("reading memory stats", logging.Field{Key: "error", Value: err.Error()})
	}
	if up, err := host.Uptime(); err == nil {
		resp["host_uptime_seconds"] = up
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Total, Amount, Fraud, Rate string
	}{
		Total:  render.Count(snap.TotalTransactions),
		Amount: render.Currency(snap.TotalAmount),
		Fraud:  render.Count(snap.FraudCount),
		Rate:   render.Percent(snap.FraudRate),
	}
	if err := dashboardTmpl.Execute(w, data); err != nil {
		s.logger.Warn("rendering dashboard", logging.Field{Key: "error", Value: err.Error()})
	}
}

// --- WebSocket ---

func (s *Server) handleStatsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}

	client := s.hub.Add(conn)
	defer s.hub.Remove(client)

	s.pushStats(r.Context())

	// Drain the read side until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// statsPayload is what /ws/stats clients receive: the formatted strings the
// dashboard surfaces display.
type statsPayload struct {
	Total  string `json:"total"`
	Amount string `json:"amount"`
	Fraud  string `json:"fraud"`
	Rate   string `json:"rate"`
}

func (s *Server) pushStats(ctx context.Context) {
	snap, err := s.store.Stats(ctx)
	if err != nil {
		s.logger.Warn("pushing stats", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	s.hub.PushStats(statsPayload{
		Total:  render.Count(snap.TotalTransactions),
		Amount: render.Currency(snap.TotalAmount),
		Fraud:  render.Count(snap.FraudCount),
		Rate:   render.Percent(snap.FraudRate),
	})
}

func (s *Server) pushLoop() {
	ticker := time.NewTicker(s.cfg.PushInterval())
	defer ticker.Stop()
	for {
		select {
		case <-s.stopPush:
			return
		case <-ticker.C:
			if s.hub.ClientCount() == 0 {
				continue
			}
			s.pushStats(context.Background())
		}
	}
}
