package watch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raysh454/fraudwatch/internal/model"
	"github.com/raysh454/fraudwatch/internal/poller"
	"github.com/raysh454/fraudwatch/internal/testutil"
)

func statsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_transactions":200,"fraud_count":40,"fraud_rate":20,"total_amount":1234.5,"fraud_amount":999}`))
	})
	return mux
}

func TestController_StartRendersSurfaces(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(statsHandler())
	defer ts.Close()

	cfg := DefaultConfig()
	cfg.Endpoint = ts.URL
	cfg.IntervalSeconds = 1
	cfg.Logger = &testutil.DummyLogger{}

	c, err := NewController(cfg)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if !c.Start() {
		t.Fatal("Start should activate on /dashboard")
	}
	defer c.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got, _ := c.Surfaces().Get(poller.SurfaceTotal); got == "200" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	want := map[string]string{
		poller.SurfaceTotal:  "200",
		poller.SurfaceAmount: "$1,234.50",
		poller.SurfaceFraud:  "40",
		poller.SurfaceRate:   "20.00%",
	}
	for id, wantText := range want {
		if got, _ := c.Surfaces().Get(id); got != wantText {
			t.Errorf("surface %s = %q, want %q", id, got, wantText)
		}
	}
}

func TestController_InactivePage(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.PagePath = "/settings"
	cfg.Logger = &testutil.DummyLogger{}

	c, err := NewController(cfg)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if c.Start() {
		t.Error("Start should not activate off the dashboard")
	}
	c.Stop()
}

func TestController_RunStopsOnCancel(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(statsHandler())
	defer ts.Close()

	cfg := DefaultConfig()
	cfg.Endpoint = ts.URL
	cfg.IntervalSeconds = 1
	cfg.Logger = &testutil.DummyLogger{}

	c, err := NewController(cfg)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() { done <- c.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case ran := <-done:
		if !ran {
			t.Error("Run reported inactive on the dashboard page")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestController_CheckTransaction(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/check-transaction", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"is_fraud":true,"status":"SPAM","risk_score":70,"reasons":["Very high amount","Suspicious receiver"]}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	cfg := DefaultConfig()
	cfg.Endpoint = ts.URL
	cfg.Logger = &testutil.DummyLogger{}

	c, err := NewController(cfg)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	defer c.Stop()

	assessment, err := c.CheckTransaction(context.Background(), model.CheckRequest{
		SenderName:     "Mike Wilson",
		SenderLocation: "Chicago",
		ReceiverName:   "Crypto Exchange",
		Amount:         15000,
	})
	if err != nil {
		t.Fatalf("CheckTransaction: %v", err)
	}
	if !assessment.IsFraud || assessment.Status != "SPAM" || assessment.RiskScore != 70 {
		t.Errorf("assessment = %+v", assessment)
	}
}

func TestController_CheckTransaction_FailureToasts(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/check-transaction", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"scoring unavailable"}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	logger := &testutil.DummyLogger{}
	cfg := DefaultConfig()
	cfg.Endpoint = ts.URL
	cfg.Logger = logger

	c, err := NewController(cfg)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	defer c.Stop()

	_, err = c.CheckTransaction(context.Background(), model.CheckRequest{
		SenderName:     "Mike Wilson",
		SenderLocation: "Chicago",
		ReceiverName:   "Walmart",
		Amount:         100,
	})
	if err == nil {
		t.Fatal("expected error from failed check")
	}

	toasted := false
	for _, msg := range logger.Errors {
		if msg == "scoring unavailable" {
			toasted = true
		}
	}
	if !toasted {
		t.Errorf("no error toast for failed check, Errors = %v", logger.Errors)
	}
}
