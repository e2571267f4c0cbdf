package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/raysh454/fraudwatch/internal/model"
	"github.com/raysh454/fraudwatch/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "store.db"), &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mkTxn(id string, amount float64, fraud bool, reason string, score int) model.Transaction {
	return model.Transaction{
		ID:             id,
		Timestamp:      time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		SenderName:     "John Smith",
		SenderLocation: "New York",
		SenderCountry:  "USA",
		ReceiverName:   "Walmart",
		Amount:         amount,
		IsFraud:        fraud,
		FraudReason:    reason,
		RiskScore:      score,
	}
}

func TestInsertAndGet(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	want := mkTxn("TXN00001", 123.45, true, "High Amount Transfer", 70)
	if err := s.Insert(ctx, want); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := s.Get(ctx, "TXN00001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != want.ID || got.Amount != want.Amount ||
		got.IsFraud != want.IsFraud || got.FraudReason != want.FraudReason ||
		got.RiskScore != want.RiskScore {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, want.Timestamp)
	}
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "TXN99999")
	if !errors.Is(err, ErrTxnNotFound) {
		t.Errorf("Get error = %v, want ErrTxnNotFound", err)
	}
}

func TestInsertBatch_SkipsDuplicates(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	batch := []model.Transaction{
		mkTxn("TXN00001", 10, false, "", 0),
		mkTxn("TXN00002", 20, false, "", 0),
		mkTxn("TXN00001", 30, false, "", 0), // dup
	}
	n, err := s.InsertBatch(ctx, batch)
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted %d rows, want 2", n)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
}

func TestList_Filters(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	seed := []model.Transaction{
		mkTxn("TXN00001", 100, false, "", 10),
		mkTxn("TXN00002", 9000, true, "High Amount Transfer", 65),
		mkTxn("TXN00003", 500, true, "Unauthorized Location", 55),
		mkTxn("TXN00004", 50, false, "", 60), // high risk but not flagged
	}
	if _, err := s.InsertBatch(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cases := []struct {
		filter  model.TxnFilter
		wantIDs map[string]bool
	}{
		{model.FilterAll, map[string]bool{"TXN00001": true, "TXN00002": true, "TXN00003": true, "TXN00004": true}},
		{model.FilterFraud, map[string]bool{"TXN00002": true, "TXN00003": true}},
		{model.FilterLegitimate, map[string]bool{"TXN00001": true, "TXN00004": true}},
		{model.FilterHighRisk, map[string]bool{"TXN00002": true, "TXN00003": true, "TXN00004": true}},
		{model.FilterLocation, map[string]bool{"TXN00003": true}},
	}
	for _, c := range cases {
		got, err := s.List(ctx, c.filter, "", 0)
		if err != nil {
			t.Fatalf("List(%s): %v", c.filter, err)
		}
		if len(got) != len(c.wantIDs) {
			t.Errorf("List(%s) returned %d rows, want %d", c.filter, len(got), len(c.wantIDs))
			continue
		}
		for _, tx := range got {
			if !c.wantIDs[tx.ID] {
				t.Errorf("List(%s) returned unexpected %s", c.filter, tx.ID)
			}
		}
	}
}

func TestList_UnknownFilter(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if _, err := s.List(context.Background(), model.TxnFilter("bogus"), "", 0); err == nil {
		t.Error("expected error for unknown filter")
	}
}

func TestList_Search(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	a := mkTxn("TXN00001", 100, false, "", 0)
	a.SenderName = "Maria Rodriguez"
	b := mkTxn("TXN00002", 200, false, "", 0)
	b.ReceiverName = "Crypto Exchange"
	if _, err := s.InsertBatch(ctx, []model.Transaction{a, b}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := s.List(ctx, model.FilterAll, "rodriguez", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "TXN00001" {
		t.Errorf("search by sender = %v", got)
	}

	got, err = s.List(ctx, model.FilterAll, "Crypto", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "TXN00002" {
		t.Errorf("search by receiver = %v", got)
	}
}

func TestList_OrderAndLimit(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"TXN00001", "TXN00002", "TXN00003"} {
		tx := mkTxn(id, 10, false, "", 0)
		tx.Timestamp = base.Add(time.Duration(i) * time.Hour)
		if err := s.Insert(ctx, tx); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := s.List(ctx, model.FilterAll, "", 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit ignored, got %d rows", len(got))
	}
	if got[0].ID != "TXN00003" || got[1].ID != "TXN00002" {
		t.Errorf("order = [%s %s], want newest first", got[0].ID, got[1].ID)
	}
}

func TestSuspiciousAccounts(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	a1 := mkTxn("TXN00001", 1000, true, model.ReasonLocation, 60)
	a1.SenderName = "Anonymous_User_123"
	a1.SenderLocation = "Unknown Location"
	a2 := mkTxn("TXN00002", 3000, true, model.ReasonLocation, 80)
	a2.SenderName = "Anonymous_User_123"
	a2.SenderLocation = "Suspicious IP"
	b := mkTxn("TXN00003", 20000, true, model.ReasonAmount, 75)
	b.SenderName = "Suspicious_Account_X"
	clean := mkTxn("TXN00004", 50, false, "", 5)

	if _, err := s.InsertBatch(ctx, []model.Transaction{a1, a2, b, clean}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := s.SuspiciousAccounts(ctx)
	if err != nil {
		t.Fatalf("SuspiciousAccounts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("returned %d accounts, want 2", len(got))
	}

	top := got[0]
	if top.SenderName != "Anonymous_User_123" {
		t.Fatalf("top account = %q, want most flagged sender first", top.SenderName)
	}
	if top.FraudCount != 2 {
		t.Errorf("FraudCount = %d, want 2", top.FraudCount)
	}
	if top.TotalAmount != 4000 || top.AvgAmount != 2000 {
		t.Errorf("amounts = %v / %v, want 4000 / 2000", top.TotalAmount, top.AvgAmount)
	}
	if top.AvgRiskScore != 70 {
		t.Errorf("AvgRiskScore = %v, want 70", top.AvgRiskScore)
	}
	if top.Locations["Unknown Location"] != 1 || top.Locations["Suspicious IP"] != 1 {
		t.Errorf("Locations = %v", top.Locations)
	}
	if top.FraudReasons[model.ReasonLocation] != 2 {
		t.Errorf("FraudReasons = %v", top.FraudReasons)
	}

	if got[1].SenderName != "Suspicious_Account_X" || got[1].FraudCount != 1 {
		t.Errorf("second account = %+v", got[1])
	}
}

func TestLocationStats(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	seed := []model.Transaction{
		mkTxn("TXN00001", 100, false, "", 10),
		mkTxn("TXN00002", 200, false, "", 15),
	}
	risky1 := mkTxn("TXN00003", 1000, true, model.ReasonLocation, 70)
	risky1.SenderLocation = "Unknown Location"
	risky2 := mkTxn("TXN00004", 500, false, "", 30)
	risky2.SenderLocation = "Unknown Location"
	seed = append(seed, risky1, risky2)

	if _, err := s.InsertBatch(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := s.LocationStats(ctx)
	if err != nil {
		t.Fatalf("LocationStats: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("returned %d locations, want 2", len(got))
	}

	top := got[0]
	if top.Location != "Unknown Location" {
		t.Fatalf("top location = %q, want highest fraud rate first", top.Location)
	}
	if top.TotalTxns != 2 || top.FraudTxns != 1 {
		t.Errorf("counts = %d / %d, want 2 / 1", top.TotalTxns, top.FraudTxns)
	}
	if top.FraudRate != 50 {
		t.Errorf("FraudRate = %v, want 50", top.FraudRate)
	}
	if top.TotalAmount != 1500 {
		t.Errorf("TotalAmount = %v, want 1500", top.TotalAmount)
	}
	if top.AvgRiskScore != 50 {
		t.Errorf("AvgRiskScore = %v, want 50", top.AvgRiskScore)
	}

	if got[1].Location != "New York" || got[1].FraudRate != 0 {
		t.Errorf("second location = %+v", got[1])
	}
}

func TestUnauthorizedTransactions(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	unknown := mkTxn("TXN00001", 1000, true, model.ReasonLocation, 70)
	unknown.SenderLocation = "Unknown Location"
	proxy := mkTxn("TXN00002", 250, false, "", 40)
	proxy.SenderLocation = "Suspicious IP"
	clean := mkTxn("TXN00003", 50, false, "", 5)

	if _, err := s.InsertBatch(ctx, []model.Transaction{unknown, proxy, clean}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := s.UnauthorizedTransactions(ctx)
	if err != nil {
		t.Fatalf("UnauthorizedTransactions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("returned %d rows, want 2", len(got))
	}
	for _, tx := range got {
		if tx.SenderLocation != "Unknown Location" && tx.SenderLocation != "Suspicious IP" {
			t.Errorf("%s has attributable location %q", tx.ID, tx.SenderLocation)
		}
	}
}

func TestStats(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	seed := []model.Transaction{
		mkTxn("TXN00001", 100.10, false, "", 0),
		mkTxn("TXN00002", 200.20, true, "High Amount Transfer", 70),
		mkTxn("TXN00003", 300.30, false, "", 0),
	}
	if _, err := s.InsertBatch(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	snap, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if snap.TotalTransactions != 3 {
		t.Errorf("TotalTransactions = %d, want 3", snap.TotalTransactions)
	}
	if snap.FraudCount != 1 {
		t.Errorf("FraudCount = %d, want 1", snap.FraudCount)
	}
	if snap.FraudRate != 33.33 {
		t.Errorf("FraudRate = %v, want 33.33", snap.FraudRate)
	}
	if snap.TotalAmount != 600.60 {
		t.Errorf("TotalAmount = %v, want 600.60", snap.TotalAmount)
	}
	if snap.FraudAmount != 200.20 {
		t.Errorf("FraudAmount = %v, want 200.20", snap.FraudAmount)
	}
}

func TestStats_Empty(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	snap, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if snap.TotalTransactions != 0 || snap.FraudRate != 0 || snap.TotalAmount != 0 {
		t.Errorf("empty store stats = %+v, want zeros", snap)
	}
}
