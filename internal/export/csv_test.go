package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/fraudwatch/internal/model"
)

func TestWriteCSV(t *testing.T) {
	t.Parallel()
	txns := []model.Transaction{
		{
			ID:             "TXN00001",
			Timestamp:      time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC),
			SenderName:     "John Smith",
			SenderLocation: "New York",
			SenderCountry:  "USA",
			ReceiverName:   "Walmart",
			Amount:         120.5,
			DistanceKM:     0,
			RiskScore:      5,
		},
		{
			ID:             "TXN00002",
			Timestamp:      time.Date(2026, 8, 21, 14, 0, 0, 0, time.UTC),
			SenderName:     "Anonymous_User_123",
			SenderLocation: "Suspicious IP",
			ReceiverName:   "Offshore Account",
			Amount:         9999.999,
			IsFraud:        true,
			FraudReason:    "High Amount Transfer",
			RiskScore:      85,
		},
	}

	var sb strings.Builder
	if err := WriteCSV(&sb, txns); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}

	if records[0][0] != "transaction_id" || records[0][1] != "timestamp" {
		t.Errorf("unexpected header %v", records[0])
	}

	row := records[1]
	if row[0] != "TXN00001" || row[1] != "2026-08-20 09:30:00" {
		t.Errorf("row 1 id/timestamp = %v", row[:2])
	}
	if row[7] != "120.50" {
		t.Errorf("amount = %q, want 120.50", row[7])
	}
	if row[9] != "false" || row[10] != "" {
		t.Errorf("fraud columns = %q %q", row[9], row[10])
	}

	row = records[2]
	if row[7] != "10000.00" {
		t.Errorf("rounded amount = %q, want 10000.00", row[7])
	}
	if row[9] != "true" || row[10] != "High Amount Transfer" || row[11] != "85" {
		t.Errorf("fraud columns = %v", row[9:])
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	t.Parallel()
	var sb strings.Builder
	if err := WriteCSV(&sb, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("empty export should have only the header, got %d lines", len(lines))
	}
}
