package model

import (
	"strings"
	"testing"
)

func TestDecodeStatsSnapshot_Valid(t *testing.T) {
	t.Parallel()
	body := `{"total_transactions":200,"fraud_count":40,"fraud_rate":20.0,"total_amount":123456.78,"fraud_amount":6000.5}`
	snap, err := DecodeStatsSnapshot([]byte(body))
	if err != nil {
		t.Fatalf("DecodeStatsSnapshot: %v", err)
	}
	if snap.TotalTransactions != 200 || snap.FraudCount != 40 || snap.FraudRate != 20.0 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestDecodeStatsSnapshot_FraudAmountOptional(t *testing.T) {
	t.Parallel()
	body := `{"total_transactions":1,"fraud_count":0,"fraud_rate":0,"total_amount":10}`
	snap, err := DecodeStatsSnapshot([]byte(body))
	if err != nil {
		t.Fatalf("DecodeStatsSnapshot: %v", err)
	}
	if snap.FraudAmount != 0 {
		t.Errorf("FraudAmount = %v, want 0", snap.FraudAmount)
	}
}

func TestDecodeStatsSnapshot_MissingFields(t *testing.T) {
	t.Parallel()
	body := `{"fraud_count":40,"total_amount":10}`
	_, err := DecodeStatsSnapshot([]byte(body))
	if err == nil {
		t.Fatal("expected error for missing required fields")
	}
	for _, field := range []string{"total_transactions", "fraud_rate"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q should name missing field %s", err, field)
		}
	}
}

func TestDecodeStatsSnapshot_NotJSON(t *testing.T) {
	t.Parallel()
	if _, err := DecodeStatsSnapshot([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
