package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatsSnapshot is the statistics value returned by one successful poll of
// the stats endpoint. Each snapshot supersedes the previous one wholesale;
// nothing merges and no history is kept.
type StatsSnapshot struct {
	TotalTransactions int64   `json:"total_transactions"`
	FraudCount        int64   `json:"fraud_count"`
	FraudRate         float64 `json:"fraud_rate"` // percentage, already scaled 0-100
	TotalAmount       float64 `json:"total_amount"`
	FraudAmount       float64 `json:"fraud_amount"`
}

// DecodeStatsSnapshot parses and validates a stats response body. All fields
// except fraud_amount are required; a body missing any of them is rejected
// rather than letting zero values flow into formatting.
func DecodeStatsSnapshot(data []byte) (*StatsSnapshot, error) {
	var wire struct {
		TotalTransactions *int64   `json:"total_transactions"`
		FraudCount        *int64   `json:"fraud_count"`
		FraudRate         *float64 `json:"fraud_rate"`
		TotalAmount       *float64 `json:"total_amount"`
		FraudAmount       *float64 `json:"fraud_amount"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode stats snapshot: %w", err)
	}

	var missing []string
	if wire.TotalTransactions == nil {
		missing = append(missing, "total_transactions")
	}
	if wire.FraudCount == nil {
		missing = append(missing, "fraud_count")
	}
	if wire.FraudRate == nil {
		missing = append(missing, "fraud_rate")
	}
	if wire.TotalAmount == nil {
		missing = append(missing, "total_amount")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("stats snapshot missing required fields: %s", strings.Join(missing, ", "))
	}

	snap := &StatsSnapshot{
		TotalTransactions: *wire.TotalTransactions,
		FraudCount:        *wire.FraudCount,
		FraudRate:         *wire.FraudRate,
		TotalAmount:       *wire.TotalAmount,
	}
	if wire.FraudAmount != nil {
		snap.FraudAmount = *wire.FraudAmount
	}
	return snap, nil
}
