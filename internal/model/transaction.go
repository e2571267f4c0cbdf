package model

import "time"

// TimestampLayout is the wire and CSV format for transaction timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Transaction is a single card transaction with its fraud assessment.
type Transaction struct {
	ID               string    `json:"transaction_id"`
	Timestamp        time.Time `json:"timestamp"`
	SenderName       string    `json:"sender_name"`
	SenderLocation   string    `json:"sender_location"`
	SenderCountry    string    `json:"sender_country"`
	ReceiverName     string    `json:"receiver_name"`
	ReceiverLocation string    `json:"receiver_location"`
	Amount           float64   `json:"amount"`
	DistanceKM       float64   `json:"distance_km"`
	IsFraud          bool      `json:"is_fraud"`
	FraudReason      string    `json:"fraud_reason,omitempty"`
	RiskScore        int       `json:"risk_score"`
}

// TxnFilter selects a subset of transactions when listing.
type TxnFilter string

const (
	FilterAll        TxnFilter = "all"
	FilterFraud      TxnFilter = "fraud"
	FilterLegitimate TxnFilter = "legitimate"
	FilterHighRisk   TxnFilter = "high_risk"
	FilterLocation   TxnFilter = "location" // fraud flagged for unauthorized location
)

// HighRiskThreshold is the risk score at or above which a transaction is
// considered high risk (and, for a fresh assessment, fraudulent).
const HighRiskThreshold = 50

// Canonical fraud reasons persisted on fraudulent transactions. Every writer
// (sample generation, fresh assessments) must use these spellings; the
// location filter matches ReasonLocation exactly.
const (
	ReasonLocation = "Unauthorized Location"
	ReasonAmount   = "High Amount Transfer"
	ReasonVelocity = "Multiple Rapid Transactions"
	ReasonAccount  = "Suspicious Account Behavior"
)
