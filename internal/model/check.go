package model

// CheckRequest is the payload of a single-transaction fraud check.
// receiver_location is accepted but currently unused by scoring; it is kept
// so callers can round-trip the full form.
type CheckRequest struct {
	SenderName       string  `json:"sender_name"`
	SenderLocation   string  `json:"sender_location"`
	ReceiverName     string  `json:"receiver_name"`
	ReceiverLocation string  `json:"receiver_location,omitempty"`
	Amount           float64 `json:"amount"`
}

// Assessment is the outcome of scoring one transaction.
type Assessment struct {
	IsFraud   bool     `json:"is_fraud"`
	Status    string   `json:"status"` // "SPAM" or "LEGITIMATE"
	RiskScore int      `json:"risk_score"`
	Reasons   []string `json:"reasons"`
}

const (
	StatusSpam       = "SPAM"
	StatusLegitimate = "LEGITIMATE"
)
