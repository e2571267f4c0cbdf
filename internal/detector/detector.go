// Package detector scores transactions for fraud risk. Scoring is additive
// over independent heuristics (sender location, amount, receiver type,
// sender account name); a transaction at or above the threshold is flagged.
package detector

import (
	"math"
	"strings"

	"github.com/raysh454/fraudwatch/internal/model"
)

// Heuristic weights. The sum is clamped at MaxScore.
const (
	weightLocation = 35
	weightHighAmt  = 25
	weightVeryHigh = 40
	weightReceiver = 30
	weightSender   = 30

	// MaxScore caps the reported risk score.
	MaxScore = 100

	highAmount     = 5000
	veryHighAmount = 10000
)

var (
	suspiciousLocationWords = []string{"unknown", "suspicious", "vpn", "proxy"}
	suspiciousReceiverWords = []string{"offshore", "crypto", "unknown", "anonymous"}
	suspiciousSenderWords   = []string{"suspicious", "anonymous"}
)

// NoPatternReason is returned as the single reason for a clean transaction.
const NoPatternReason = "No suspicious patterns"

// Human-facing reason strings produced by Score, in the order heuristics run.
const (
	reasonLocation = "Unauthorized location"
	reasonVeryHigh = "Very high amount"
	reasonHigh     = "High amount"
	reasonReceiver = "Suspicious receiver"
	reasonSender   = "Suspicious sender"
)

// Score assesses one transaction.
func Score(req model.CheckRequest) model.Assessment {
	score := 0
	var reasons []string

	if containsAny(req.SenderLocation, suspiciousLocationWords) {
		score += weightLocation
		reasons = append(reasons, reasonLocation)
	}

	switch {
	case req.Amount > veryHighAmount:
		score += weightVeryHigh
		reasons = append(reasons, reasonVeryHigh)
	case req.Amount > highAmount:
		score += weightHighAmt
		reasons = append(reasons, reasonHigh)
	}

	if containsAny(req.ReceiverName, suspiciousReceiverWords) {
		score += weightReceiver
		reasons = append(reasons, reasonReceiver)
	}

	if containsAny(req.SenderName, suspiciousSenderWords) {
		score += weightSender
		reasons = append(reasons, reasonSender)
	}

	if score > MaxScore {
		score = MaxScore
	}
	isFraud := score >= model.HighRiskThreshold

	if len(reasons) == 0 {
		reasons = []string{NoPatternReason}
	}

	status := model.StatusLegitimate
	if isFraud {
		status = model.StatusSpam
	}

	return model.Assessment{
		IsFraud:   isFraud,
		Status:    status,
		RiskScore: score,
		Reasons:   reasons,
	}
}

// CanonicalReason maps a fraud assessment onto the persisted reason
// vocabulary (model.Reason*), keyed by the dominant (first) reason. Stored
// rows must use one spelling per pattern or filters and aggregations split.
func CanonicalReason(a model.Assessment) string {
	if !a.IsFraud || len(a.Reasons) == 0 {
		return ""
	}
	switch a.Reasons[0] {
	case reasonLocation:
		return model.ReasonLocation
	case reasonVeryHigh, reasonHigh:
		return model.ReasonAmount
	default:
		return model.ReasonAccount
	}
}

func containsAny(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// earthRadiusKM is the mean Earth radius used by Haversine.
const earthRadiusKM = 6371

// Haversine returns the great-circle distance in kilometers between two
// coordinates given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	lat1, lon1, lat2, lon2 = rad(lat1), rad(lon1), rad(lat2), rad(lon2)

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}
