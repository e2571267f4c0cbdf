package detector

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/raysh454/fraudwatch/internal/model"
)

// knownLocation carries coordinates for distance computation between sample
// transaction endpoints.
type knownLocation struct {
	lat, lon float64
	country  string
}

// knownLocations is the fixed geography the sample generator draws from.
// The first entries are "clean" cities; the last two mark unattributable
// origins. Order matters: slices below index into locationNames.
var knownLocations = map[string]knownLocation{
	"New York":         {40.7128, -74.0060, "USA"},
	"Los Angeles":      {34.0522, -118.2437, "USA"},
	"Chicago":          {41.8781, -87.6298, "USA"},
	"Houston":          {29.7604, -95.3698, "USA"},
	"Mumbai":           {19.0760, 72.8777, "India"},
	"Delhi":            {28.7041, 77.1025, "India"},
	"London":           {51.5074, -0.1278, "UK"},
	"Tokyo":            {35.6762, 139.6503, "Japan"},
	"Sydney":           {33.8688, 151.2093, "Australia"},
	"Dubai":            {25.2048, 55.2708, "UAE"},
	"Unknown Location": {0, 0, "Unknown"},
	"Suspicious IP":    {0, 0, "VPN/Proxy"},
}

var locationNames = []string{
	"New York", "Los Angeles", "Chicago", "Houston",
	"Mumbai", "Delhi", "London", "Tokyo", "Sydney", "Dubai",
	"Unknown Location", "Suspicious IP",
}

var sampleAccounts = []string{
	"John Smith", "Sarah Johnson", "Mike Wilson", "Emily Davis",
	"Robert Brown", "Lisa Anderson", "David Martinez", "Jennifer Taylor",
	"James Garcia", "Maria Rodriguez", "Suspicious_Account_X", "Anonymous_User_123",
}

var sampleReceivers = []string{
	"Amazon Store", "Walmart", "Local Restaurant", "Gas Station",
	"Online Shopping", "Utility Company", "Unknown Merchant",
	"Offshore Account", "Crypto Exchange", "Gaming Platform",
}

// SampleConfig controls the sample data generator.
type SampleConfig struct {
	// Count is how many transactions to generate.
	Count int

	// FraudShare is the probability a generated transaction is fraudulent.
	FraudShare float64

	// Seed makes generation reproducible.
	Seed int64
}

// DefaultSampleConfig matches the original demo dataset: 200 transactions
// at a 20% fraud rate, fixed seed for consistent sample data.
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{Count: 200, FraudShare: 0.20, Seed: 42}
}

// SampleTransactions generates a demo transaction set with planted fraud
// patterns across four types: unauthorized location, high-amount transfer,
// rapid velocity, and suspicious account behavior.
func SampleTransactions(cfg SampleConfig) []model.Transaction {
	if cfg.Count <= 0 {
		cfg.Count = DefaultSampleConfig().Count
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	now := time.Now()

	txns := make([]model.Transaction, 0, cfg.Count)
	for i := 1; i <= cfg.Count; i++ {
		isFraud := rng.Float64() < cfg.FraudShare

		sender := pick(rng, sampleAccounts)
		receiver := pick(rng, sampleReceivers)
		var senderLoc, receiverLoc, reason string
		var amount float64

		if isFraud {
			switch rng.Intn(4) {
			case 0: // location
				senderLoc = pick(rng, []string{"Unknown Location", "Suspicious IP"})
				receiverLoc = pick(rng, locationNames[:6])
				amount = uniform(rng, 100, 5000)
				reason = model.ReasonLocation
			case 1: // amount
				senderLoc = pick(rng, locationNames[:8])
				receiverLoc = pick(rng, []string{"Offshore Account", "Crypto Exchange"})
				amount = uniform(rng, 5000, 50000)
				reason = model.ReasonAmount
			case 2: // velocity
				senderLoc = pick(rng, locationNames[:8])
				receiverLoc = pick(rng, locationNames[:8])
				amount = uniform(rng, 500, 2000)
				reason = model.ReasonVelocity
			default: // account
				sender = pick(rng, []string{"Suspicious_Account_X", "Anonymous_User_123"})
				senderLoc = pick(rng, locationNames)
				receiverLoc = pick(rng, []string{"Unknown Merchant", "Offshore Account"})
				amount = uniform(rng, 1000, 10000)
				reason = model.ReasonAccount
			}
		} else {
			senderLoc = pick(rng, locationNames[:8])
			receiverLoc = pick(rng, locationNames[:8])
			amount = uniform(rng, 10, 2000)
		}

		distance := KnownDistance(senderLoc, receiverLoc)
		ts := now.Add(-time.Duration(rng.Intn(31))*24*time.Hour -
			time.Duration(rng.Intn(24))*time.Hour)

		txns = append(txns, model.Transaction{
			ID:               fmt.Sprintf("TXN%05d", i),
			Timestamp:        ts.Truncate(time.Second),
			SenderName:       sender,
			SenderLocation:   senderLoc,
			SenderCountry:    knownLocations[senderLoc].country,
			ReceiverName:     receiver,
			ReceiverLocation: receiverLoc,
			Amount:           round2(amount),
			DistanceKM:       round2(distance),
			IsFraud:          isFraud,
			FraudReason:      reason,
			RiskScore:        sampleRiskScore(rng, amount, distance, senderLoc, sender),
		})
	}
	return txns
}

// KnownDistance returns the distance in km between two named sample
// locations, falling back to New York for receivers outside the geography
// (merchants and platforms have no coordinates of their own).
func KnownDistance(from, to string) float64 {
	a, ok := knownLocations[from]
	if !ok {
		a = knownLocations["New York"]
	}
	b, ok := knownLocations[to]
	if !ok {
		b = knownLocations["New York"]
	}
	return Haversine(a.lat, a.lon, b.lat, b.lon)
}

// sampleRiskScore grades a generated transaction. Unlike Score it folds in
// distance and a little noise so the demo dataset isn't perfectly clustered.
func sampleRiskScore(rng *rand.Rand, amount, distance float64, location, sender string) int {
	score := 0

	switch {
	case amount > 10000:
		score += 40
	case amount > 5000:
		score += 25
	case amount > 2000:
		score += 10
	}

	if location == "Unknown Location" || location == "Suspicious IP" {
		score += 35
	}

	// Rapid international transfer
	if distance > 5000 {
		score += 15
	}

	if containsAny(sender, suspiciousSenderWords) {
		score += 30
	}

	score += rng.Intn(16) - 5

	if score < 0 {
		score = 0
	}
	if score > MaxScore {
		score = MaxScore
	}
	return score
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
