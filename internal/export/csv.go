// Package export renders transaction sets for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/raysh454/fraudwatch/internal/model"
)

// csvHeader matches the wire field names so an exported file round-trips
// against the JSON API without renaming.
var csvHeader = []string{
	"transaction_id", "timestamp",
	"sender_name", "sender_location", "sender_country",
	"receiver_name", "receiver_location",
	"amount", "distance_km", "is_fraud", "fraud_reason", "risk_score",
}

// WriteCSV streams transactions as CSV with a header row.
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range txns {
		rec := []string{
			tx.ID,
			tx.Timestamp.Format(model.TimestampLayout),
			tx.SenderName,
			tx.SenderLocation,
			tx.SenderCountry,
			tx.ReceiverName,
			tx.ReceiverLocation,
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			strconv.FormatFloat(tx.DistanceKM, 'f', 2, 64),
			strconv.FormatBool(tx.IsFraud),
			tx.FraudReason,
			strconv.Itoa(tx.RiskScore),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %s: %w", tx.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
