// Package store persists transactions in SQLite and answers the aggregate
// queries the dashboard needs.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/raysh454/fraudwatch/internal/logging"
	"github.com/raysh454/fraudwatch/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

var (
	ErrTxnNotFound   = errors.New("transaction not found")
	ErrUnknownFilter = errors.New("unknown filter")
)

// Store wraps the transaction database.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (creating if needed) the SQLite database at path and applies
// the schema.
func Open(path string, logger logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// New wraps an already opened database and applies the schema.
func New(db *sql.DB, logger logging.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if err := applySchema(db); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores one transaction.
func (s *Store) Insert(ctx context.Context, tx model.Transaction) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO transactions
		(id, ts, sender_name, sender_location, sender_country, receiver_name, receiver_location, amount, distance_km, is_fraud, fraud_reason, risk_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Timestamp.Format(model.TimestampLayout),
		tx.SenderName, tx.SenderLocation, tx.SenderCountry,
		tx.ReceiverName, tx.ReceiverLocation,
		tx.Amount, tx.DistanceKM, boolToInt(tx.IsFraud), tx.FraudReason, tx.RiskScore,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// InsertBatch stores transactions in a single transaction, skipping
// duplicates by id. Returns the number of rows actually inserted.
func (s *Store) InsertBatch(ctx context.Context, txns []model.Transaction) (int, error) {
	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if rerr := dbtx.Rollback(); rerr != nil && rerr != sql.ErrTxDone {
			if s.logger != nil {
				s.logger.Warn("store: tx rollback failed",
					logging.Field{Key: "error", Value: rerr})
			}
		}
	}()

	stmt, err := dbtx.PrepareContext(ctx, `INSERT OR IGNORE INTO transactions
		(id, ts, sender_name, sender_location, sender_country, receiver_name, receiver_location, amount, distance_km, is_fraud, fraud_reason, risk_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, tx := range txns {
		res, err := stmt.ExecContext(ctx,
			tx.ID, tx.Timestamp.Format(model.TimestampLayout),
			tx.SenderName, tx.SenderLocation, tx.SenderCountry,
			tx.ReceiverName, tx.ReceiverLocation,
			tx.Amount, tx.DistanceKM, boolToInt(tx.IsFraud), tx.FraudReason, tx.RiskScore,
		)
		if err != nil {
			return 0, err
		}
		ra, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if ra > 0 {
			inserted++
		}
	}

	if err := dbtx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// Count returns the number of stored transactions.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

const selectColumns = `id, ts, sender_name, sender_location, sender_country, receiver_name, receiver_location, amount, distance_km, is_fraud, fraud_reason, risk_score`

// Get returns the transaction with the given id, or ErrTxnNotFound.
func (s *Store) Get(ctx context.Context, id string) (*model.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM transactions WHERE id = ? LIMIT 1`, id)
	tx, err := scanTxn(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTxnNotFound
		}
		return nil, err
	}
	return tx, nil
}

// List returns transactions newest first. The filter narrows the result set
// and search matches id, sender, receiver and location as a substring.
// limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, filter model.TxnFilter, search string, limit int) ([]model.Transaction, error) {
	var where []string
	var args []any

	switch filter {
	case "", model.FilterAll:
	case model.FilterFraud:
		where = append(where, "is_fraud = 1")
	case model.FilterLegitimate:
		where = append(where, "is_fraud = 0")
	case model.FilterHighRisk:
		where = append(where, "risk_score >= ?")
		args = append(args, model.HighRiskThreshold)
	case model.FilterLocation:
		where = append(where, "is_fraud = 1 AND fraud_reason = ?")
		args = append(args, model.ReasonLocation)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
	}

	if search != "" {
		where = append(where,
			"(id LIKE ? OR sender_name LIKE ? OR receiver_name LIKE ? OR sender_location LIKE ?)")
		pat := "%" + search + "%"
		args = append(args, pat, pat, pat, pat)
	}

	q := `SELECT ` + selectColumns + ` FROM transactions`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY ts DESC, id DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Transaction{}
	for rows.Next() {
		tx, err := scanTxn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *tx)
	}
	return out, rows.Err()
}

// Stats aggregates the stored transactions into a snapshot. Rates and
// amounts are rounded to two decimals.
func (s *Store) Stats(ctx context.Context) (*model.StatsSnapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT
		COUNT(*),
		COALESCE(SUM(is_fraud), 0),
		COALESCE(SUM(amount), 0),
		COALESCE(SUM(CASE WHEN is_fraud = 1 THEN amount ELSE 0 END), 0)
		FROM transactions`)

	var snap model.StatsSnapshot
	if err := row.Scan(&snap.TotalTransactions, &snap.FraudCount,
		&snap.TotalAmount, &snap.FraudAmount); err != nil {
		return nil, err
	}

	if snap.TotalTransactions > 0 {
		snap.FraudRate = float64(snap.FraudCount) / float64(snap.TotalTransactions) * 100
	}
	snap.FraudRate = round2(snap.FraudRate)
	snap.TotalAmount = round2(snap.TotalAmount)
	snap.FraudAmount = round2(snap.FraudAmount)
	return &snap, nil
}

// AccountStat summarizes one sender's fraudulent activity: how often it was
// flagged, the money involved, and breakdowns by origin and reason.
type AccountStat struct {
	SenderName   string           `json:"sender_name"`
	FraudCount   int64            `json:"fraud_count"`
	TotalAmount  float64          `json:"total_amount"`
	AvgAmount    float64          `json:"avg_amount"`
	AvgRiskScore float64          `json:"avg_risk_score"`
	Locations    map[string]int64 `json:"locations"`
	FraudReasons map[string]int64 `json:"fraud_reasons"`
}

// SuspiciousAccounts groups fraudulent transactions by sender name, most
// flagged first. Amounts are rounded to two decimals, the average risk
// score to one.
func (s *Store) SuspiciousAccounts(ctx context.Context) ([]AccountStat, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		sender_name, COUNT(*), SUM(amount), AVG(amount), AVG(risk_score)
		FROM transactions WHERE is_fraud = 1
		GROUP BY sender_name
		ORDER BY COUNT(*) DESC, sender_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []AccountStat{}
	byName := map[string]int{}
	for rows.Next() {
		var a AccountStat
		if err := rows.Scan(&a.SenderName, &a.FraudCount,
			&a.TotalAmount, &a.AvgAmount, &a.AvgRiskScore); err != nil {
			return nil, err
		}
		a.TotalAmount = round2(a.TotalAmount)
		a.AvgAmount = round2(a.AvgAmount)
		a.AvgRiskScore = round1(a.AvgRiskScore)
		a.Locations = map[string]int64{}
		a.FraudReasons = map[string]int64{}
		byName[a.SenderName] = len(accounts)
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	fill := func(query string, dest func(*AccountStat) map[string]int64) error {
		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var name, key string
			var n int64
			if err := rows.Scan(&name, &key, &n); err != nil {
				return err
			}
			if i, ok := byName[name]; ok {
				dest(&accounts[i])[key] = n
			}
		}
		return rows.Err()
	}

	if err := fill(`SELECT sender_name, sender_location, COUNT(*)
		FROM transactions WHERE is_fraud = 1
		GROUP BY sender_name, sender_location`,
		func(a *AccountStat) map[string]int64 { return a.Locations }); err != nil {
		return nil, err
	}
	if err := fill(`SELECT sender_name, fraud_reason, COUNT(*)
		FROM transactions WHERE is_fraud = 1
		GROUP BY sender_name, fraud_reason`,
		func(a *AccountStat) map[string]int64 { return a.FraudReasons }); err != nil {
		return nil, err
	}
	return accounts, nil
}

// LocationStat aggregates all transactions originating from one location.
type LocationStat struct {
	Location     string  `json:"sender_location"`
	TotalTxns    int64   `json:"total_transactions"`
	FraudTxns    int64   `json:"fraud_transactions"`
	TotalAmount  float64 `json:"total_amount"`
	AvgRiskScore float64 `json:"avg_risk_score"`
	FraudRate    float64 `json:"fraud_rate"` // percentage, 0-100
}

// LocationStats groups every transaction by sender location, riskiest
// (highest fraud rate) first.
func (s *Store) LocationStats(ctx context.Context) ([]LocationStat, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		sender_location, COUNT(*), COALESCE(SUM(is_fraud), 0),
		SUM(amount), AVG(risk_score)
		FROM transactions
		GROUP BY sender_location
		ORDER BY CAST(COALESCE(SUM(is_fraud), 0) AS REAL) / COUNT(*) DESC, sender_location`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LocationStat{}
	for rows.Next() {
		var l LocationStat
		if err := rows.Scan(&l.Location, &l.TotalTxns, &l.FraudTxns,
			&l.TotalAmount, &l.AvgRiskScore); err != nil {
			return nil, err
		}
		l.TotalAmount = round2(l.TotalAmount)
		l.AvgRiskScore = round1(l.AvgRiskScore)
		if l.TotalTxns > 0 {
			l.FraudRate = round2(float64(l.FraudTxns) / float64(l.TotalTxns) * 100)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UnauthorizedTransactions returns every transaction originating from an
// unattributable location, newest first.
func (s *Store) UnauthorizedTransactions(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM transactions
		WHERE sender_location IN ('Unknown Location', 'Suspicious IP')
		ORDER BY ts DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Transaction{}
	for rows.Next() {
		tx, err := scanTxn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *tx)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTxn(row scanner) (*model.Transaction, error) {
	var tx model.Transaction
	var ts string
	var isFraud int
	var reason sql.NullString
	if err := row.Scan(&tx.ID, &ts, &tx.SenderName, &tx.SenderLocation,
		&tx.SenderCountry, &tx.ReceiverName, &tx.ReceiverLocation,
		&tx.Amount, &tx.DistanceKM, &isFraud, &reason, &tx.RiskScore); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(model.TimestampLayout, ts)
	if err != nil {
		return nil, fmt.Errorf("parse stored timestamp %q: %w", ts, err)
	}
	tx.Timestamp = parsed
	tx.IsFraud = isFraud != 0
	tx.FraudReason = reason.String
	return &tx, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
