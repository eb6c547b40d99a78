package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lapazlabs/centavo/internal/model"
)

// SaveTransactions inserts transactions, skipping duplicates by hash.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (id, hash, date, description, category, amount)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range txns {
		t := &txns[i]
		if err := t.Validate(); err != nil {
			return fmt.Errorf("invalid transaction %q: %w", t.ID, err)
		}
		id := t.ID
		if id == "" {
			id = uuid.NewString()
		}
		hash := t.Hash
		if hash == "" {
			hash = t.GenerateHash()
		}
		if _, err := stmt.ExecContext(ctx, id, hash, t.Day(), t.Description, t.Category, t.Amount); err != nil {
			return fmt.Errorf("failed to insert transaction %q: %w", id, err)
		}
	}

	return tx.Commit()
}

// GetTransactions returns transactions in the optional [from, to] window,
// oldest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, from, to *time.Time) ([]model.Transaction, error) {
	query := `SELECT id, hash, date, description, COALESCE(category, ''), amount FROM transactions`
	var args []any
	switch {
	case from != nil && to != nil:
		query += ` WHERE date >= ? AND date <= ?`
		args = append(args, *from, *to)
	case from != nil:
		query += ` WHERE date >= ?`
		args = append(args, *from)
	case to != nil:
		query += ` WHERE date <= ?`
		args = append(args, *to)
	}
	query += ` ORDER BY date ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetLabeledTransactions returns transactions with a non-empty category,
// the classifier's training set.
func (s *SQLiteStorage) GetLabeledTransactions(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hash, date, description, category, amount
		FROM transactions
		WHERE category IS NOT NULL AND category != ''
		ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query labeled transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.Hash, &t.Date, &t.Description, &t.Category, &t.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

// SavePrediction stores one classification result.
func (s *SQLiteStorage) SavePrediction(ctx context.Context, rec *PredictionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	alternatives, err := json.Marshal(rec.Alternatives)
	if err != nil {
		return fmt.Errorf("failed to encode alternatives: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO predictions (id, input_text, category, confidence, alternatives, model_version)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.InputText, rec.Category, rec.Confidence, string(alternatives), rec.ModelVersion)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}
	return nil
}

// GetRecentPredictions returns the newest predictions, newest first.
func (s *SQLiteStorage) GetRecentPredictions(ctx context.Context, limit int) ([]PredictionRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, input_text, category, confidence, COALESCE(alternatives, '[]'), COALESCE(model_version, ''), created_at
		FROM predictions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []PredictionRecord
	for rows.Next() {
		var rec PredictionRecord
		var alternatives string
		if err := rows.Scan(&rec.ID, &rec.InputText, &rec.Category, &rec.Confidence,
			&alternatives, &rec.ModelVersion, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		if err := json.Unmarshal([]byte(alternatives), &rec.Alternatives); err != nil {
			return nil, fmt.Errorf("failed to decode alternatives for %s: %w", rec.ID, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// SaveForecasts stores a batch of daily forecast points.
func (s *SQLiteStorage) SaveForecasts(ctx context.Context, recs []ForecastRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO forecasts (id, date, category, predicted_amount, lower_bound, upper_bound, confidence, model_kind)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range recs {
		rec := &recs[i]
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Date, rec.Category,
			rec.PredictedAmount, rec.LowerBound, rec.UpperBound, rec.Confidence, rec.ModelKind); err != nil {
			return fmt.Errorf("failed to insert forecast: %w", err)
		}
	}
	return tx.Commit()
}

// GetRecentForecasts returns the newest stored forecast points.
func (s *SQLiteStorage) GetRecentForecasts(ctx context.Context, limit int) ([]ForecastRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, COALESCE(category, ''), predicted_amount, lower_bound, upper_bound, confidence, COALESCE(model_kind, ''), created_at
		FROM forecasts ORDER BY created_at DESC, date ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecasts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []ForecastRecord
	for rows.Next() {
		var rec ForecastRecord
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.Category, &rec.PredictedAmount,
			&rec.LowerBound, &rec.UpperBound, &rec.Confidence, &rec.ModelKind, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan forecast: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// SavePatternAnalysis stores one pattern analysis result.
func (s *SQLiteStorage) SavePatternAnalysis(ctx context.Context, rec *PatternRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	patterns, err := json.Marshal(rec.Patterns)
	if err != nil {
		return fmt.Errorf("failed to encode patterns: %w", err)
	}
	insights, err := json.Marshal(rec.Insights)
	if err != nil {
		return fmt.Errorf("failed to encode insights: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pattern_analyses (id, pattern_type, stability_score, unusual_days, patterns, insights)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.PatternType, rec.StabilityScore, rec.UnusualDays, string(patterns), string(insights))
	if err != nil {
		return fmt.Errorf("failed to insert pattern analysis: %w", err)
	}
	return nil
}

// GetRecentPatternAnalyses returns the newest analyses, newest first.
func (s *SQLiteStorage) GetRecentPatternAnalyses(ctx context.Context, limit int) ([]PatternRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pattern_type, stability_score, unusual_days, COALESCE(patterns, '[]'), COALESCE(insights, '[]'), created_at
		FROM pattern_analyses ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pattern analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []PatternRecord
	for rows.Next() {
		var rec PatternRecord
		var patterns, insights string
		if err := rows.Scan(&rec.ID, &rec.PatternType, &rec.StabilityScore, &rec.UnusualDays,
			&patterns, &insights, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pattern analysis: %w", err)
		}
		if err := json.Unmarshal([]byte(patterns), &rec.Patterns); err != nil {
			return nil, fmt.Errorf("failed to decode patterns for %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(insights), &rec.Insights); err != nil {
			return nil, fmt.Errorf("failed to decode insights for %s: %w", rec.ID, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
