// Package storage persists transactions and model results in SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lapazlabs/centavo/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the service.Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance at dbPath,
// creating the parent directory when needed.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath must not be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// PredictionRecord is a persisted classification result.
type PredictionRecord struct {
	CreatedAt    time.Time
	ID           string
	InputText    string
	Category     string
	ModelVersion string
	Alternatives model.Prediction
	Confidence   float64
}

// ForecastRecord is one persisted daily forecast point.
type ForecastRecord struct {
	CreatedAt       time.Time
	Date            time.Time
	ID              string
	Category        string
	ModelKind       string
	PredictedAmount float64
	LowerBound      float64
	UpperBound      float64
	Confidence      float64
}

// PatternRecord is a persisted pattern analysis result.
type PatternRecord struct {
	CreatedAt      time.Time
	ID             string
	PatternType    string
	Patterns       []model.DetectedPattern
	Insights       []model.Insight
	StabilityScore float64
	UnusualDays    int
}
