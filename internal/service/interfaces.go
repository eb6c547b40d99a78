// Package service defines the interfaces between the insight engine and
// its collaborators.
package service

import (
	"context"
	"time"

	"github.com/lapazlabs/centavo/internal/model"
	"github.com/lapazlabs/centavo/internal/storage"
)

// Storage persists transactions and model results.
type Storage interface {
	// Transactions.
	SaveTransactions(ctx context.Context, txns []model.Transaction) error
	GetTransactions(ctx context.Context, from, to *time.Time) ([]model.Transaction, error)
	GetLabeledTransactions(ctx context.Context) ([]model.Transaction, error)

	// Result records.
	SavePrediction(ctx context.Context, rec *storage.PredictionRecord) error
	GetRecentPredictions(ctx context.Context, limit int) ([]storage.PredictionRecord, error)
	SaveForecasts(ctx context.Context, recs []storage.ForecastRecord) error
	GetRecentForecasts(ctx context.Context, limit int) ([]storage.ForecastRecord, error)
	SavePatternAnalysis(ctx context.Context, rec *storage.PatternRecord) error
	GetRecentPatternAnalyses(ctx context.Context, limit int) ([]storage.PatternRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}

// TrainableModel is the lifecycle contract every model shares.
type TrainableModel interface {
	IsTrained() bool
	Save() error
	Load() (bool, error)
}
