// Package engine wires the three models together behind one service.
// It owns the model instances, enforces the train/predict exclusion
// contract with per-model locks, and persists results to storage.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lapazlabs/centavo/internal/analyzer"
	"github.com/lapazlabs/centavo/internal/classifier"
	"github.com/lapazlabs/centavo/internal/forecaster"
	"github.com/lapazlabs/centavo/internal/model"
	"github.com/lapazlabs/centavo/internal/service"
	"github.com/lapazlabs/centavo/internal/storage"
)

// Each model satisfies the shared lifecycle contract.
var (
	_ service.TrainableModel = (*classifier.Classifier)(nil)
	_ service.TrainableModel = (*forecaster.Forecaster)(nil)
	_ service.TrainableModel = (*analyzer.Analyzer)(nil)
)

// Config holds configuration options for the insight engine.
type Config struct {
	ModelVersion string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{ModelVersion: "v1"}
}

// InsightEngine owns one long-lived instance of each model and mediates
// all access to them. Inference methods take a read lock on the relevant
// model; training methods take the write lock, so a train never runs
// concurrently with another train or a predict on the same model.
type InsightEngine struct {
	storage    service.Storage
	classifier *classifier.Classifier
	forecaster *forecaster.Forecaster
	analyzer   *analyzer.Analyzer

	classifierMu sync.RWMutex
	forecasterMu sync.RWMutex
	analyzerMu   sync.RWMutex

	modelVersion string
}

// New creates an insight engine with the given dependencies.
func New(store service.Storage, cls *classifier.Classifier, fc *forecaster.Forecaster, an *analyzer.Analyzer) *InsightEngine {
	return NewWithConfig(store, cls, fc, an, DefaultConfig())
}

// NewWithConfig creates an insight engine with custom configuration.
func NewWithConfig(store service.Storage, cls *classifier.Classifier, fc *forecaster.Forecaster, an *analyzer.Analyzer, cfg Config) *InsightEngine {
	return &InsightEngine{
		storage:      store,
		classifier:   cls,
		forecaster:   fc,
		analyzer:     an,
		modelVersion: cfg.ModelVersion,
	}
}

// TrainClassifier trains the classifier on the given labeled examples.
func (e *InsightEngine) TrainClassifier(ctx context.Context, txns []model.Transaction) (*model.TrainingReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.classifierMu.Lock()
	defer e.classifierMu.Unlock()
	return e.classifier.Train(txns)
}

// TrainForecaster trains the forecaster on the given transactions.
func (e *InsightEngine) TrainForecaster(ctx context.Context, txns []model.Transaction) (*model.TrainingReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.forecasterMu.Lock()
	defer e.forecasterMu.Unlock()
	return e.forecaster.Train(txns)
}

// TrainAnalyzer trains the pattern analyzer on the given transactions.
func (e *InsightEngine) TrainAnalyzer(ctx context.Context, txns []model.Transaction, epochs int) (*model.TrainingReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.analyzerMu.Lock()
	defer e.analyzerMu.Unlock()
	return e.analyzer.Train(txns, epochs)
}

// Classify predicts categories for a description and records the result.
// A storage failure is logged, not surfaced; the prediction stands.
func (e *InsightEngine) Classify(ctx context.Context, text string, topK int) (model.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.classifierMu.RLock()
	pred, err := e.classifier.Predict(text, topK)
	e.classifierMu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	top := pred.Top()
	rec := &storage.PredictionRecord{
		InputText:    text,
		Category:     top.Category,
		Confidence:   top.Confidence,
		Alternatives: pred.TopN(len(pred))[1:],
		ModelVersion: e.modelVersion,
	}
	if err := e.storage.SavePrediction(ctx, rec); err != nil {
		slog.Error("Failed to record prediction", "error", err)
	}

	return pred, nil
}

// Forecast predicts daily expenses and records the forecast points.
func (e *InsightEngine) Forecast(ctx context.Context, daysAhead int, category string) ([]model.ForecastPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.forecasterMu.RLock()
	points, err := e.forecaster.Predict(daysAhead, category)
	kind := e.forecaster.ModelKind()
	e.forecasterMu.RUnlock()
	if err != nil {
		return nil, err
	}

	recs := make([]storage.ForecastRecord, len(points))
	for i, p := range points {
		recs[i] = storage.ForecastRecord{
			Date:            p.Date,
			Category:        p.Category,
			PredictedAmount: p.PredictedAmount,
			LowerBound:      p.LowerBound,
			UpperBound:      p.UpperBound,
			Confidence:      p.Confidence,
			ModelKind:       string(kind),
		}
	}
	if err := e.storage.SaveForecasts(ctx, recs); err != nil {
		slog.Error("Failed to record forecasts", "error", err)
	}

	return points, nil
}

// ForecastByMonth aggregates the daily forecast into calendar months.
func (e *InsightEngine) ForecastByMonth(ctx context.Context, months int) ([]model.MonthlyForecast, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.forecasterMu.RLock()
	defer e.forecasterMu.RUnlock()
	return e.forecaster.ForecastByMonth(months)
}

// AnalyzePatterns runs the pattern analyzer and records the result.
func (e *InsightEngine) AnalyzePatterns(ctx context.Context, txns []model.Transaction) (*model.PatternAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.analyzerMu.RLock()
	analysis, err := e.analyzer.AnalyzePatterns(txns)
	e.analyzerMu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("pattern analysis failed: %w", err)
	}

	rec := &storage.PatternRecord{
		PatternType:    string(analysis.PatternType),
		Patterns:       analysis.Patterns,
		Insights:       analysis.Insights,
		StabilityScore: analysis.StabilityScore,
		UnusualDays:    analysis.UnusualDays,
	}
	if err := e.storage.SavePatternAnalysis(ctx, rec); err != nil {
		slog.Error("Failed to record pattern analysis", "error", err)
	}

	return analysis, nil
}

// Status reports which models currently hold a trained state.
func (e *InsightEngine) Status() map[string]bool {
	e.classifierMu.RLock()
	cls := e.classifier.IsTrained()
	e.classifierMu.RUnlock()

	e.forecasterMu.RLock()
	fc := e.forecaster.IsTrained()
	e.forecasterMu.RUnlock()

	e.analyzerMu.RLock()
	an := e.analyzer.IsTrained()
	e.analyzerMu.RUnlock()

	return map[string]bool{
		classifier.Kind: cls,
		forecaster.Kind: fc,
		analyzer.Kind:   an,
	}
}
