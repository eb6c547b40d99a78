package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapazlabs/centavo/internal/model"
	"github.com/lapazlabs/centavo/internal/storage"
	"github.com/lapazlabs/centavo/internal/testutil"
)

func TestSaveAndGetTransactions(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	txns := testutil.LabeledTransactions()
	require.NoError(t, store.SaveTransactions(ctx, txns))

	got, err := store.GetTransactions(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, got, len(txns))

	// Oldest first.
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Date.Before(got[i-1].Date))
	}
}

func TestSaveTransactionsDeduplicates(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	txns := testutil.LabeledTransactions()
	require.NoError(t, store.SaveTransactions(ctx, txns))
	// Re-importing the same data is a no-op by content hash.
	require.NoError(t, store.SaveTransactions(ctx, txns))

	got, err := store.GetTransactions(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, got, len(txns))
}

func TestSaveTransactionsRejectsInvalid(t *testing.T) {
	store := testutil.SetupTestDB(t)

	bad := model.Transaction{Description: "no date", Amount: 10}
	err := store.SaveTransactions(context.Background(), []model.Transaction{bad})
	assert.Error(t, err)
}

func TestGetTransactionsWindow(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	txns := testutil.DailySpending(10, func(int) float64 { return 10 })
	require.NoError(t, store.SaveTransactions(ctx, txns))

	from := testutil.BaseDate.AddDate(0, 0, 3)
	to := testutil.BaseDate.AddDate(0, 0, 6)
	got, err := store.GetTransactions(ctx, &from, &to)
	require.NoError(t, err)
	assert.Len(t, got, 4)
	for _, tx := range got {
		assert.False(t, tx.Date.Before(from))
		assert.False(t, tx.Date.After(to))
	}
}

func TestGetLabeledTransactions(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	labeled := testutil.LabeledTransactions()
	unlabeled := testutil.Transaction(testutil.BaseDate.AddDate(0, 1, 0), 12, "", "mystery")
	require.NoError(t, store.SaveTransactions(ctx, append(labeled, unlabeled)))

	got, err := store.GetLabeledTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, got, len(labeled))
	for _, tx := range got {
		assert.NotEmpty(t, tx.Category)
	}
}

func TestPredictionRecords(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	rec := &storage.PredictionRecord{
		InputText:  "KETAL SUPERMERCADO",
		Category:   "Groceries",
		Confidence: 0.92,
		Alternatives: model.Prediction{
			{Category: "Food", Confidence: 0.05},
		},
		ModelVersion: "v1",
	}
	require.NoError(t, store.SavePrediction(ctx, rec))
	assert.NotEmpty(t, rec.ID)

	got, err := store.GetRecentPredictions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec.InputText, got[0].InputText)
	assert.Equal(t, rec.Category, got[0].Category)
	assert.Equal(t, rec.Alternatives, got[0].Alternatives)
	assert.Equal(t, "v1", got[0].ModelVersion)
}

func TestForecastRecords(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	recs := []storage.ForecastRecord{
		{Date: testutil.BaseDate, Category: "Total", PredictedAmount: 50, LowerBound: 35, UpperBound: 65, Confidence: 0.95, ModelKind: "trend"},
		{Date: testutil.BaseDate.AddDate(0, 0, 1), Category: "Total", PredictedAmount: 52, LowerBound: 36, UpperBound: 67, Confidence: 0.95, ModelKind: "trend"},
	}
	require.NoError(t, store.SaveForecasts(ctx, recs))

	got, err := store.GetRecentForecasts(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestPatternRecords(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	rec := &storage.PatternRecord{
		PatternType:    "consistent_spender",
		StabilityScore: 0.91,
		UnusualDays:    2,
		Patterns: []model.DetectedPattern{
			{Type: "weekend_spender", Description: "You spend significantly more on weekends", Impact: model.ImpactHigh},
		},
		Insights: []model.Insight{
			{Category: "spending_summary", Message: "Average daily spending: $25.00", Severity: model.SeverityInfo},
		},
	}
	require.NoError(t, store.SavePatternAnalysis(ctx, rec))

	got, err := store.GetRecentPatternAnalyses(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec.PatternType, got[0].PatternType)
	assert.Equal(t, rec.Patterns, got[0].Patterns)
	assert.Equal(t, rec.Insights, got[0].Insights)
}

func TestMigrateIdempotent(t *testing.T) {
	store := testutil.SetupTestDB(t)
	// SetupTestDB already migrated; a second run must be a no-op.
	require.NoError(t, store.Migrate(context.Background()))
}

func TestRecentOrdering(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec := &storage.PredictionRecord{
			InputText:  "purchase",
			Category:   "Other",
			Confidence: 0.5,
		}
		require.NoError(t, store.SavePrediction(ctx, rec))
		time.Sleep(10 * time.Millisecond)
	}

	got, err := store.GetRecentPredictions(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
