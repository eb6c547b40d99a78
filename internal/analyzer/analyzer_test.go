package analyzer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapazlabs/centavo/internal/feature"
	"github.com/lapazlabs/centavo/internal/model"
	"github.com/lapazlabs/centavo/internal/testutil"
)

func TestTrainEmptyInput(t *testing.T) {
	a := New(filepath.Join(t.TempDir(), "patterns.json"))

	report, err := a.Train(nil, 10)
	require.NoError(t, err)
	assert.Equal(t, model.StatusError, report.Status)
	assert.False(t, a.IsTrained())
}

func TestTrainInsufficientHistory(t *testing.T) {
	a := New(filepath.Join(t.TempDir(), "patterns.json"))

	txns := testutil.DailySpending(5, func(int) float64 { return 20 })
	report, err := a.Train(txns, 10)
	require.NoError(t, err)
	assert.Equal(t, model.StatusError, report.Status)
	assert.Contains(t, report.Error, "14")
	assert.False(t, a.IsTrained())
}

func TestTrainSuccess(t *testing.T) {
	a := New(filepath.Join(t.TempDir(), "patterns.json"))

	txns := testutil.DailySpending(30, func(day int) float64 { return 20 + float64(day%7) })
	report, err := a.Train(txns, 20)
	require.NoError(t, err)

	assert.Equal(t, model.StatusSuccess, report.Status)
	assert.True(t, a.IsTrained())
	assert.Positive(t, report.EpochsTrained)
}

func TestAnalyzePatternsUntrained(t *testing.T) {
	a := New(filepath.Join(t.TempDir(), "patterns.json"))

	analysis, err := a.AnalyzePatterns(testutil.DailySpending(30, func(int) float64 { return 20 }))
	require.NoError(t, err)

	assert.Equal(t, model.PatternUnknown, analysis.PatternType)
	assert.Equal(t, 0.5, analysis.StabilityScore)
	assert.Zero(t, analysis.UnusualDays)
	assert.NotEmpty(t, analysis.Insights)
}

func TestAnalyzePatternsConsistentSpending(t *testing.T) {
	a := New(filepath.Join(t.TempDir(), "patterns.json"))

	txns := testutil.DailySpending(30, func(int) float64 { return 25 })
	_, err := a.Train(txns, DefaultEpochs)
	require.NoError(t, err)

	analysis, err := a.AnalyzePatterns(txns)
	require.NoError(t, err)

	// Identical days embed almost identically, so stability stays high.
	assert.GreaterOrEqual(t, analysis.StabilityScore, 0.9)
	assert.Greater(t, analysis.StabilityScore, 0.0)
	assert.LessOrEqual(t, analysis.StabilityScore, 1.0)
	assert.NotEqual(t, model.PatternUnknown, analysis.PatternType)
}

func TestAnalyzePatternsUnusualDays(t *testing.T) {
	a := New(filepath.Join(t.TempDir(), "patterns.json"))

	spike := map[int]bool{10: true, 17: true, 24: true}
	txns := testutil.DailySpending(30, func(day int) float64 {
		if spike[day] {
			return 125
		}
		return 25
	})
	_, err := a.Train(txns, DefaultEpochs)
	require.NoError(t, err)

	analysis, err := a.AnalyzePatterns(txns)
	require.NoError(t, err)

	// Days above the 90th percentile of reconstruction error: with 30
	// observations at least two land above it.
	assert.GreaterOrEqual(t, analysis.UnusualDays, 2)
}

func TestAnalyzePatternsEmptyInput(t *testing.T) {
	a := New(filepath.Join(t.TempDir(), "patterns.json"))

	txns := testutil.DailySpending(30, func(int) float64 { return 25 })
	_, err := a.Train(txns, 10)
	require.NoError(t, err)

	analysis, err := a.AnalyzePatterns(nil)
	require.NoError(t, err)
	assert.Equal(t, model.PatternUnknown, analysis.PatternType)
}

func TestDetectRulePatternsWeekendSpender(t *testing.T) {
	txns := testutil.DailySpending(28, func(day int) float64 {
		wd := testutil.BaseDate.AddDate(0, 0, day).Weekday()
		if wd == 0 || wd == 6 {
			return 100
		}
		return 10
	})

	patterns := detectRulePatterns(txns)
	types := make([]string, len(patterns))
	for i, p := range patterns {
		types[i] = p.Type
	}
	assert.Contains(t, types, "weekend_spender")
}

func TestDetectRulePatternsEarlyMonth(t *testing.T) {
	txns := testutil.DailySpending(28, func(day int) float64 {
		if testutil.BaseDate.AddDate(0, 0, day).Day() <= 10 {
			return 100
		}
		return 10
	})

	patterns := detectRulePatterns(txns)
	types := make([]string, len(patterns))
	for i, p := range patterns {
		types[i] = p.Type
	}
	assert.Contains(t, types, "early_month_spender")
}

func TestGenerateInsightsTopCategory(t *testing.T) {
	txns := []model.Transaction{
		testutil.Transaction(testutil.BaseDate, 200, "Groceries", "supermarket"),
		testutil.Transaction(testutil.BaseDate.AddDate(0, 0, 1), 30, "Food", "lunch"),
	}
	series := feature.BuildDailySeries(txns)

	insights := generateInsights(txns, series, []float64{0.1, 0.1})

	var topMsg string
	for _, in := range insights {
		if in.Category == "top_spending" {
			topMsg = in.Message
		}
	}
	assert.Contains(t, topMsg, "Groceries")

	// Average daily spending divides by distinct days, not span.
	assert.Contains(t, insights[0].Message, "115.00")
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"median of odd set", []float64{1, 2, 3, 4, 5}, 50, 3},
		{"interpolated", []float64{1, 2, 3, 4}, 50, 2.5},
		{"single value", []float64{7}, 90, 7},
		{"maximum", []float64{1, 2, 3}, 100, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, percentile(tt.values, tt.p), 1e-9)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")

	a := New(path)
	txns := testutil.DailySpending(30, func(day int) float64 { return 20 + float64(day%5) })
	_, err := a.Train(txns, 20)
	require.NoError(t, err)

	want, err := a.AnalyzePatterns(txns)
	require.NoError(t, err)

	reloaded := New(path)
	require.True(t, reloaded.IsTrained())

	got, err := reloaded.AnalyzePatterns(txns)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
