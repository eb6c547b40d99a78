package forecaster

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapazlabs/centavo/internal/common"
	"github.com/lapazlabs/centavo/internal/model"
	"github.com/lapazlabs/centavo/internal/testutil"
)

func newTestForecaster(t *testing.T) *Forecaster {
	t.Helper()
	f := New(filepath.Join(t.TempDir(), "forecaster.json"))
	f.now = func() time.Time { return testutil.BaseDate.AddDate(0, 0, 40) }
	return f
}

func TestPredictUntrained(t *testing.T) {
	f := newTestForecaster(t)

	_, err := f.Predict(7, "")
	assert.ErrorIs(t, err, common.ErrNotTrained)
}

func TestTrainEmptyInput(t *testing.T) {
	f := newTestForecaster(t)

	report, err := f.Train(nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusError, report.Status)
	assert.NotEmpty(t, report.Error)
	assert.False(t, f.IsTrained())
}

func TestTrainAverageModel(t *testing.T) {
	f := newTestForecaster(t)

	// Two distinct days is below the trend threshold.
	txns := testutil.DailySpending(2, func(int) float64 { return 50 })
	report, err := f.Train(txns)
	require.NoError(t, err)

	assert.Equal(t, model.StatusSuccess, report.Status)
	assert.Equal(t, string(KindAverage), report.ModelKind)
	assert.Equal(t, KindAverage, f.ModelKind())

	points, err := f.Predict(5, "")
	require.NoError(t, err)
	require.Len(t, points, 5)

	for _, p := range points {
		assert.Equal(t, 50.0, p.PredictedAmount)
		assert.InDelta(t, 40.0, p.LowerBound, 1e-9)
		assert.InDelta(t, 60.0, p.UpperBound, 1e-9)
		assert.Equal(t, 0.80, p.Confidence)
	}
}

func TestTrainTrendModel(t *testing.T) {
	f := newTestForecaster(t)

	txns := testutil.DailySpending(10, func(day int) float64 { return 10 + float64(day)*5 })
	report, err := f.Train(txns)
	require.NoError(t, err)

	assert.Equal(t, model.StatusSuccess, report.Status)
	assert.Equal(t, string(KindTrend), report.ModelKind)
	// A perfect linear series has zero residuals.
	assert.InDelta(t, 0, report.MAE, 1e-9)
	assert.InDelta(t, 0, report.RMSE, 1e-9)
}

func TestPredictBoundsAndDates(t *testing.T) {
	f := newTestForecaster(t)

	txns := testutil.DailySpending(10, func(day int) float64 { return 100 + float64(day) })
	_, err := f.Train(txns)
	require.NoError(t, err)

	points, err := f.Predict(7, "")
	require.NoError(t, err)
	require.Len(t, points, 7)

	tomorrow := f.now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	for i, p := range points {
		assert.Equal(t, tomorrow.AddDate(0, 0, i), p.Date)
		require.NoError(t, p.Validate())
		assert.LessOrEqual(t, p.LowerBound, p.PredictedAmount)
		assert.LessOrEqual(t, p.PredictedAmount, p.UpperBound)
		assert.Equal(t, 0.95, p.Confidence)
	}
}

func TestPredictClampsNegativeTrend(t *testing.T) {
	f := newTestForecaster(t)

	// Steeply decreasing spend drives the extrapolation below zero.
	txns := testutil.DailySpending(10, func(day int) float64 { return 100 - float64(day)*20 })
	_, err := f.Train(txns)
	require.NoError(t, err)

	points, err := f.Predict(30, "")
	require.NoError(t, err)
	for _, p := range points {
		assert.GreaterOrEqual(t, p.PredictedAmount, 0.0)
		assert.GreaterOrEqual(t, p.LowerBound, 0.0)
	}
}

func TestPredictValidation(t *testing.T) {
	f := newTestForecaster(t)
	_, err := f.Train(testutil.DailySpending(10, func(int) float64 { return 10 }))
	require.NoError(t, err)

	_, err = f.Predict(0, "")
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = f.Predict(-3, "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestForecastByMonthTrend(t *testing.T) {
	f := newTestForecaster(t)

	txns := testutil.DailySpending(10, func(day int) float64 { return 10 + float64(day)*5 })
	_, err := f.Train(txns)
	require.NoError(t, err)

	forecasts, err := f.ForecastByMonth(3)
	require.NoError(t, err)
	require.NotEmpty(t, forecasts)

	// Strictly increasing history extrapolates to an increasing trend,
	// stamped on every month.
	for _, mf := range forecasts {
		assert.Equal(t, model.TrendIncreasing, mf.Trend)
		assert.LessOrEqual(t, mf.LowerBound, mf.PredictedAmount)
		assert.LessOrEqual(t, mf.PredictedAmount, mf.UpperBound)
	}
}

func TestForecastByMonthSingleMonth(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "forecaster.json"))
	// April 30: the next 30 days are exactly May 1-30, one calendar month.
	f.now = func() time.Time { return time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC) }

	_, err := f.Train(testutil.DailySpending(5, func(int) float64 { return 20 }))
	require.NoError(t, err)

	forecasts, err := f.ForecastByMonth(1)
	require.NoError(t, err)
	require.Len(t, forecasts, 1)
	assert.Equal(t, model.TrendStable, forecasts[0].Trend)
	assert.InDelta(t, 600, forecasts[0].PredictedAmount, 1e-9)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecaster.json")
	fixedNow := func() time.Time { return testutil.BaseDate.AddDate(0, 0, 40) }

	f := New(path)
	f.now = fixedNow
	_, err := f.Train(testutil.DailySpending(10, func(day int) float64 { return 10 + float64(day) }))
	require.NoError(t, err)

	want, err := f.Predict(7, "")
	require.NoError(t, err)

	reloaded := New(path)
	reloaded.now = fixedNow
	require.True(t, reloaded.IsTrained())
	assert.Equal(t, f.ModelKind(), reloaded.ModelKind())

	got, err := reloaded.Predict(7, "")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLeastSquares(t *testing.T) {
	slope, intercept := leastSquares([]float64{0, 1, 2, 3}, []float64{1, 3, 5, 7})
	assert.InDelta(t, 2, slope, 1e-9)
	assert.InDelta(t, 1, intercept, 1e-9)

	// Degenerate x range falls back to the mean.
	slope, intercept = leastSquares([]float64{2, 2}, []float64{4, 6})
	assert.Zero(t, slope)
	assert.InDelta(t, 5, intercept, 1e-9)
}
