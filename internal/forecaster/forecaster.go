// Package forecaster implements the expense forecaster: a trend model
// (least-squares regression of daily spend on days-since-start) when
// enough history exists, and a flat average model otherwise. The variant
// is chosen once at training time and is immutable until the next train.
package forecaster

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/lapazlabs/centavo/internal/artifact"
	"github.com/lapazlabs/centavo/internal/common"
	"github.com/lapazlabs/centavo/internal/feature"
	"github.com/lapazlabs/centavo/internal/model"
)

// Kind identifies forecaster artifacts on disk.
const Kind = "forecaster"

// minTrendDays is the minimum number of distinct observed days needed to
// fit the trend model; below it the average model is used.
const minTrendDays = 3

// ModelKind names the forecaster variant fitted at training time.
type ModelKind string

const (
	// KindAverage predicts the mean daily spend for every future day.
	KindAverage ModelKind = "average"
	// KindTrend extrapolates a linear regression over time.
	KindTrend ModelKind = "trend"
)

// Confidence levels and band widths per variant. These are fixed design
// parameters, not statistically derived intervals.
const (
	averageConfidence = 0.80
	trendConfidence   = 0.95
	averageBandRatio  = 0.2
	trendBandRatio    = 0.3
)

// state is the persisted forecaster model.
type state struct {
	StartDate   time.Time `json:"start_date"`
	Kind        ModelKind `json:"kind"`
	Categories  []string  `json:"categories"`
	AvgSpending float64   `json:"avg_spending"`
	Slope       float64   `json:"slope"`
	Intercept   float64   `json:"intercept"`
	MAE         float64   `json:"mae"`
	RMSE        float64   `json:"rmse"`
}

// Forecaster predicts future daily expenses with confidence bands.
//
// Predict and ForecastByMonth are read-only and safe for concurrent use;
// Train is not safe to run concurrently with any other call on the same
// instance and must be serialized by the owning service.
type Forecaster struct {
	now     func() time.Time
	path    string
	st      state
	trained bool
}

// New creates a forecaster backed by the artifact at path, loading any
// existing artifact. Load failure is logged and leaves it untrained.
func New(path string) *Forecaster {
	f := &Forecaster{path: path, now: time.Now}
	if ok, err := f.Load(); err != nil {
		slog.Warn("Could not load forecaster artifact, starting untrained",
			"path", path, "error", err)
	} else if ok {
		slog.Info("Loaded forecaster artifact", "path", path, "kind", f.st.Kind)
	}
	return f
}

// IsTrained reports whether a fitted model is available.
func (f *Forecaster) IsTrained() bool {
	return f.trained
}

// ModelKind returns the fitted variant, empty before training.
func (f *Forecaster) ModelKind() ModelKind {
	if !f.trained {
		return ""
	}
	return f.st.Kind
}

// Train aggregates transactions to daily totals and fits either the
// average or the trend model depending on data volume. Empty input is
// reported as an error status, not returned as a Go error.
func (f *Forecaster) Train(txns []model.Transaction) (*model.TrainingReport, error) {
	slog.Info("Training forecaster", "transactions", len(txns))

	if len(txns) == 0 {
		return &model.TrainingReport{
			Status: model.StatusError,
			Error:  "no transactions to train on",
		}, nil
	}

	series := feature.BuildDailySeries(txns)
	days := series.Days
	totals := series.DailyTotals()

	mean := 0.0
	for _, v := range totals {
		mean += v
	}
	mean /= float64(len(totals))

	st := state{
		StartDate:   days[0],
		Categories:  series.TopCategories,
		AvgSpending: mean,
	}

	report := &model.TrainingReport{
		Status:        model.StatusSuccess,
		SampleCount:   len(txns),
		CategoryCount: len(series.TopCategories),
	}

	if len(days) < minTrendDays {
		st.Kind = KindAverage
	} else {
		st.Kind = KindTrend

		x := make([]float64, len(days))
		for i, d := range days {
			x[i] = d.Sub(days[0]).Hours() / 24
		}
		st.Slope, st.Intercept = leastSquares(x, totals)

		var sumAbs, sumSq float64
		for i := range x {
			resid := totals[i] - (st.Slope*x[i] + st.Intercept)
			sumAbs += math.Abs(resid)
			sumSq += resid * resid
		}
		st.MAE = sumAbs / float64(len(x))
		st.RMSE = math.Sqrt(sumSq / float64(len(x)))
		report.MAE = st.MAE
		report.RMSE = st.RMSE
	}

	f.st = st
	f.trained = true
	report.ModelKind = string(st.Kind)

	if err := f.Save(); err != nil {
		slog.Error("Failed to save forecaster artifact", "path", f.path, "error", err)
	}

	slog.Info("Forecaster trained",
		"kind", st.Kind, "days", len(days), "avg_daily", fmt.Sprintf("%.2f", mean))
	return report, nil
}

// Predict produces one forecast point per day, starting tomorrow and
// covering consecutive calendar days. Calling it before a successful
// train (or load) fails with ErrNotTrained; no fallback is defined here.
func (f *Forecaster) Predict(daysAhead int, category string) ([]model.ForecastPoint, error) {
	if !f.trained {
		return nil, fmt.Errorf("%w: train the forecaster before predicting", common.ErrNotTrained)
	}
	if daysAhead <= 0 {
		return nil, fmt.Errorf("%w: days ahead must be positive, got %d", common.ErrValidation, daysAhead)
	}
	if category == "" {
		category = "Total"
	}

	today := f.now().UTC().Truncate(24 * time.Hour)
	points := make([]model.ForecastPoint, 0, daysAhead)

	for i := 1; i <= daysAhead; i++ {
		date := today.AddDate(0, 0, i)

		var point model.ForecastPoint
		switch f.st.Kind {
		case KindAverage:
			amount := math.Max(0, f.st.AvgSpending)
			point = model.ForecastPoint{
				Date:            date,
				Category:        category,
				PredictedAmount: amount,
				LowerBound:      amount * (1 - averageBandRatio),
				UpperBound:      amount * (1 + averageBandRatio),
				Confidence:      averageConfidence,
			}
		case KindTrend:
			offset := date.Sub(f.st.StartDate).Hours() / 24
			amount := math.Max(0, f.st.Slope*offset+f.st.Intercept)
			point = model.ForecastPoint{
				Date:            date,
				Category:        category,
				PredictedAmount: amount,
				LowerBound:      amount * (1 - trendBandRatio),
				UpperBound:      amount * (1 + trendBandRatio),
				Confidence:      trendConfidence,
			}
		default:
			return nil, fmt.Errorf("unknown forecaster model kind %q", f.st.Kind)
		}
		points = append(points, point)
	}
	return points, nil
}

// ForecastByMonth generates months*30 daily points and re-aggregates them
// by calendar month. The trend label compares the last monthly total to
// the first; a single month reports stable.
func (f *Forecaster) ForecastByMonth(months int) ([]model.MonthlyForecast, error) {
	if months <= 0 {
		return nil, fmt.Errorf("%w: months must be positive, got %d", common.ErrValidation, months)
	}

	daily, err := f.Predict(months*30, "")
	if err != nil {
		return nil, err
	}

	type ym struct {
		year  int
		month int
	}
	var order []ym
	agg := make(map[ym]*model.MonthlyForecast)

	for _, p := range daily {
		key := ym{p.Date.Year(), int(p.Date.Month())}
		m, ok := agg[key]
		if !ok {
			m = &model.MonthlyForecast{
				Year:       key.year,
				Month:      key.month,
				Confidence: p.Confidence,
			}
			agg[key] = m
			order = append(order, key)
		}
		m.PredictedAmount += p.PredictedAmount
		m.LowerBound += p.LowerBound
		m.UpperBound += p.UpperBound
	}

	trend := model.TrendStable
	if len(order) > 1 {
		first := agg[order[0]].PredictedAmount
		last := agg[order[len(order)-1]].PredictedAmount
		if last > first {
			trend = model.TrendIncreasing
		} else {
			trend = model.TrendDecreasing
		}
	}

	out := make([]model.MonthlyForecast, 0, len(order))
	for _, key := range order {
		m := agg[key]
		m.Trend = trend
		out = append(out, *m)
	}
	return out, nil
}

// Save writes the fitted state to the configured artifact path.
func (f *Forecaster) Save() error {
	return artifact.Save(f.path, Kind, f.trained, &f.st)
}

// Load reads the artifact from disk, returning true on success.
func (f *Forecaster) Load() (bool, error) {
	var st state
	trained, err := artifact.Load(f.path, Kind, &st)
	if err != nil {
		return false, err
	}
	f.st = st
	f.trained = trained
	return true, nil
}

// leastSquares fits y = slope*x + intercept by ordinary least squares.
// A degenerate x range yields a flat line through the mean.
func leastSquares(x, y []float64) (slope, intercept float64) {
	n := float64(len(x))
	var sumX, sumY, sumXY, sumXX float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
