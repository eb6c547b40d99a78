// Package analyzer implements the unsupervised spending pattern analyzer.
// Daily feature vectors are standardized and compressed through an
// autoencoder; the embedding drives pattern classification and the
// reconstruction error drives anomaly scoring. Rule-based checks over the
// raw series supply the remaining patterns and insights.
package analyzer

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/lapazlabs/centavo/internal/artifact"
	"github.com/lapazlabs/centavo/internal/common"
	"github.com/lapazlabs/centavo/internal/feature"
	"github.com/lapazlabs/centavo/internal/model"
)

// Kind identifies pattern analyzer artifacts on disk.
const Kind = "patterns"

// minTrainingDays is the fewest distinct daily observations the
// autoencoder will fit on; below that training is reported as a failure.
const minTrainingDays = 14

// DefaultEpochs is the training epoch budget when the caller passes none.
const DefaultEpochs = 50

// Pattern classification thresholds over the mean embedding.
const (
	highSpenderMean  = 0.6
	lowSpenderMean   = 0.3
	irregularStd     = 0.3
	weekendRatio     = 1.5
	earlyMonthRatio  = 1.3
	unusualPercentil = 90
)

// state is the persisted analyzer model: the fitted scaler, the category
// columns the features were built with, and the network weights.
type state struct {
	Scaler     *feature.StandardScaler `json:"scaler"`
	Net        *Autoencoder            `json:"net"`
	Categories []string                `json:"categories"`
}

// Analyzer detects spending patterns and anomalies in transaction series.
//
// AnalyzePatterns is read-only and safe for concurrent use; Train is not
// safe to run concurrently with any other call on the same instance.
type Analyzer struct {
	// Progress, when set, is called after each training epoch. Used by
	// the CLI to drive a progress bar.
	Progress func(done, total int)

	path    string
	st      state
	trained bool
}

// New creates an analyzer backed by the artifact at path, loading any
// existing artifact. Load failure is logged and leaves it untrained.
func New(path string) *Analyzer {
	a := &Analyzer{path: path, st: state{Scaler: &feature.StandardScaler{}}}
	if ok, err := a.Load(); err != nil {
		slog.Warn("Could not load pattern analyzer artifact, starting untrained",
			"path", path, "error", err)
	} else if ok {
		slog.Info("Loaded pattern analyzer artifact", "path", path)
	}
	return a
}

// IsTrained reports whether a fitted model is available.
func (a *Analyzer) IsTrained() bool {
	return a.trained
}

// Train standardizes daily feature vectors and fits the autoencoder.
// Too little data (fewer than minTrainingDays distinct days) or empty
// input is reported as a training failure in the report, not an error.
func (a *Analyzer) Train(txns []model.Transaction, epochs int) (*model.TrainingReport, error) {
	slog.Info("Training pattern analyzer", "transactions", len(txns))

	if len(txns) == 0 {
		return &model.TrainingReport{
			Status: model.StatusError,
			Error:  "no transactions to train on",
		}, nil
	}

	series := feature.BuildDailySeries(txns)
	if len(series.Days) < minTrainingDays {
		return &model.TrainingReport{
			Status:      model.StatusError,
			Error:       fmt.Sprintf("%v: need at least %d days of history, got %d", common.ErrInsufficientData, minTrainingDays, len(series.Days)),
			SampleCount: len(txns),
		}, nil
	}
	if epochs <= 0 {
		epochs = DefaultEpochs
	}

	scaler := &feature.StandardScaler{}
	scaled, err := scaler.FitTransform(series.Matrix)
	if err != nil {
		return nil, fmt.Errorf("failed to standardize features: %w", err)
	}

	net := NewAutoencoder(len(series.Columns))
	result, err := net.Fit(scaled, epochs, 0, 0, a.Progress)
	if err != nil {
		return nil, fmt.Errorf("failed to fit autoencoder: %w", err)
	}

	a.st = state{Scaler: scaler, Net: net, Categories: series.TopCategories}
	a.trained = true

	if err := a.Save(); err != nil {
		slog.Error("Failed to save pattern analyzer artifact", "path", a.path, "error", err)
	}

	slog.Info("Pattern analyzer trained",
		"days", len(series.Days),
		"loss", fmt.Sprintf("%.4f", result.Loss),
		"val_loss", fmt.Sprintf("%.4f", result.ValLoss),
		"epochs", result.Epochs)

	return &model.TrainingReport{
		Status:        model.StatusSuccess,
		SampleCount:   len(txns),
		Loss:          result.Loss,
		ValLoss:       result.ValLoss,
		EpochsTrained: result.Epochs,
	}, nil
}

// AnalyzePatterns classifies the overall spending pattern, counts unusual
// days and derives rule-based patterns and insights. It never fails: with
// no trained model (or unusable input) it degrades to a rule-based
// minimal result.
func (a *Analyzer) AnalyzePatterns(txns []model.Transaction) (*model.PatternAnalysis, error) {
	if !a.trained {
		slog.Warn("Pattern analyzer not trained, using rule-based analysis")
		return a.defaultAnalysis(), nil
	}

	series := feature.BuildDailySeriesFor(txns, a.st.Categories)
	if len(series.Days) == 0 {
		return a.defaultAnalysis(), nil
	}

	scaled, err := a.st.Scaler.Transform(series.Matrix)
	if err != nil {
		slog.Warn("Feature scaling failed, using rule-based analysis", "error", err)
		return a.defaultAnalysis(), nil
	}

	embeddings := make([][]float64, len(scaled))
	errors := make([]float64, len(scaled))
	for i, row := range scaled {
		embeddings[i] = a.st.Net.Embed(row)
		errors[i] = a.st.Net.ReconstructionError(row)
	}

	avgEmb := meanRows(embeddings)
	perDimStd := stdRows(embeddings)

	return &model.PatternAnalysis{
		PatternType:    classifyPattern(avgEmb),
		Patterns:       detectRulePatterns(txns),
		Insights:       generateInsights(txns, series, errors),
		StabilityScore: 1 / (1 + mean(perDimStd)),
		UnusualDays:    countUnusual(errors),
	}, nil
}

// classifyPattern maps the mean embedding to an overall pattern type
// using fixed thresholds.
func classifyPattern(avgEmb []float64) model.PatternType {
	m := mean(avgEmb)
	s := std(avgEmb)

	switch {
	case m > highSpenderMean:
		return model.PatternHighSpender
	case m < lowSpenderMean:
		return model.PatternLowSpender
	case s > irregularStd:
		return model.PatternIrregularSpender
	default:
		return model.PatternConsistentSpender
	}
}

// countUnusual counts days whose reconstruction error exceeds the 90th
// percentile of all errors in the analyzed window.
func countUnusual(errors []float64) int {
	if len(errors) == 0 {
		return 0
	}
	threshold := percentile(errors, unusualPercentil)
	count := 0
	for _, e := range errors {
		if e > threshold {
			count++
		}
	}
	return count
}

// detectRulePatterns finds behavioral patterns straight from the raw
// transactions, independent of the embedding.
func detectRulePatterns(txns []model.Transaction) []model.DetectedPattern {
	patterns := []model.DetectedPattern{}

	var weekendSum, weekdaySum float64
	var weekendN, weekdayN int
	var earlySum, lateSum float64
	var earlyN, lateN int

	for i := range txns {
		wd := txns[i].Date.Weekday()
		if wd == 0 || wd == 6 { // Sunday or Saturday
			weekendSum += txns[i].Amount
			weekendN++
		} else {
			weekdaySum += txns[i].Amount
			weekdayN++
		}

		switch day := txns[i].Date.Day(); {
		case day <= 10:
			earlySum += txns[i].Amount
			earlyN++
		case day >= 20:
			lateSum += txns[i].Amount
			lateN++
		}
	}

	weekendAvg := safeDiv(weekendSum, float64(weekendN))
	weekdayAvg := safeDiv(weekdaySum, float64(weekdayN))
	if weekendN > 0 && weekendAvg > weekdayAvg*weekendRatio {
		patterns = append(patterns, model.DetectedPattern{
			Type:        "weekend_spender",
			Description: "You spend significantly more on weekends",
			Impact:      model.ImpactHigh,
		})
	}

	earlyAvg := safeDiv(earlySum, float64(earlyN))
	lateAvg := safeDiv(lateSum, float64(lateN))
	if earlyN > 0 && earlyAvg > lateAvg*earlyMonthRatio {
		patterns = append(patterns, model.DetectedPattern{
			Type:        "early_month_spender",
			Description: "You spend more at the start of the month",
			Impact:      model.ImpactMedium,
		})
	}

	return patterns
}

// generateInsights produces the analysis insights: the daily spending
// average always, a variability warning when reconstruction errors are
// widely spread, and the top category when category data is present.
func generateInsights(txns []model.Transaction, series *feature.DailySeries, errors []float64) []model.Insight {
	var total float64
	catTotals := make(map[string]float64)
	for i := range txns {
		total += txns[i].Amount
		if txns[i].Category != "" {
			catTotals[txns[i].Category] += txns[i].Amount
		}
	}
	avgDaily := safeDiv(total, float64(len(series.Days)))

	insights := []model.Insight{{
		Category: "spending_summary",
		Message:  fmt.Sprintf("Average daily spending: $%.2f", avgDaily),
		Severity: model.SeverityInfo,
	}}

	if std(errors) > mean(errors) {
		insights = append(insights, model.Insight{
			Category: "variability",
			Message:  "Your spending is highly variable. Consider a stricter budget.",
			Severity: model.SeverityWarning,
		})
	}

	if len(catTotals) > 0 {
		topCat, topAmount := "", math.Inf(-1)
		cats := make([]string, 0, len(catTotals))
		for cat := range catTotals {
			cats = append(cats, cat)
		}
		sort.Strings(cats)
		for _, cat := range cats {
			if catTotals[cat] > topAmount {
				topCat, topAmount = cat, catTotals[cat]
			}
		}
		insights = append(insights, model.Insight{
			Category: "top_spending",
			Message:  fmt.Sprintf("Your biggest spending is on %s: $%.2f", topCat, topAmount),
			Severity: model.SeverityInfo,
		})
	}

	return insights
}

// defaultAnalysis is the rule-based minimal result used when no trained
// model is available.
func (a *Analyzer) defaultAnalysis() *model.PatternAnalysis {
	return &model.PatternAnalysis{
		PatternType: model.PatternUnknown,
		Patterns:    []model.DetectedPattern{},
		Insights: []model.Insight{{
			Category: "info",
			Message:  "Basic analysis only. Train the model for advanced insights.",
			Severity: model.SeverityInfo,
		}},
		StabilityScore: 0.5,
		UnusualDays:    0,
	}
}

// Save writes the fitted state to the configured artifact path.
func (a *Analyzer) Save() error {
	return artifact.Save(a.path, Kind, a.trained, &a.st)
}

// Load reads the artifact from disk, returning true on success.
func (a *Analyzer) Load() (bool, error) {
	var st state
	trained, err := artifact.Load(a.path, Kind, &st)
	if err != nil {
		return false, err
	}
	if st.Scaler == nil {
		st.Scaler = &feature.StandardScaler{}
	}
	a.st = st
	a.trained = trained && st.Net != nil
	return true, nil
}

func meanRows(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	out := make([]float64, len(rows[0]))
	for _, row := range rows {
		for j, v := range row {
			out[j] += v
		}
	}
	for j := range out {
		out[j] /= float64(len(rows))
	}
	return out
}

// stdRows is the per-dimension population standard deviation across rows.
func stdRows(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	means := meanRows(rows)
	out := make([]float64, len(means))
	for _, row := range rows {
		for j, v := range row {
			d := v - means[j]
			out[j] += d * d
		}
	}
	for j := range out {
		out[j] = math.Sqrt(out[j] / float64(len(rows)))
	}
	return out
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

func std(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	m := mean(v)
	var ss float64
	for _, x := range v {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(v)))
}

// percentile computes the p-th percentile with linear interpolation
// between closest ranks.
func percentile(v []float64, p float64) float64 {
	sorted := make([]float64, len(v))
	copy(sorted, v)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
