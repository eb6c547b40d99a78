package feature

import (
	"math"
	"sort"
	"time"

	"github.com/lapazlabs/centavo/internal/model"
)

// topCategoryCount is how many high-frequency categories get their own
// per-day spend column.
const topCategoryCount = 5

// DailySeries is the per-day feature matrix derived from a transaction set.
// One row per distinct calendar day present in the input, in date order.
// Missing values are zero-filled, never dropped.
type DailySeries struct {
	Days          []time.Time
	Columns       []string
	Matrix        [][]float64
	TopCategories []string
}

// baseColumns are the feature columns every series carries, before the
// per-category spend columns are appended.
var baseColumns = []string{
	"total_amount", "num_transactions", "day_of_week", "is_weekend",
	"day_of_month", "month", "rolling_7", "rolling_14", "rolling_30",
	"trend", "volatility",
}

// BuildDailySeries aggregates transactions by calendar day and derives
// calendar, rolling-window and per-category features. The per-category
// columns cover the top categories observed in the input.
func BuildDailySeries(txns []model.Transaction) *DailySeries {
	return BuildDailySeriesFor(txns, nil)
}

// BuildDailySeriesFor is BuildDailySeries with a fixed category column
// set, used at inference time so the matrix width matches the one the
// model was fitted on. Days without a category's spend are zero-filled.
func BuildDailySeriesFor(txns []model.Transaction, categories []string) *DailySeries {
	totals := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	catTotals := make(map[string]map[time.Time]float64)
	catFreq := make(map[string]int)

	for i := range txns {
		day := txns[i].Day()
		totals[day] += txns[i].Amount
		counts[day]++

		if cat := txns[i].Category; cat != "" {
			catFreq[cat]++
			if catTotals[cat] == nil {
				catTotals[cat] = make(map[time.Time]float64)
			}
			catTotals[cat][day] += txns[i].Amount
		}
	}

	days := make([]time.Time, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	topCats := categories
	if topCats == nil {
		topCats = topCategories(catFreq, topCategoryCount)
	}

	columns := make([]string, 0, len(baseColumns)+len(topCats))
	columns = append(columns, baseColumns...)
	for _, cat := range topCats {
		columns = append(columns, "cat_"+cat)
	}

	dailyTotals := make([]float64, len(days))
	for i, day := range days {
		dailyTotals[i] = totals[day]
	}

	matrix := make([][]float64, len(days))
	for i, day := range days {
		row := make([]float64, len(columns))

		dow := (int(day.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
		weekend := 0.0
		if dow >= 5 {
			weekend = 1.0
		}

		row[0] = totals[day]
		row[1] = float64(counts[day])
		row[2] = float64(dow)
		row[3] = weekend
		row[4] = float64(day.Day())
		row[5] = float64(int(day.Month()))
		row[6] = trailingMean(dailyTotals, i, 7)
		row[7] = trailingMean(dailyTotals, i, 14)
		row[8] = trailingMean(dailyTotals, i, 30)
		if i > 0 {
			row[9] = dailyTotals[i] - dailyTotals[i-1]
		}
		row[10] = trailingStd(dailyTotals, i, 7)

		for c, cat := range topCats {
			row[len(baseColumns)+c] = catTotals[cat][day]
		}

		matrix[i] = row
	}

	return &DailySeries{
		Days:          days,
		Columns:       columns,
		Matrix:        matrix,
		TopCategories: topCats,
	}
}

// DailyTotals returns the per-day spend sums of the series, in date order.
func (s *DailySeries) DailyTotals() []float64 {
	totals := make([]float64, len(s.Matrix))
	for i, row := range s.Matrix {
		totals[i] = row[0]
	}
	return totals
}

// topCategories returns the n most frequent categories, ties alphabetical.
func topCategories(freq map[string]int, n int) []string {
	cats := make([]string, 0, len(freq))
	for cat := range freq {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		if freq[cats[i]] != freq[cats[j]] {
			return freq[cats[i]] > freq[cats[j]]
		}
		return cats[i] < cats[j]
	})
	if len(cats) > n {
		cats = cats[:n]
	}
	return cats
}

// trailingMean averages the trailing window ending at index i, with a
// minimum window of one observation so early rows never go missing.
func trailingMean(values []float64, i, window int) float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for j := start; j <= i; j++ {
		sum += values[j]
	}
	return sum / float64(i-start+1)
}

// trailingStd is the sample standard deviation of the trailing window
// ending at index i; zero when fewer than two observations exist.
func trailingStd(values []float64, i, window int) float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	n := i - start + 1
	if n < 2 {
		return 0
	}
	mean := trailingMean(values, i, window)
	var ss float64
	for j := start; j <= i; j++ {
		d := values[j] - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
