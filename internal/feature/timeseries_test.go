package feature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapazlabs/centavo/internal/model"
)

func day(offset int) time.Time {
	return time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func tx(date time.Time, amount float64, category string) model.Transaction {
	return model.Transaction{
		Date:        date,
		Amount:      amount,
		Category:    category,
		Description: "test purchase",
	}
}

func TestBuildDailySeries(t *testing.T) {
	// March 4, 2024 is a Monday.
	txns := []model.Transaction{
		tx(day(0), 10, "Food"),
		tx(day(0), 20, "Food"),
		tx(day(1), 5, "Transport"),
		tx(day(5), 40, "Food"), // Saturday
	}

	series := BuildDailySeries(txns)

	require.Len(t, series.Days, 3)
	require.Len(t, series.Matrix, 3)
	assert.Equal(t, len(baseColumns)+len(series.TopCategories), len(series.Columns))

	// Day 0: two transactions totalling 30, Monday.
	row := series.Matrix[0]
	assert.Equal(t, 30.0, row[0])
	assert.Equal(t, 2.0, row[1])
	assert.Equal(t, 0.0, row[2]) // Monday=0
	assert.Equal(t, 0.0, row[3])

	// Day 5 is a Saturday.
	row = series.Matrix[2]
	assert.Equal(t, 40.0, row[0])
	assert.Equal(t, 5.0, row[2])
	assert.Equal(t, 1.0, row[3])

	assert.Equal(t, []float64{30, 5, 40}, series.DailyTotals())
}

func TestBuildDailySeriesRollingWindows(t *testing.T) {
	var txns []model.Transaction
	for i := 0; i < 10; i++ {
		txns = append(txns, tx(day(i), float64(i+1)*10, "Food"))
	}

	series := BuildDailySeries(txns)
	require.Len(t, series.Matrix, 10)

	// First row: all rolling means collapse to the day's own total.
	assert.Equal(t, 10.0, series.Matrix[0][6])
	assert.Equal(t, 10.0, series.Matrix[0][8])
	// Trend is undefined on the first day.
	assert.Zero(t, series.Matrix[0][9])

	// Second row: rolling_7 = (10+20)/2, trend = 20-10.
	assert.Equal(t, 15.0, series.Matrix[1][6])
	assert.Equal(t, 10.0, series.Matrix[1][9])
}

func TestBuildDailySeriesTopCategories(t *testing.T) {
	txns := []model.Transaction{
		tx(day(0), 1, "A"), tx(day(0), 1, "A"), tx(day(0), 1, "A"),
		tx(day(1), 1, "B"), tx(day(1), 1, "B"),
		tx(day(2), 1, "C"), tx(day(2), 1, "D"),
		tx(day(3), 1, "E"), tx(day(3), 1, "F"),
	}

	series := BuildDailySeries(txns)
	// Six categories but only five columns: least frequent (alphabetically
	// last among ties) drops off.
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, series.TopCategories)
}

func TestBuildDailySeriesForFixedCategories(t *testing.T) {
	txns := []model.Transaction{
		tx(day(0), 10, "Food"),
		tx(day(1), 20, "Transport"),
	}

	series := BuildDailySeriesFor(txns, []string{"Groceries", "Bills"})

	assert.Equal(t, []string{"Groceries", "Bills"}, series.TopCategories)
	// Category spend columns are zero-filled for absent categories.
	for _, row := range series.Matrix {
		assert.Zero(t, row[len(baseColumns)])
		assert.Zero(t, row[len(baseColumns)+1])
	}
}

func TestBuildDailySeriesEmpty(t *testing.T) {
	series := BuildDailySeries(nil)
	assert.Empty(t, series.Days)
	assert.Empty(t, series.Matrix)
}
