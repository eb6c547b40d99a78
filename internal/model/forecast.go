package model

import (
	"fmt"
	"time"
)

// Trend describes the direction of a monthly forecast.
type Trend string

const (
	// TrendIncreasing means the last forecast month exceeds the first.
	TrendIncreasing Trend = "increasing"
	// TrendDecreasing means the last forecast month is below the first.
	TrendDecreasing Trend = "decreasing"
	// TrendStable means there is not enough data to call a direction.
	TrendStable Trend = "stable"
)

// ForecastPoint is a single day's predicted spend with a confidence band.
type ForecastPoint struct {
	Date            time.Time `json:"date"`
	Category        string    `json:"category"`
	PredictedAmount float64   `json:"predicted_amount"`
	LowerBound      float64   `json:"lower_bound"`
	UpperBound      float64   `json:"upper_bound"`
	Confidence      float64   `json:"confidence"`
}

// Validate checks the numeric guarantees every forecast point must satisfy.
func (f *ForecastPoint) Validate() error {
	if f.PredictedAmount < 0 || f.LowerBound < 0 || f.UpperBound < 0 {
		return fmt.Errorf("forecast amounts must be non-negative")
	}
	if f.LowerBound > f.PredictedAmount || f.PredictedAmount > f.UpperBound {
		return fmt.Errorf("forecast bounds must satisfy lower <= predicted <= upper")
	}
	if f.Confidence <= 0 || f.Confidence > 1 {
		return fmt.Errorf("confidence must be in (0, 1], got %.2f", f.Confidence)
	}
	return nil
}

// MonthlyForecast aggregates daily forecast points over one calendar month.
type MonthlyForecast struct {
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	PredictedAmount float64 `json:"predicted_amount"`
	LowerBound      float64 `json:"lower_bound"`
	UpperBound      float64 `json:"upper_bound"`
	Confidence      float64 `json:"confidence"`
	Trend           Trend   `json:"trend"`
}
