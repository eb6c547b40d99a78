package feature

import (
	"fmt"
	"math"
)

// StandardScaler standardizes feature columns to zero mean and unit
// variance. Fitted parameters persist with the owning model so inference
// uses the training-time scaling.
type StandardScaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Fitted reports whether Fit has been called.
func (s *StandardScaler) Fitted() bool {
	return len(s.Mean) > 0
}

// Fit computes per-column mean and standard deviation. Columns with zero
// variance scale by 1 so constant features pass through centered.
func (s *StandardScaler) Fit(matrix [][]float64) error {
	if len(matrix) == 0 {
		return fmt.Errorf("cannot fit scaler on empty matrix")
	}

	cols := len(matrix[0])
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)

	for _, row := range matrix {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	n := float64(len(matrix))
	for j := range s.Mean {
		s.Mean[j] /= n
	}

	for _, row := range matrix {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / n)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	return nil
}

// Transform standardizes rows with the fitted parameters.
func (s *StandardScaler) Transform(matrix [][]float64) ([][]float64, error) {
	if !s.Fitted() {
		return nil, fmt.Errorf("scaler not fitted")
	}

	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		if len(row) != len(s.Mean) {
			return nil, fmt.Errorf("row %d has %d columns, scaler fitted on %d", i, len(row), len(s.Mean))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits the scaler and returns the standardized matrix.
func (s *StandardScaler) FitTransform(matrix [][]float64) ([][]float64, error) {
	if err := s.Fit(matrix); err != nil {
		return nil, err
	}
	return s.Transform(matrix)
}
