package model

import (
	"fmt"
	"sort"
)

// CategoryPrediction represents how likely a description belongs to a category.
type CategoryPrediction struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Validate ensures the CategoryPrediction has valid data.
func (p *CategoryPrediction) Validate() error {
	if p.Category == "" {
		return fmt.Errorf("category name is required")
	}
	if p.Confidence < 0.0 || p.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %.2f", p.Confidence)
	}
	return nil
}

// Prediction is a non-empty ranked list of category predictions, best first.
// Confidences are probabilistic outputs and need not sum to 1.
type Prediction []CategoryPrediction

// Sort orders the prediction by confidence descending. Ties keep their
// existing order, which callers arrange to be the training-time label order.
func (p Prediction) Sort() {
	sort.SliceStable(p, func(i, j int) bool {
		return p[i].Confidence > p[j].Confidence
	})
}

// Top returns the highest-confidence prediction, or nil if empty.
func (p Prediction) Top() *CategoryPrediction {
	if len(p) == 0 {
		return nil
	}
	return &p[0]
}

// TopN returns the N highest-confidence predictions.
func (p Prediction) TopN(n int) Prediction {
	if n <= 0 {
		return Prediction{}
	}
	if n > len(p) {
		n = len(p)
	}
	result := make(Prediction, n)
	copy(result, p[:n])
	return result
}

// Validate ensures all entries are valid and categories are unique.
func (p Prediction) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("prediction must contain at least one category")
	}

	seen := make(map[string]bool)
	for i := range p {
		if err := p[i].Validate(); err != nil {
			return fmt.Errorf("invalid prediction at index %d: %w", i, err)
		}
		if seen[p[i].Category] {
			return fmt.Errorf("duplicate category %q in prediction", p[i].Category)
		}
		seen[p[i].Category] = true
	}
	return nil
}
