package classifier

import (
	"strings"

	"github.com/lapazlabs/centavo/internal/model"
)

// FallbackRule maps description keywords to a category with a fixed
// confidence. Rules are checked in order; the first hit wins.
type FallbackRule struct {
	Category   string
	Keywords   []string
	Confidence float64
}

// fallbackOther is returned when no keyword rule matches.
var fallbackOther = model.CategoryPrediction{Category: "Other", Confidence: 0.5}

// DefaultFallbackRules returns the ordered keyword table used when no
// trained model is available.
func DefaultFallbackRules() []FallbackRule {
	return []FallbackRule{
		{
			Category:   "Transport",
			Keywords:   []string{"uber", "taxi", "bus", "metro", "transport", "teleferico", "gasolina"},
			Confidence: 0.7,
		},
		{
			Category:   "Food",
			Keywords:   []string{"restaurant", "food", "cafe", "pizza", "burger", "almuerzo", "restaurante"},
			Confidence: 0.7,
		},
		{
			Category:   "Subscriptions",
			Keywords:   []string{"netflix", "spotify", "subscription", "gym", "suscripcion"},
			Confidence: 0.7,
		},
		{
			Category:   "Groceries",
			Keywords:   []string{"supermarket", "grocery", "walmart", "store", "supermercado", "mercado", "ketal", "hipermaxi"},
			Confidence: 0.7,
		},
		{
			Category:   "Bills",
			Keywords:   []string{"rent", "electricity", "water", "internet", "alquiler", "luz", "agua"},
			Confidence: 0.7,
		},
	}
}

// fallbackPredict classifies a description with the keyword table. It
// always returns exactly one prediction and never fails: descriptions
// that match nothing land in Other at 0.5 confidence.
func fallbackPredict(text string, rules []FallbackRule) model.Prediction {
	lower := strings.ToLower(text)

	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return model.Prediction{{Category: rule.Category, Confidence: rule.Confidence}}
			}
		}
	}
	return model.Prediction{fallbackOther}
}
