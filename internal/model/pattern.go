package model

// PatternType classifies a user's overall spending behavior.
type PatternType string

const (
	// PatternHighSpender indicates consistently elevated spending.
	PatternHighSpender PatternType = "high_spender"
	// PatternLowSpender indicates consistently low spending.
	PatternLowSpender PatternType = "low_spender"
	// PatternIrregularSpender indicates highly variable spending.
	PatternIrregularSpender PatternType = "irregular_spender"
	// PatternConsistentSpender indicates steady, predictable spending.
	PatternConsistentSpender PatternType = "consistent_spender"
	// PatternUnknown is reported when no trained model is available.
	PatternUnknown PatternType = "unknown"
)

// Impact grades how strongly a detected pattern affects spending.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Severity grades an insight message.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
)

// DetectedPattern is a rule-based behavioral pattern found in the data.
type DetectedPattern struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Impact      Impact `json:"impact"`
}

// Insight is a human-readable observation derived from the analysis.
type Insight struct {
	Category string   `json:"category"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// PatternAnalysis is the full output of the pattern analyzer.
type PatternAnalysis struct {
	PatternType    PatternType       `json:"pattern_type"`
	Patterns       []DetectedPattern `json:"patterns"`
	Insights       []Insight         `json:"insights"`
	StabilityScore float64           `json:"stability_score"`
	UnusualDays    int               `json:"unusual_days"`
}
