package model

// TrainingStatus reports the outcome of a training run.
type TrainingStatus string

const (
	// StatusSuccess means the model trained and its artifact was refreshed.
	StatusSuccess TrainingStatus = "success"
	// StatusError means training failed; Error holds the reason.
	StatusError TrainingStatus = "error"
)

// TrainingReport carries the structured result of a train call.
// Metric fields are populated only where they apply to the model that ran.
type TrainingReport struct {
	Status        TrainingStatus `json:"status"`
	Error         string         `json:"error,omitempty"`
	ModelKind     string         `json:"model_kind,omitempty"`
	SampleCount   int            `json:"sample_count"`
	CategoryCount int            `json:"category_count,omitempty"`
	Categories    []string       `json:"categories,omitempty"`
	Accuracy      float64        `json:"accuracy,omitempty"`
	MAE           float64        `json:"mae,omitempty"`
	RMSE          float64        `json:"rmse,omitempty"`
	Loss          float64        `json:"loss,omitempty"`
	ValLoss       float64        `json:"val_loss,omitempty"`
	EpochsTrained int            `json:"epochs_trained,omitempty"`
}
