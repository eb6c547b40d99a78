// Package classifier implements the supervised transaction classifier:
// a TF-IDF text transform feeding a multinomial naive Bayes model, with a
// keyword-rule fallback that keeps predictions flowing before first train.
package classifier

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

// Kind identifies classifier artifacts on disk.
const Kind = "classifier"

// smoothing is the Laplace smoothing constant for naive Bayes.
const smoothing = 1.0

// state holds everything the classifier persists: the fitted text
// transform, the label set in training order, and the model parameters.
type state struct {
	Vectorizer     *feature.Vectorizer `json:"vectorizer"`
	Categories     []string            `json:"categories"`
	ClassLogPrior  []float64           `json:"class_log_prior"`
	FeatureLogProb [][]float64         `json:"feature_log_prob"`
}

// Classifier maps a free-text description to a ranked list of categories.
//
// Predict is read-only over fitted parameters and safe to call from many
// goroutines; Train mutates them and must not run concurrently with any
// other call on the same instance. The owning service enforces that.
type Classifier struct {
	path    string
	rules   []FallbackRule
	st      state
	trained bool
}

// New creates a classifier backed by the artifact at path. An existing
// artifact is loaded; load failure leaves the classifier untrained and is
// never fatal.
func New(path string) *Classifier {
	c := &Classifier{
		path:  path,
		rules: DefaultFallbackRules(),
		st:    state{Vectorizer: feature.NewVectorizer()},
	}
	if ok, err := c.Load(); err != nil {
		slog.Warn("Could not load classifier artifact, starting untrained",
			"path", path, "error", err)
	} else if ok {
		slog.Info("Loaded classifier artifact",
			"path", path, "categories", len(c.st.Categories))
	}
	return c
}

// IsTrained reports whether a fitted model is available.
func (c *Classifier) IsTrained() bool {
	return c.trained
}

// Categories returns the label set learned at training time.
func (c *Classifier) Categories() []string {
	out := make([]string, len(c.st.Categories))
	copy(out, c.st.Categories)
	return out
}

// Train fits the text transform and the naive Bayes model on labeled
// transactions. It rejects an empty example set with ErrValidation,
// reports in-sample accuracy on success and persists the new state.
func (c *Classifier) Train(txns []model.Transaction) (*model.TrainingReport, error) {
	texts := make([]string, 0, len(txns))
	labels := make([]string, 0, len(txns))
	for i := range txns {
		if txns[i].Category == "" || txns[i].Description == "" {
			continue
		}
		texts = append(texts, txns[i].Description)
		labels = append(labels, txns[i].Category)
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no labeled examples to train on", common.ErrValidation)
	}

	slog.Info("Training classifier", "samples", len(texts))

	vec := feature.NewVectorizer()
	if err := vec.Fit(texts); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	vectors := vec.TransformAll(texts)

	// Labels sort alphabetically at training time; this ordering is the
	// deterministic tie-break for equal predicted probabilities.
	categories := uniqueSorted(labels)
	classIndex := make(map[string]int, len(categories))
	for i, cat := range categories {
		classIndex[cat] = i
	}

	nClasses := len(categories)
	nFeatures := vec.Dim()

	classCount := make([]float64, nClasses)
	featureSum := make([][]float64, nClasses)
	for i := range featureSum {
		featureSum[i] = make([]float64, nFeatures)
	}
	for i, x := range vectors {
		ci := classIndex[labels[i]]
		classCount[ci]++
		for j, v := range x {
			featureSum[ci][j] += v
		}
	}

	logPrior := make([]float64, nClasses)
	logProb := make([][]float64, nClasses)
	total := float64(len(vectors))
	for ci := 0; ci < nClasses; ci++ {
		logPrior[ci] = math.Log(classCount[ci] / total)

		rowSum := 0.0
		for _, v := range featureSum[ci] {
			rowSum += v
		}
		denom := math.Log(rowSum + smoothing*float64(nFeatures))
		logProb[ci] = make([]float64, nFeatures)
		for j, v := range featureSum[ci] {
			logProb[ci][j] = math.Log(v+smoothing) - denom
		}
	}

	c.st = state{
		Vectorizer:     vec,
		Categories:     categories,
		ClassLogPrior:  logPrior,
		FeatureLogProb: logProb,
	}
	c.trained = true

	correct := 0
	for i, x := range vectors {
		if categories[c.argmax(x)] == labels[i] {
			correct++
		}
	}
	accuracy := float64(correct) / total

	if err := c.Save(); err != nil {
		// The in-memory model stands even when the artifact write fails.
		slog.Error("Failed to save classifier artifact", "path", c.path, "error", err)
	}

	slog.Info("Classifier trained",
		"accuracy", fmt.Sprintf("%.2f", accuracy),
		"categories", len(categories))

	return &model.TrainingReport{
		Status:        model.StatusSuccess,
		SampleCount:   len(texts),
		CategoryCount: len(categories),
		Categories:    categories,
		Accuracy:      accuracy,
	}, nil
}

// Predict returns the topK categories for a description, best first.
// When no trained model is available it degrades to the keyword-rule
// fallback, which always yields exactly one prediction and never fails.
func (c *Classifier) Predict(text string, topK int) (model.Prediction, error) {
	if topK <= 0 {
		topK = 3
	}

	if !c.trained {
		slog.Warn("Classifier not trained, using keyword fallback")
		return fallbackPredict(text, c.rules), nil
	}

	x := c.st.Vectorizer.Transform(text)
	probs := c.probabilities(x)

	pred := make(model.Prediction, len(c.st.Categories))
	for i, cat := range c.st.Categories {
		pred[i] = model.CategoryPrediction{Category: cat, Confidence: clamp01(probs[i])}
	}
	pred.Sort()
	return pred.TopN(topK), nil
}

// probabilities converts class log-posteriors to probabilities with a
// numerically stable softmax.
func (c *Classifier) probabilities(x []float64) []float64 {
	logp := c.logJoint(x)

	maxLog := math.Inf(-1)
	for _, lp := range logp {
		if lp > maxLog {
			maxLog = lp
		}
	}
	var sum float64
	probs := make([]float64, len(logp))
	for i, lp := range logp {
		probs[i] = math.Exp(lp - maxLog)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func (c *Classifier) logJoint(x []float64) []float64 {
	logp := make([]float64, len(c.st.Categories))
	for ci := range c.st.Categories {
		lp := c.st.ClassLogPrior[ci]
		for j, v := range x {
			if v != 0 {
				lp += v * c.st.FeatureLogProb[ci][j]
			}
		}
		logp[ci] = lp
	}
	return logp
}

func (c *Classifier) argmax(x []float64) int {
	logp := c.logJoint(x)
	best := 0
	for i := 1; i < len(logp); i++ {
		if logp[i] > logp[best] {
			best = i
		}
	}
	return best
}

// Save writes the fitted state to the configured artifact path.
func (c *Classifier) Save() error {
	return artifact.Save(c.path, Kind, c.trained, &c.st)
}

// Load reads the artifact from disk, returning true on success. Missing,
// corrupt or mismatched artifacts leave the classifier untrained.
func (c *Classifier) Load() (bool, error) {
	var st state
	trained, err := artifact.Load(c.path, Kind, &st)
	if err != nil {
		return false, err
	}
	c.st = st
	if c.st.Vectorizer == nil {
		c.st.Vectorizer = feature.NewVectorizer()
	}
	c.trained = trained
	return true, nil
}

func uniqueSorted(labels []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
