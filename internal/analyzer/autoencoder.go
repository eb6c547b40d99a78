package analyzer

import (
	"fmt"
	"math"
	"math/rand"
)

// Network shape: input -> hidden (ReLU) -> embedding (sigmoid) ->
// hidden (ReLU) -> output (linear). The sigmoid keeps embeddings in
// (0, 1) so the pattern thresholds have a fixed scale.
const (
	hiddenDim    = 16
	embeddingDim = 8
)

// randomSeed makes weight init and epoch shuffling reproducible.
const randomSeed = 42

// Autoencoder is a compact encoder-decoder network trained to reconstruct
// standardized daily feature vectors. Reconstruction error serves as the
// anomaly signal; the bottleneck activations are the embedding.
// Fields are exported so the fitted weights serialize into the artifact.
type Autoencoder struct {
	InputDim int         `json:"input_dim"`
	W1       [][]float64 `json:"w1"`
	B1       []float64   `json:"b1"`
	W2       [][]float64 `json:"w2"`
	B2       []float64   `json:"b2"`
	W3       [][]float64 `json:"w3"`
	B3       []float64   `json:"b3"`
	W4       [][]float64 `json:"w4"`
	B4       []float64   `json:"b4"`
}

// FitResult summarizes a training run.
type FitResult struct {
	Loss    float64
	ValLoss float64
	Epochs  int
}

// NewAutoencoder creates a network with Xavier-scaled random weights.
func NewAutoencoder(inputDim int) *Autoencoder {
	rng := rand.New(rand.NewSource(randomSeed))
	return &Autoencoder{
		InputDim: inputDim,
		W1:       randomMatrix(rng, hiddenDim, inputDim),
		B1:       make([]float64, hiddenDim),
		W2:       randomMatrix(rng, embeddingDim, hiddenDim),
		B2:       make([]float64, embeddingDim),
		W3:       randomMatrix(rng, hiddenDim, embeddingDim),
		B3:       make([]float64, hiddenDim),
		W4:       randomMatrix(rng, inputDim, hiddenDim),
		B4:       make([]float64, inputDim),
	}
}

func randomMatrix(rng *rand.Rand, rows, cols int) [][]float64 {
	scale := math.Sqrt(1.0 / float64(cols))
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := range m[i] {
			m[i][j] = rng.NormFloat64() * scale
		}
	}
	return m
}

// activations holds the intermediate values of one forward pass,
// kept for backpropagation.
type activations struct {
	z1, a1 []float64
	emb    []float64
	z3, a3 []float64
	out    []float64
}

func (n *Autoencoder) forward(x []float64) *activations {
	act := &activations{}
	act.z1 = affine(n.W1, n.B1, x)
	act.a1 = relu(act.z1)
	act.emb = sigmoid(affine(n.W2, n.B2, act.a1))
	act.z3 = affine(n.W3, n.B3, act.emb)
	act.a3 = relu(act.z3)
	act.out = affine(n.W4, n.B4, act.a3)
	return act
}

// Embed maps a standardized feature vector to its embedding.
func (n *Autoencoder) Embed(x []float64) []float64 {
	return n.forward(x).emb
}

// ReconstructionError is the mean squared error between x and the
// network's reconstruction of it.
func (n *Autoencoder) ReconstructionError(x []float64) float64 {
	out := n.forward(x).out
	var sum float64
	for i := range x {
		d := out[i] - x[i]
		sum += d * d
	}
	return sum / float64(len(x))
}

// Fit trains the network to reconstruct its input with per-sample
// gradient descent, holding out a validation split for early stopping
// with best-weights restore. onEpoch, when non-nil, is called after each
// completed epoch.
func (n *Autoencoder) Fit(matrix [][]float64, epochs int, lr float64, patience int, onEpoch func(done, total int)) (*FitResult, error) {
	if len(matrix) == 0 {
		return nil, fmt.Errorf("cannot fit autoencoder on empty matrix")
	}
	if epochs <= 0 {
		epochs = 50
	}
	if lr <= 0 {
		lr = 0.01
	}
	if patience <= 0 {
		patience = 10
	}

	rng := rand.New(rand.NewSource(randomSeed))
	indices := rng.Perm(len(matrix))

	// 20% validation split, at least one training row.
	valSize := len(matrix) / 5
	if valSize >= len(matrix) {
		valSize = len(matrix) - 1
	}
	trainIdx := indices[:len(matrix)-valSize]
	valIdx := indices[len(matrix)-valSize:]

	best := n.snapshot()
	bestVal := math.Inf(1)
	sinceBest := 0
	var trainLoss, valLoss float64
	epochsRun := 0

	for epoch := 0; epoch < epochs; epoch++ {
		epochsRun++
		rng.Shuffle(len(trainIdx), func(i, j int) {
			trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i]
		})

		trainLoss = 0
		for _, idx := range trainIdx {
			trainLoss += n.step(matrix[idx], lr)
		}
		trainLoss /= float64(len(trainIdx))

		valLoss = trainLoss
		if len(valIdx) > 0 {
			valLoss = 0
			for _, idx := range valIdx {
				valLoss += n.ReconstructionError(matrix[idx])
			}
			valLoss /= float64(len(valIdx))
		}

		if onEpoch != nil {
			onEpoch(epoch+1, epochs)
		}

		if valLoss < bestVal {
			bestVal = valLoss
			best = n.snapshot()
			sinceBest = 0
		} else {
			sinceBest++
			if sinceBest >= patience {
				break
			}
		}
	}

	n.restore(best)
	return &FitResult{Loss: trainLoss, ValLoss: bestVal, Epochs: epochsRun}, nil
}

// step runs one forward/backward pass on a single sample and returns its
// reconstruction loss before the update.
func (n *Autoencoder) step(x []float64, lr float64) float64 {
	act := n.forward(x)
	d := float64(len(x))

	var loss float64
	dOut := make([]float64, len(x))
	for i := range x {
		diff := act.out[i] - x[i]
		loss += diff * diff
		dOut[i] = 2 * diff / d
	}
	loss /= d

	// Output layer (linear).
	dA3 := backprop(n.W4, n.B4, act.a3, dOut, lr)
	// Decoder hidden (ReLU).
	dZ3 := reluGrad(act.z3, dA3)
	dEmb := backprop(n.W3, n.B3, act.emb, dZ3, lr)
	// Embedding (sigmoid).
	dZ2 := make([]float64, len(act.emb))
	for i, e := range act.emb {
		dZ2[i] = dEmb[i] * e * (1 - e)
	}
	dA1 := backprop(n.W2, n.B2, act.a1, dZ2, lr)
	// Encoder hidden (ReLU).
	dZ1 := reluGrad(act.z1, dA1)
	backprop(n.W1, n.B1, x, dZ1, lr)

	return loss
}

// backprop applies the gradient update for one dense layer and returns
// the gradient with respect to its input.
func backprop(w [][]float64, b []float64, input, dOut []float64, lr float64) []float64 {
	dIn := make([]float64, len(input))
	for i := range w {
		g := dOut[i]
		for j := range w[i] {
			dIn[j] += w[i][j] * g
			w[i][j] -= lr * g * input[j]
		}
		b[i] -= lr * g
	}
	return dIn
}

func affine(w [][]float64, b []float64, x []float64) []float64 {
	out := make([]float64, len(w))
	for i := range w {
		sum := b[i]
		for j, v := range x {
			sum += w[i][j] * v
		}
		out[i] = sum
	}
	return out
}

func relu(z []float64) []float64 {
	out := make([]float64, len(z))
	for i, v := range z {
		if v > 0 {
			out[i] = v
		}
	}
	return out
}

func reluGrad(z, dOut []float64) []float64 {
	out := make([]float64, len(z))
	for i, v := range z {
		if v > 0 {
			out[i] = dOut[i]
		}
	}
	return out
}

func sigmoid(z []float64) []float64 {
	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = 1 / (1 + math.Exp(-v))
	}
	return out
}

type weights struct {
	w1, w2, w3, w4 [][]float64
	b1, b2, b3, b4 []float64
}

func (n *Autoencoder) snapshot() weights {
	return weights{
		w1: copyMatrix(n.W1), b1: copyVec(n.B1),
		w2: copyMatrix(n.W2), b2: copyVec(n.B2),
		w3: copyMatrix(n.W3), b3: copyVec(n.B3),
		w4: copyMatrix(n.W4), b4: copyVec(n.B4),
	}
}

func (n *Autoencoder) restore(s weights) {
	n.W1, n.B1 = copyMatrix(s.w1), copyVec(s.b1)
	n.W2, n.B2 = copyMatrix(s.w2), copyVec(s.b2)
	n.W3, n.B3 = copyMatrix(s.w3), copyVec(s.b3)
	n.W4, n.B4 = copyMatrix(s.w4), copyVec(s.b4)
}

func copyMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i := range m {
		out[i] = copyVec(m[i])
	}
	return out
}

func copyVec(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
