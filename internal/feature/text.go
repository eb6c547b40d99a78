// Package feature turns raw transactions into numeric feature vectors.
// Transform parameters are fit once during training and persisted with the
// owning model; nothing here re-fits silently at inference time.
package feature

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultMaxFeatures caps the vectorizer vocabulary size.
const DefaultMaxFeatures = 1000

// stopWords is the fixed English stop-word set removed before n-gram
// extraction. Descriptions are bank strings, so the list stays small.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"to": {}, "was": {}, "were": {}, "will": {}, "with": {}, "this": {},
	"these": {}, "those": {}, "you": {}, "your": {}, "i": {}, "my": {},
	"we": {}, "our": {}, "they": {}, "their": {}, "not": {}, "no": {},
	"but": {}, "if": {}, "so": {}, "than": {}, "then": {}, "there": {},
	"all": {}, "any": {}, "can": {}, "do": {}, "have": {}, "had": {},
}

// Vectorizer maps free-text descriptions to fixed-width TF-IDF vectors over
// unigrams and bigrams. The vocabulary and IDF weights are part of the
// classifier's persisted state.
type Vectorizer struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	MaxFeatures int            `json:"max_features"`
}

// NewVectorizer creates an unfitted vectorizer with the default capacity.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{MaxFeatures: DefaultMaxFeatures}
}

// Fitted reports whether Fit has been called.
func (v *Vectorizer) Fitted() bool {
	return len(v.Vocabulary) > 0
}

// Dim returns the width of vectors produced by Transform.
func (v *Vectorizer) Dim() int {
	return len(v.IDF)
}

// Tokenize lowercases, strips non-alphabetic characters, splits on
// whitespace and removes stop words.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := fields[:0]
	for _, tok := range fields {
		if _, skip := stopWords[tok]; !skip {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// terms produces the unigrams and bigrams of a tokenized description.
func terms(tokens []string) []string {
	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// Fit learns the vocabulary and IDF weights from the training corpus.
// The vocabulary keeps the MaxFeatures most frequent terms; ties break
// alphabetically so fitting is deterministic.
func (v *Vectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return fmt.Errorf("cannot fit vectorizer on empty corpus")
	}
	if v.MaxFeatures <= 0 {
		v.MaxFeatures = DefaultMaxFeatures
	}

	totalCount := make(map[string]int)
	docCount := make(map[string]int)
	for _, doc := range docs {
		ts := terms(Tokenize(doc))
		seen := make(map[string]bool, len(ts))
		for _, t := range ts {
			totalCount[t]++
			if !seen[t] {
				docCount[t]++
				seen[t] = true
			}
		}
	}

	candidates := make([]string, 0, len(totalCount))
	for t := range totalCount {
		candidates = append(candidates, t)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if totalCount[candidates[i]] != totalCount[candidates[j]] {
			return totalCount[candidates[i]] > totalCount[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > v.MaxFeatures {
		candidates = candidates[:v.MaxFeatures]
	}
	sort.Strings(candidates)

	n := float64(len(docs))
	v.Vocabulary = make(map[string]int, len(candidates))
	v.IDF = make([]float64, len(candidates))
	for i, t := range candidates {
		v.Vocabulary[t] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(docCount[t]))) + 1
	}
	return nil
}

// Transform maps one description to its TF-IDF vector using the fitted
// vocabulary. Out-of-vocabulary terms contribute zero. The result is
// L2-normalized; an all-zero vector stays zero.
func (v *Vectorizer) Transform(doc string) []float64 {
	vec := make([]float64, len(v.IDF))
	if !v.Fitted() {
		return vec
	}

	for _, t := range terms(Tokenize(doc)) {
		if idx, ok := v.Vocabulary[t]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for i := range vec {
		vec[i] *= v.IDF[i]
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// TransformAll vectorizes a batch of descriptions.
func (v *Vectorizer) TransformAll(docs []string) [][]float64 {
	out := make([][]float64, len(docs))
	for i, doc := range docs {
		out[i] = v.Transform(doc)
	}
	return out
}
