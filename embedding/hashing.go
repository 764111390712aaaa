package embedding

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/hupe1980/veridex/distance"
)

// maxHashedWords caps how many leading words contribute to the vector.
// Positions beyond that add almost no weight (1/(pos+1)) anyway.
const maxHashedWords = 50

// Hashing is a deterministic, model-free embedding provider.
//
// Each of the first 50 words is hashed into one of D buckets and weighted by
// 1/(position+1), then the vector is L2-normalized. The result approximates
// bag-of-words similarity: shared vocabulary lands in shared buckets. It is a
// pure function of the input bytes, which makes the whole pipeline testable
// without model files.
type Hashing struct {
	dimension int
}

var _ Provider = (*Hashing)(nil)

// NewHashing creates a hashing provider with the given output dimension.
func NewHashing(dimension int) *Hashing {
	return &Hashing{dimension: dimension}
}

// Embed returns the hashed bag-of-words vector for text.
//
// Empty or whitespace-only text yields the zero vector, unnormalized; every
// other input yields a unit vector. Embed never fails.
func (h *Hashing) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, h.dimension)

	words := strings.Fields(strings.ToLower(text))
	if len(words) > maxHashedWords {
		words = words[:maxHashedWords]
	}

	for i, word := range words {
		hasher := fnv.New64a()
		_, _ = hasher.Write([]byte(word))
		idx := hasher.Sum64() % uint64(h.dimension)
		vec[idx] += 1.0 / float32(i+1)
	}

	distance.NormalizeL2InPlace(vec)
	return vec, nil
}

// Dimension returns the configured output dimension.
func (h *Hashing) Dimension() int { return h.dimension }

// Close is a no-op; the hashing provider holds no resources.
func (h *Hashing) Close() error { return nil }
