package embed

import (
	"context"
	"math"
)

// LocalFallbackStrategy synthesizes deterministic embeddings without any
// network dependency. The vectors are low quality but structurally valid,
// which keeps ingestion alive when the remote embedding service is down.
type LocalFallbackStrategy struct {
	dimension int
}

// NewLocalFallbackStrategy creates a fallback strategy producing vectors of
// the given dimension.
func NewLocalFallbackStrategy(dimension int) *LocalFallbackStrategy {
	return &LocalFallbackStrategy{dimension: dimension}
}

// Name returns the strategy identifier.
func (s *LocalFallbackStrategy) Name() string { return "local-fallback" }

// Embed folds the text into a 32-bit hash and expands it into a vector:
// component i is sin(hash+i) * 0.1.
func (s *LocalFallbackStrategy) Embed(_ context.Context, text string) ([]float32, error) {
	h := textHash(text)
	vec := make([]float32, s.dimension)
	for i := range vec {
		vec[i] = float32(math.Sin(float64(h)+float64(i)) * 0.1)
	}
	return vec, nil
}

// textHash is a polynomial rolling hash (h = h*31 + c) wrapped to 32 bits.
func textHash(text string) int32 {
	var h int32
	for _, c := range text {
		h = h*31 + int32(c)
	}
	return h
}
