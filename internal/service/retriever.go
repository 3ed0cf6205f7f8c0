package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/voxinvoice/invoice-assistant/internal/adapter/store"
	"github.com/voxinvoice/invoice-assistant/internal/domain"
	"github.com/voxinvoice/invoice-assistant/internal/port"
)

// DefaultTopK is the number of matches returned when the caller does not ask
// for a specific count.
const DefaultTopK = 3

// Retriever ranks stored invoices against a query embedding with a
// brute-force cosine scan. No index structure: store sizes here are small
// and correctness is the goal, not asymptotic scale.
type Retriever struct {
	store *store.MemoryStore
}

// NewRetriever creates a retriever over the given store.
func NewRetriever(st *store.MemoryStore) *Retriever {
	return &Retriever{store: st}
}

// Search returns at most k matches in descending score order. Ties keep
// store insertion order. Queries of the wrong dimension fail fast rather
// than silently producing wrong scores.
func (r *Retriever) Search(query []float32, k int) ([]domain.ScoredMatch, error) {
	if len(query) != r.store.Dimension() {
		return nil, fmt.Errorf("search: %w: got %d, want %d",
			port.ErrDimensionMismatch, len(query), r.store.Dimension())
	}
	if k <= 0 {
		k = DefaultTopK
	}

	records := r.store.List()
	matches := make([]domain.ScoredMatch, len(records))
	for i, rec := range records {
		matches[i] = domain.ScoredMatch{
			Record: rec,
			Score:  CosineSimilarity(query, rec.Embedding),
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// CosineSimilarity returns dot(a,b)/(|a|*|b|), defined as 0 when either
// vector has zero norm.
func CosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
