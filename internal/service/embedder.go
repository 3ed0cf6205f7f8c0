package service

import (
	"context"
	"log/slog"

	"github.com/voxinvoice/invoice-assistant/internal/port"
)

// Embedder selects between the remote embedding strategy and the local
// deterministic fallback. Remote failures are logged and absorbed, never
// propagated: ingestion must not block on the network.
type Embedder struct {
	primary   port.EmbeddingStrategy // may be nil when no remote service exists
	fallback  port.EmbeddingStrategy
	dimension int
}

// NewEmbedder creates an embedder. fallback must never fail; primary may be
// nil to force fallback-only operation.
func NewEmbedder(primary, fallback port.EmbeddingStrategy, dimension int) *Embedder {
	return &Embedder{primary: primary, fallback: fallback, dimension: dimension}
}

// Dimension returns the process-wide embedding dimension.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed produces a vector for the given text. The contract is total: any
// remote failure degrades to the deterministic fallback.
func (e *Embedder) Embed(ctx context.Context, text string) []float32 {
	if e.primary != nil {
		vec, err := e.primary.Embed(ctx, text)
		if err == nil {
			return vec
		}
		slog.Warn("embedding strategy failed, falling back",
			"strategy", e.primary.Name(),
			"fallback", e.fallback.Name(),
			"error", err,
		)
	}

	vec, _ := e.fallback.Embed(ctx, text)
	return vec
}
