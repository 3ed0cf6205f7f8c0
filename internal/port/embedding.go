package port

import "context"

// EmbeddingStrategy defines one way of turning text into a fixed-length
// vector (Strategy Pattern). The remote and local-fallback variants are
// explicit so both paths stay independently testable.
type EmbeddingStrategy interface {
	// Name returns the unique name of this strategy (e.g. "remote", "local-fallback").
	Name() string

	// Embed produces a vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
}
