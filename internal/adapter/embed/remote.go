package embed

import (
	"context"
	"fmt"

	"github.com/voxinvoice/invoice-assistant/internal/port"
)

// RemoteStrategy delegates embedding to the configured AI provider and
// normalizes the result to the process-wide dimension.
type RemoteStrategy struct {
	ai        port.AIProvider
	dimension int
}

// NewRemoteStrategy creates a remote strategy backed by the given provider.
func NewRemoteStrategy(ai port.AIProvider, dimension int) *RemoteStrategy {
	return &RemoteStrategy{ai: ai, dimension: dimension}
}

// Name returns the strategy identifier.
func (s *RemoteStrategy) Name() string { return "remote" }

// Embed calls the remote embedding service.
func (s *RemoteStrategy) Embed(ctx context.Context, text string) ([]float32, error) {
	if !s.ai.Configured() {
		return nil, port.ErrNotConfigured
	}
	vec, err := s.ai.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("remote embed: %w", err)
	}
	return FitDimension(vec, s.dimension), nil
}

// FitDimension pads with zeros or trims so every vector matches the
// process-wide embedding dimension.
func FitDimension(vec []float32, dimension int) []float32 {
	if len(vec) == dimension {
		return vec
	}
	out := make([]float32, dimension)
	copy(out, vec)
	return out
}
