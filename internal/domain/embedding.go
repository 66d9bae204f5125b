package domain

import (
	"context"
)

// EmbeddingService turns text into a vector. It backs the near-duplicate
// question filter.
type EmbeddingService interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}
