package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
// Implementations report unavailability (provider error, timeout, quota) by
// returning an error wrapping ErrEmbeddingUnavailable, never a partial
// vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the
// decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
