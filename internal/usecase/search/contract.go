package search

import (
	"context"

	"github.com/youthconnect/activityfinder/internal/catalog"
	"github.com/youthconnect/activityfinder/internal/domain"
)

// Snapshots hands out the current immutable catalog index. One snapshot is
// taken per request and used for the whole request.
type Snapshots interface {
	Snapshot() *catalog.Index
}

// Embedder vectorizes query text. Unavailability is reported by an error
// wrapping domain.ErrEmbeddingUnavailable.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
