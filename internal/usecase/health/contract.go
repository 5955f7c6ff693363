package health

import (
	"context"

	"github.com/youthconnect/activityfinder/internal/catalog"
)

// Snapshots hands out the current catalog index.
type Snapshots interface {
	Snapshot() *catalog.Index
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
