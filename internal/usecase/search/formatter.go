package search

import (
	"github.com/youthconnect/activityfinder/internal/catalog"
	"github.com/youthconnect/activityfinder/internal/domain/search/request"
	"github.com/youthconnect/activityfinder/internal/domain/search/result"
)

// formatResults converts selected candidates into the externally visible
// result shape: truncated to limit, scores carried through as-is, ranked
// order preserved (never re-sorted). Embedding vectors stay behind; the
// result type only carries the opportunity payload. A non-positive limit
// falls back to request.DefaultLimit.
func formatResults(idx *catalog.Index, selected []candidate, limit int) []result.Result {
	if limit <= 0 {
		limit = request.DefaultLimit
	}
	if len(selected) > limit {
		selected = selected[:limit]
	}

	out := make([]result.Result, len(selected))
	for i, c := range selected {
		out[i] = result.New(c.score, idx.Opportunity(c.index))
	}
	return out
}
