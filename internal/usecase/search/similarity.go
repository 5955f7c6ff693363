package search

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/youthconnect/activityfinder/internal/catalog"
	"github.com/youthconnect/activityfinder/internal/domain"
)

// candidate references one catalog record by position with its score.
// Carrying the position instead of the record keeps ties resolvable by
// catalog order and defers payload access to the formatter.
type candidate struct {
	index int
	score float64
}

// cancelCheckEvery bounds how often the ranking loops poll ctx. Ranking a
// bounded in-memory catalog is cheap; a coarse check is enough.
const cancelCheckEvery = 256

// rankSemantic scores every embedded catalog record against the query
// vector by cosine similarity and returns candidates sorted by descending
// score, ties broken by catalog order. Records without a vector are skipped.
func rankSemantic(ctx context.Context, idx *catalog.Index, query []float32) ([]candidate, error) {
	if len(query) != idx.Dimensions() {
		return nil, domain.NewDimensionMismatch(len(query), idx.Dimensions())
	}

	ranked := make([]candidate, 0, idx.EmbeddedCount())
	for i := 0; i < idx.Len(); i++ {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("semantic ranking cancelled: %w", err)
			}
		}
		vec := idx.Vector(i)
		if vec == nil {
			continue
		}
		ranked = append(ranked, candidate{index: i, score: cosineSimilarity(query, vec)})
	}

	sortByScore(ranked)
	return ranked, nil
}

// cosineSimilarity returns the cosine of the angle between a and b.
// Zero-magnitude input yields 0, matching the reference behavior.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// sortByScore orders candidates by descending score. The sort is stable and
// candidates are appended in catalog order, so equal scores keep catalog
// order and responses stay deterministic for identical inputs.
func sortByScore(ranked []candidate) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
}
