// Package result holds the externally visible search hit shape.
package result

import "github.com/youthconnect/activityfinder/internal/domain"

// Result is a single search hit: a relevance score plus the opportunity
// payload. Embedding vectors never cross this boundary.
type Result struct {
	score       float64
	opportunity domain.Opportunity
}

// New creates a search result.
func New(score float64, opportunity domain.Opportunity) Result {
	return Result{score: score, opportunity: opportunity}
}

// Score returns the relevance score.
func (r *Result) Score() float64 { return r.score }

// Opportunity returns the catalog record.
func (r *Result) Opportunity() domain.Opportunity { return r.opportunity }
