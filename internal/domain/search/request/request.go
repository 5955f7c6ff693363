// Package request holds the validated search request.
package request

import (
	"fmt"
	"strings"

	"github.com/youthconnect/activityfinder/internal/domain"
)

// Search parameter limits and defaults.
const (
	MaxQueryLength    = 1024
	DefaultLimit      = 10
	MaxLimit          = 100
	DefaultMinResults = 3
	DefaultThreshold  = 0.75
)

// Request is a validated search query.
type Request struct {
	query      string
	limit      int
	minResults int
	threshold  float64
}

// New validates and normalizes search parameters. Non-positive limit and
// min_results fall back to their defaults (zero is outside their domain);
// limit is clamped to MaxLimit, min_results to limit. The threshold is taken
// as given: zero is a valid cutoff meaning "return the top limit", so
// callers substitute DefaultThreshold themselves when the parameter was not
// supplied at all.
func New(query string, limit, minResults int, threshold float64) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if minResults <= 0 {
		minResults = DefaultMinResults
	}
	if minResults > limit {
		minResults = limit
	}
	if threshold < 0 || threshold > 1 {
		return Request{}, fmt.Errorf("%w: threshold must be between 0 and 1", domain.ErrInvalidQuery)
	}

	return Request{
		query:      query,
		limit:      limit,
		minResults: minResults,
		threshold:  threshold,
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }

// MinResults returns the soft floor on result count.
func (r *Request) MinResults() int { return r.minResults }

// Threshold returns the starting similarity cutoff.
func (r *Request) Threshold() float64 { return r.threshold }

// Tokens returns the lowercase query tokens used by lexical scoring.
func (r *Request) Tokens() []string {
	return strings.Fields(strings.ToLower(r.query))
}
