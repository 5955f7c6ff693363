package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/youthconnect/activityfinder/internal/catalog"
	"github.com/youthconnect/activityfinder/internal/domain"
)

// Lexical scoring weights. A token matching the haystack is worth
// overlapWeight; each category tag it matches adds tagWeight on top.
// Recency adds up to recencyMaxBoost points, decaying linearly to zero
// over recencyMaxBoost*recencyDecayDays days.
const (
	overlapWeight    = 10.0
	tagWeight        = 5.0
	recencyMaxBoost  = 10.0
	recencyDecayDays = 30.0
)

// rankLexical scores every catalog record against the query tokens and
// returns candidates sorted by descending score, ties broken by catalog
// order. Records scoring exactly zero (no token match and no recency
// signal) are dropped: they carry no relevance information at all.
func rankLexical(ctx context.Context, idx *catalog.Index, tokens []string, now time.Time) ([]candidate, error) {
	ranked := make([]candidate, 0, idx.Len())
	for i := 0; i < idx.Len(); i++ {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("lexical ranking cancelled: %w", err)
			}
		}
		op := idx.Opportunity(i)
		if score := scoreOpportunity(&op, tokens, now); score > 0 {
			ranked = append(ranked, candidate{index: i, score: score})
		}
	}

	sortByScore(ranked)
	return ranked, nil
}

// scoreOpportunity is a pure function of (record, tokens, now):
// overlap*10 + tagBoost*5 + recencyBoost. Safe to run in parallel across
// candidates.
func scoreOpportunity(op *domain.Opportunity, tokens []string, now time.Time) float64 {
	haystack := strings.ToLower(strings.Join([]string{
		op.OrganizationName,
		op.ActivityName,
		op.ProgramDescription,
		op.ActivityDescription,
		strings.Join(op.Tags.Categories, " "),
	}, " "))

	var score float64
	for _, token := range tokens {
		if strings.Contains(haystack, token) {
			score += overlapWeight
		}
		for _, tag := range op.Tags.Categories {
			if strings.Contains(strings.ToLower(tag), token) {
				score += tagWeight
			}
		}
	}

	return score + recencyBoost(op.LastUpdated.Date, now)
}

// recencyBoost returns max(0, 10 - daysSinceUpdate/30). Unparsable or
// missing dates get no boost.
func recencyBoost(updated string, now time.Time) float64 {
	if updated == "" {
		return 0
	}
	t, err := time.Parse("2006-01-02", updated)
	if err != nil {
		return 0
	}
	days := now.Sub(t).Hours() / 24
	if days < 0 {
		days = 0
	}
	boost := recencyMaxBoost - days/recencyDecayDays
	if boost < 0 {
		return 0
	}
	return boost
}

// normalizeScores maps lexical scores into [0,1] by dividing by the top
// score, so the adaptive threshold applies uniformly to both scoring paths.
// Ranked order is unchanged. No-op when the set is empty.
func normalizeScores(ranked []candidate) {
	if len(ranked) == 0 {
		return
	}
	top := ranked[0].score
	if top <= 0 {
		return
	}
	for i := range ranked {
		ranked[i].score /= top
	}
}
