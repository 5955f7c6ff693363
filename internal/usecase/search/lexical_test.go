package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youthconnect/activityfinder/internal/catalog"
	"github.com/youthconnect/activityfinder/internal/domain"
)

var fixedNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func opp(org, activity, desc string, categories []string, updated string) domain.Opportunity {
	return domain.Opportunity{
		OrganizationName:    org,
		ActivityName:        activity,
		ActivityDescription: desc,
		Tags:                domain.Tags{Categories: categories},
		LastUpdated:         domain.LastUpdated{Date: updated},
	}
}

func TestScoreOpportunity_OverlapAndTags(t *testing.T) {
	op := opp("City Parks", "Swim Lessons", "learn to swim in a heated pool", []string{"Sports", "Swimming"}, "")

	// "swim" hits the haystack (+10) and both tags miss except "Swimming"
	// (+5); "pool" hits the haystack (+10).
	score := scoreOpportunity(&op, []string{"swim", "pool"}, fixedNow)
	assert.InDelta(t, 25.0, score, 1e-9)
}

func TestScoreOpportunity_NoMatches(t *testing.T) {
	op := opp("City Parks", "Swim Lessons", "", nil, "")

	assert.Equal(t, 0.0, scoreOpportunity(&op, []string{"chess"}, fixedNow))
}

func TestRecencyBoost(t *testing.T) {
	tests := []struct {
		name    string
		updated string
		want    float64
	}{
		{"today", "2026-03-01", 10.0},
		{"thirty days old", "2026-01-30", 9.0},
		{"stale beyond decay", "2024-01-01", 0.0},
		{"future date clamps to full boost", "2026-06-01", 10.0},
		{"missing", "", 0.0},
		{"unparsable", "March 1st", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, recencyBoost(tt.updated, fixedNow), 1e-9)
		})
	}
}

func TestScoreOpportunity_RecencyAloneScoresPositive(t *testing.T) {
	op := opp("City Parks", "Swim Lessons", "", nil, "2026-02-28")

	// No token matches at all, but a fresh record still scores.
	score := scoreOpportunity(&op, []string{"chess"}, fixedNow)
	assert.Greater(t, score, 0.0)
}

func TestRankLexical_OrdersAndDropsZeroScores(t *testing.T) {
	idx, err := catalog.NewIndex([]catalog.Record{
		{Opportunity: opp("Library", "Chess Club", "weekly chess for teens", []string{"Games"}, "")},
		{Opportunity: opp("Parks", "Soccer", "youth soccer league", []string{"Sports"}, "")},
		{Opportunity: opp("Museum", "Art Camp", "painting and drawing", []string{"Arts"}, "")},
	})
	require.NoError(t, err)

	ranked, err := rankLexical(context.Background(), idx, []string{"chess"}, fixedNow)
	require.NoError(t, err)

	require.Len(t, ranked, 1)
	assert.Equal(t, 0, ranked[0].index)
	assert.Greater(t, ranked[0].score, 0.0)
}

func TestRankLexical_TiesKeepCatalogOrder(t *testing.T) {
	idx, err := catalog.NewIndex([]catalog.Record{
		{Opportunity: opp("Parks", "Soccer A", "soccer", nil, "")},
		{Opportunity: opp("Parks", "Soccer B", "soccer", nil, "")},
	})
	require.NoError(t, err)

	ranked, err := rankLexical(context.Background(), idx, []string{"soccer"}, fixedNow)
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, 0, ranked[0].index)
	assert.Equal(t, 1, ranked[1].index)
}

func TestNormalizeScores(t *testing.T) {
	ranked := []candidate{
		{index: 0, score: 40},
		{index: 1, score: 20},
		{index: 2, score: 10},
	}

	normalizeScores(ranked)

	assert.InDelta(t, 1.0, ranked[0].score, 1e-9)
	assert.InDelta(t, 0.5, ranked[1].score, 1e-9)
	assert.InDelta(t, 0.25, ranked[2].score, 1e-9)
}

func TestNormalizeScores_Empty(t *testing.T) {
	normalizeScores(nil) // must not panic
}
