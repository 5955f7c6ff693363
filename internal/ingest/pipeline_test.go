package ingest

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/youthconnect/activityfinder/internal/catalog"
	"github.com/youthconnect/activityfinder/internal/domain"
)

type recordingEmbedder struct {
	mu    sync.Mutex
	texts []string
	fail  map[string]error
}

func (e *recordingEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	e.mu.Lock()
	e.texts = append(e.texts, text)
	e.mu.Unlock()

	for substr, err := range e.fail {
		if substr != "" && strings.Contains(text, substr) {
			return domain.EmbeddingResult{}, err
		}
	}
	return domain.EmbeddingResult{Embedding: []float32{1, 2, 3}}, nil
}

func TestRun_EmbedsOnlyRecordsWithoutVectors(t *testing.T) {
	records := []catalog.Record{
		{Opportunity: domain.Opportunity{OrganizationName: "Parks", ActivityName: "Swim"}},
		{
			Opportunity: domain.Opportunity{OrganizationName: "Library", ActivityName: "Chess"},
			Embedding:   []float32{9, 9, 9},
		},
		{Opportunity: domain.Opportunity{OrganizationName: "Museum", ActivityName: "Art"}},
	}

	embed := &recordingEmbedder{}
	p := NewPipeline(embed, zap.NewNop(), WithWorkers(2))

	embedded, err := p.Run(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 2, embedded)
	assert.Equal(t, []float32{1, 2, 3}, records[0].Embedding)
	assert.Equal(t, []float32{9, 9, 9}, records[1].Embedding)
	assert.Equal(t, []float32{1, 2, 3}, records[2].Embedding)
	assert.Len(t, embed.texts, 2)
}

func TestRun_PerRecordFailureSkipsRecord(t *testing.T) {
	records := []catalog.Record{
		{Opportunity: domain.Opportunity{OrganizationName: "Parks", ActivityName: "Swim"}},
		{Opportunity: domain.Opportunity{OrganizationName: "Library", ActivityName: "Chess"}},
	}

	embed := &recordingEmbedder{fail: map[string]error{"Chess": domain.ErrEmbeddingUnavailable}}
	p := NewPipeline(embed, zap.NewNop(), WithWorkers(1))

	embedded, err := p.Run(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 1, embedded)
	assert.NotEmpty(t, records[0].Embedding)
	assert.Empty(t, records[1].Embedding)
}

func TestRun_CancelledContext(t *testing.T) {
	records := []catalog.Record{
		{Opportunity: domain.Opportunity{OrganizationName: "Parks", ActivityName: "Swim"}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(&recordingEmbedder{}, zap.NewNop(), WithWorkers(1))

	_, err := p.Run(ctx, records)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmbeddingText(t *testing.T) {
	op := domain.Opportunity{
		OrganizationName:    "City Parks",
		ActivityName:        "Swim Lessons",
		ActivityDescription: "learn to swim",
		AgeRange:            "6-12",
		Cost:                "$30",
		Tags:                domain.Tags{Categories: []string{"Sports", "Swimming"}},
	}

	text := EmbeddingText(&op)

	assert.Equal(t, "City Parks\nSwim Lessons\nlearn to swim\n6-12\n$30\nSports Swimming", text)
}

func TestEmbeddingText_SkipsEmptyFields(t *testing.T) {
	op := domain.Opportunity{ActivityName: "Chess Club"}

	assert.Equal(t, "Chess Club", EmbeddingText(&op))
}

func TestWriteCatalog_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	records := []catalog.Record{
		{
			Opportunity: domain.Opportunity{OrganizationName: "Parks", ActivityName: "Swim"},
			Embedding:   []float32{0.5, 1.5},
		},
	}

	require.NoError(t, WriteCatalog(path, records))

	loaded, err := catalog.Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Swim", loaded[0].ActivityName)
	assert.Equal(t, []float32{0.5, 1.5}, loaded[0].Embedding)
}
