package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youthconnect/activityfinder/internal/domain"
)

func rec(org, activity string, embedding []float32) Record {
	return Record{
		Opportunity: domain.Opportunity{
			OrganizationName: org,
			ActivityName:     activity,
		},
		Embedding: embedding,
	}
}

func TestNewIndex(t *testing.T) {
	idx, err := NewIndex([]Record{
		rec("Parks", "Swim Lessons", []float32{1, 0, 0}),
		rec("Parks", "Pottery", nil),
		rec("Library", "Story Time", []float32{0, 1, 0}),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 3, idx.Dimensions())
	assert.Equal(t, 2, idx.EmbeddedCount())
	assert.True(t, idx.HasEmbeddings())
	assert.Nil(t, idx.Vector(1))
	assert.Equal(t, "Story Time", idx.Opportunity(2).ActivityName)
}

func TestNewIndex_DimensionMismatch(t *testing.T) {
	_, err := NewIndex([]Record{
		rec("Parks", "Swim Lessons", []float32{1, 0, 0}),
		rec("Parks", "Pottery", []float32{1, 0}),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogLoad)
}

func TestNewIndex_NoEmbeddings(t *testing.T) {
	idx, err := NewIndex([]Record{
		rec("Parks", "Swim Lessons", nil),
		rec("Parks", "Pottery", nil),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, idx.Dimensions())
	assert.False(t, idx.HasEmbeddings())
}

func TestNewIndex_Empty(t *testing.T) {
	idx, err := NewIndex(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}
