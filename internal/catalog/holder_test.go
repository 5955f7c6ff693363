package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder_ReplaceSwapsWholeIndex(t *testing.T) {
	first, err := NewIndex([]Record{rec("Parks", "Swim Lessons", nil)})
	require.NoError(t, err)

	h := NewHolder(first)
	assert.Same(t, first, h.Snapshot())

	second, err := NewIndex([]Record{
		rec("Parks", "Swim Lessons", nil),
		rec("Library", "Story Time", nil),
	})
	require.NoError(t, err)

	// A snapshot taken before the swap stays valid and unchanged.
	held := h.Snapshot()
	h.Replace(second)

	assert.Same(t, second, h.Snapshot())
	assert.Equal(t, 1, held.Len())
	assert.Equal(t, 2, h.Snapshot().Len())
}
