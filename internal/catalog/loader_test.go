package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youthconnect/activityfinder/internal/domain"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalogFile(t, `[
		{"organization_name": "Parks", "activity_name": "Swim Lessons", "embedding": [0.1, 0.2]},
		{"organization_name": "Parks", "activity_name": "Pottery"}
	]`)

	records, err := Load(path)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Swim Lessons", records[0].ActivityName)
	assert.Equal(t, []float32{0.1, 0.2}, records[0].Embedding)
	assert.Nil(t, records[1].Embedding)
}

func TestLoad_DedupesByIdentityKeepingPosition(t *testing.T) {
	path := writeCatalogFile(t, `[
		{"organization_name": "Parks", "activity_name": "Swim Lessons", "cost": "$10"},
		{"organization_name": "Library", "activity_name": "Story Time"},
		{"organization_name": "Parks", "activity_name": "Swim Lessons", "cost": "$15"}
	]`)

	records, err := Load(path)
	require.NoError(t, err)

	require.Len(t, records, 2)
	// Later record wins but keeps the earlier position.
	assert.Equal(t, "Swim Lessons", records[0].ActivityName)
	assert.Equal(t, "$15", records[0].Cost)
	assert.Equal(t, "Story Time", records[1].ActivityName)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogLoad)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeCatalogFile(t, `{"not": "an array"}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogLoad)
}

func TestLoadIndex(t *testing.T) {
	path := writeCatalogFile(t, `[
		{"organization_name": "Parks", "activity_name": "Swim Lessons", "embedding": [1, 0]},
		{"organization_name": "Library", "activity_name": "Story Time", "embedding": [0, 1]}
	]`)

	idx, err := LoadIndex(path)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 2, idx.Dimensions())
}
