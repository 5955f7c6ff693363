// Package catalog provides the immutable in-memory opportunity index and
// its loader. An Index is built once and never mutated; replacing the
// catalog means building a new Index and swapping it into the Holder.
package catalog

import (
	"fmt"

	"github.com/youthconnect/activityfinder/internal/domain"
)

// Record pairs a catalog opportunity with its optional embedding vector,
// matching the on-disk catalog JSON (the `embedding` array is produced by
// the offline embedding job).
type Record struct {
	domain.Opportunity
	Embedding []float32 `json:"embedding,omitempty"`
}

// Index is a read-only snapshot of the catalog. All embedding-bearing
// records share one dimensionality; this is validated at construction.
// Safe for unsynchronized concurrent reads.
type Index struct {
	opportunities []domain.Opportunity
	vectors       [][]float32 // nil entry = record has no embedding
	dimensions    int         // 0 when no record carries a vector
	embedded      int
}

// NewIndex builds an index from loaded records. Fails with an error
// wrapping domain.ErrCatalogLoad when embedding dimensionalities disagree.
func NewIndex(records []Record) (*Index, error) {
	idx := &Index{
		opportunities: make([]domain.Opportunity, len(records)),
		vectors:       make([][]float32, len(records)),
	}

	for i, rec := range records {
		idx.opportunities[i] = rec.Opportunity
		if len(rec.Embedding) == 0 {
			continue
		}
		if idx.dimensions == 0 {
			idx.dimensions = len(rec.Embedding)
		} else if len(rec.Embedding) != idx.dimensions {
			return nil, fmt.Errorf(
				"%w: record %d (%s / %s) has embedding dimension %d, want %d",
				domain.ErrCatalogLoad, i,
				rec.OrganizationName, rec.ActivityName,
				len(rec.Embedding), idx.dimensions,
			)
		}
		idx.vectors[i] = rec.Embedding
		idx.embedded++
	}

	return idx, nil
}

// Len returns the number of catalog records.
func (x *Index) Len() int { return len(x.opportunities) }

// Opportunity returns the record at position i in catalog order.
func (x *Index) Opportunity(i int) domain.Opportunity { return x.opportunities[i] }

// Vector returns the embedding for record i, or nil if it has none.
func (x *Index) Vector(i int) []float32 { return x.vectors[i] }

// Dimensions returns the shared embedding dimensionality, 0 if the catalog
// carries no vectors.
func (x *Index) Dimensions() int { return x.dimensions }

// EmbeddedCount returns how many records carry an embedding.
func (x *Index) EmbeddedCount() int { return x.embedded }

// HasEmbeddings reports whether the semantic search path is usable at all.
func (x *Index) HasEmbeddings() bool { return x.embedded > 0 }
