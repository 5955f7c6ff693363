package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/youthconnect/activityfinder/internal/domain"
)

// Load reads catalog records from a JSON array file. Records sharing an
// (organization, activity) identity are collapsed: the later record wins
// but keeps the earlier record's position, so catalog order stays stable
// across re-ingestion.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrCatalogLoad, path, err)
	}

	var raw []Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrCatalogLoad, path, err)
	}

	return dedupe(raw), nil
}

// LoadIndex loads records from path and builds an Index.
func LoadIndex(path string) (*Index, error) {
	records, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewIndex(records)
}

func dedupe(records []Record) []Record {
	out := make([]Record, 0, len(records))
	seen := make(map[domain.OpportunityKey]int, len(records))

	for _, rec := range records {
		key := rec.Key()
		if pos, ok := seen[key]; ok {
			out[pos] = rec
			continue
		}
		seen[key] = len(out)
		out = append(out, rec)
	}

	return out
}
