// Package ingest implements the offline embedding job: it fills in the
// embedding vectors the search engine reads at runtime.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/youthconnect/activityfinder/internal/catalog"
	"github.com/youthconnect/activityfinder/internal/domain"
)

// Pipeline embeds catalog records concurrently through a worker pool.
// Records that already carry a vector are left untouched, so re-running the
// job after adding records only pays for the new ones.
type Pipeline struct {
	embed   domain.Embedder
	workers int
	logger  *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers sets the worker pool size. Default is half the CPUs, minimum 1.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n < 1 {
			n = 1
		}
		p.workers = n
	}
}

// NewPipeline creates an embedding pipeline.
func NewPipeline(embed domain.Embedder, logger *zap.Logger, opts ...Option) *Pipeline {
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}
	p := &Pipeline{embed: embed, workers: workers, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run embeds every record lacking a vector, in place. Per-record provider
// failures are logged and skipped; the record stays lexical-only. Returns
// the number of records embedded. A cancelled context stops submission and
// returns the context error.
func (p *Pipeline) Run(ctx context.Context, records []catalog.Record) (int, error) {
	pool, err := ants.NewPool(p.workers)
	if err != nil {
		return 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		embedded int
	)

	for i := range records {
		if len(records[i].Embedding) > 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			break
		}

		idx := i
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			text := EmbeddingText(&records[idx].Opportunity)
			res, err := p.embed.Embed(ctx, text)
			if err != nil {
				p.logger.Warn("failed to embed record",
					zap.String("organization", records[idx].OrganizationName),
					zap.String("activity", records[idx].ActivityName),
					zap.Error(err),
				)
				return
			}

			records[idx].Embedding = res.Embedding

			mu.Lock()
			embedded++
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			p.logger.Warn("failed to submit embed task", zap.Error(submitErr))
		}
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return embedded, fmt.Errorf("embedding job cancelled: %w", err)
	}
	return embedded, nil
}

// EmbeddingText builds the text representation a record is embedded under.
// It mirrors the fields lexical scoring searches, plus the practical
// details (location, ages, cost) people put in queries.
func EmbeddingText(op *domain.Opportunity) string {
	parts := []string{
		op.OrganizationName,
		op.ActivityName,
		op.ProgramDescription,
		op.ActivityDescription,
		op.Location.Name,
		op.AgeRange,
		op.Cost,
		strings.Join(op.Tags.Categories, " "),
		strings.Join(op.Tags.Demographics, " "),
	}

	fields := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			fields = append(fields, p)
		}
	}
	return strings.Join(fields, "\n")
}

// WriteCatalog writes records back to disk as the catalog JSON the server
// loads at startup.
func WriteCatalog(path string, records []catalog.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	return nil
}
