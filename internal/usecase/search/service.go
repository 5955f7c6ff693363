package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/youthconnect/activityfinder/internal/catalog"
	"github.com/youthconnect/activityfinder/internal/domain"
	"github.com/youthconnect/activityfinder/internal/domain/search/request"
	"github.com/youthconnect/activityfinder/internal/domain/search/result"
	"github.com/youthconnect/activityfinder/internal/metrics"
)

// Type names the scoring path that produced a result set.
type Type string

const (
	// TypeSemantic marks results ranked by embedding cosine similarity.
	TypeSemantic Type = "semantic"
	// TypeLexical marks results ranked by token overlap (fallback path).
	TypeLexical Type = "lexical"
)

// Service is the matching engine: it turns a validated request into a
// ranked result set against the current catalog snapshot. Stateless beyond
// the snapshot provider; safe for concurrent use.
type Service struct {
	snapshots Snapshots
	embed     Embedder // nil = lexical-only deployment
	relax     relaxation
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a search service. embed may be nil, which pins every request
// to the lexical path.
func New(snapshots Snapshots, embed Embedder, logger *zap.Logger) *Service {
	return &Service{
		snapshots: snapshots,
		embed:     embed,
		relax:     relaxation{floor: DefaultFloor, step: DefaultRelaxStep},
		logger:    logger,
		now:       time.Now,
	}
}

// WithRelaxation overrides the threshold relaxation floor and step.
func (s *Service) WithRelaxation(floor, step float64) *Service {
	s.relax = relaxation{floor: floor, step: step}
	return s
}

// WithClock overrides the time source used for recency scoring.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Search ranks the catalog against the request. The semantic path is tried
// first when an embedder is configured and the snapshot carries vectors; an
// unavailable embedding provider degrades to lexical scoring instead of
// failing the request. Identical (snapshot, request) pairs always produce
// the identical ordered result list.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Result, Type, error) {
	idx := s.snapshots.Snapshot()
	if idx == nil {
		return nil, "", fmt.Errorf("%w: no catalog snapshot", domain.ErrCatalogLoad)
	}
	if idx.Len() == 0 {
		return []result.Result{}, TypeLexical, nil
	}

	if s.embed != nil && idx.HasEmbeddings() {
		results, err := s.searchSemantic(ctx, idx, req)
		switch {
		case err == nil:
			metrics.SearchRequestsTotal.WithLabelValues(string(TypeSemantic)).Inc()
			return results, TypeSemantic, nil
		case errors.Is(err, domain.ErrEmbeddingUnavailable):
			// Degraded mode: the provider is down or timed out. Fall
			// through to lexical scoring, surface nothing to the caller.
			s.logger.Warn("embedding unavailable, falling back to lexical scoring",
				zap.String("query", req.Query()),
				zap.Error(err),
			)
			metrics.SearchFallbacksTotal.Inc()
		default:
			return nil, TypeSemantic, err
		}
	}

	results, err := s.searchLexical(ctx, idx, req)
	if err != nil {
		return nil, TypeLexical, err
	}
	metrics.SearchRequestsTotal.WithLabelValues(string(TypeLexical)).Inc()
	return results, TypeLexical, nil
}

func (s *Service) searchSemantic(ctx context.Context, idx *catalog.Index, req *request.Request) ([]result.Result, error) {
	embRes, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	ranked, err := rankSemantic(ctx, idx, embRes.Embedding)
	if err != nil {
		return nil, err
	}

	selected, effective := applyThreshold(ranked, req.Threshold(), req.MinResults(), req.Limit(), s.relax)
	if effective < req.Threshold() {
		s.logger.Debug("threshold relaxed",
			zap.Float64("requested", req.Threshold()),
			zap.Float64("effective", effective),
			zap.Int("selected", len(selected)),
		)
	}

	return formatResults(idx, selected, req.Limit()), nil
}

func (s *Service) searchLexical(ctx context.Context, idx *catalog.Index, req *request.Request) ([]result.Result, error) {
	ranked, err := rankLexical(ctx, idx, req.Tokens(), s.now())
	if err != nil {
		return nil, err
	}

	// Lexical scores are unbounded; bring them into [0,1] so the same
	// threshold semantics apply on both paths.
	normalizeScores(ranked)

	selected, _ := applyThreshold(ranked, req.Threshold(), req.MinResults(), req.Limit(), s.relax)
	return formatResults(idx, selected, req.Limit()), nil
}
