// Package service wires the retrieval pipeline together: query validation,
// rate limiting, corpus retrieval, and answer assembly.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/tazune/internal/answer"
	"github.com/hyperjump/tazune/internal/corpus"
	"github.com/hyperjump/tazune/internal/guard"
	"github.com/hyperjump/tazune/internal/models"
	"github.com/hyperjump/tazune/internal/search"
)

// ErrInvalidQuery indicates a malformed query the caller should fix.
var ErrInvalidQuery = errors.New("invalid query")

// AskService answers questions against the document corpus. All methods are
// safe for concurrent use.
type AskService struct {
	cache     *corpus.Cache
	searcher  *search.Searcher
	assembler *answer.Assembler
	filter    *guard.Filter
	limiter   *guard.RateLimiter
	topK      int
	logger    *zap.Logger
}

// Option configures an AskService.
type Option func(*AskService)

// WithLogger sets a custom logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *AskService) {
		s.logger = logger
	}
}

// New creates an AskService. defaultTopK is used when a query does not
// specify its own.
func New(cache *corpus.Cache, searcher *search.Searcher, assembler *answer.Assembler, filter *guard.Filter, limiter *guard.RateLimiter, defaultTopK int, opts ...Option) *AskService {
	if defaultTopK <= 0 {
		defaultTopK = 3
	}
	s := &AskService{
		cache:     cache,
		searcher:  searcher,
		assembler: assembler,
		filter:    filter,
		limiter:   limiter,
		topK:      defaultTopK,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask runs the full pipeline for a question: guard checks, retrieval, and
// answer assembly. Guard failures return guard.ErrUnsafeQuery or
// guard.ErrRateLimited so callers can map them to client errors.
func (s *AskService) Ask(ctx context.Context, q models.AskQuery) (*models.Answer, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if err := s.filter.Check(q.Query); err != nil {
		return nil, err
	}
	if err := s.limiter.Allow(q.SessionID); err != nil {
		return nil, err
	}

	results, err := s.retrieve(ctx, q)
	if err != nil {
		return nil, err
	}
	ans := s.assembler.Answer(ctx, q.Query, results)

	s.logger.Info("question answered",
		zap.String("session", q.SessionID),
		zap.Int("results", len(results)),
		zap.Bool("gated", ans.Gated))
	return ans, nil
}

// Search retrieves the most relevant chunks for a query without generating
// an answer. The content filter applies here too; only the per-session rate
// limit is Ask-specific, since search never reaches a paid generator.
func (s *AskService) Search(ctx context.Context, q models.AskQuery) ([]models.SearchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if err := s.filter.Check(q.Query); err != nil {
		return nil, err
	}
	return s.retrieve(ctx, q)
}

// retrieve runs the snapshot load and similarity search. Guard checks are the
// caller's responsibility.
func (s *AskService) retrieve(ctx context.Context, q models.AskQuery) ([]models.SearchResult, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	topK := q.TopK
	if topK == 0 {
		topK = s.topK
	}
	return s.searcher.Search(ctx, q.Query, snap, topK)
}

// Stats reports the current corpus contents, building it if necessary.
func (s *AskService) Stats(ctx context.Context) (models.CorpusStats, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return models.CorpusStats{}, fmt.Errorf("failed to load corpus: %w", err)
	}
	return snap.Stats(), nil
}

// Refresh discards the cached corpus so the next query rebuilds it.
func (s *AskService) Refresh() {
	s.cache.Invalidate()
}
