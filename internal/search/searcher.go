// Package search ranks corpus chunks against a query by cosine similarity.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/hyperjump/tazune/internal/corpus"
	"github.com/hyperjump/tazune/internal/embedding"
	"github.com/hyperjump/tazune/internal/models"
	"github.com/hyperjump/tazune/pkg/utils"
)

// ErrModelMismatch indicates the snapshot was built with a different
// embedding model than the one serving queries. Scores across models are
// meaningless, so the query is rejected instead of silently returning noise.
var ErrModelMismatch = errors.New("corpus embedding model does not match query embedder")

// Searcher embeds queries and ranks snapshot chunks by inner product, which
// equals cosine similarity for the unit-normalized vectors the embedders
// produce.
type Searcher struct {
	embedder embedding.Embedder
	logger   *zap.Logger
}

// NewSearcher creates a searcher using the given embedder. The embedder must
// be the same model used to build the snapshots it will query.
func NewSearcher(emb embedding.Embedder, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{embedder: emb, logger: logger}
}

// Search returns the topK highest-scoring chunks for query, in descending
// score order with ties broken by corpus order. topK <= 0 or an empty
// snapshot yields an empty result. topK larger than the corpus returns the
// whole corpus ranked.
func (s *Searcher) Search(ctx context.Context, query string, snap *corpus.Snapshot, topK int) ([]models.SearchResult, error) {
	if topK <= 0 || snap.Len() == 0 {
		return nil, nil
	}
	if snap.ModelID != s.embedder.ModelID() {
		return nil, fmt.Errorf("%w: corpus=%q query=%q", ErrModelMismatch, snap.ModelID, s.embedder.ModelID())
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	order := make([]int, snap.Len())
	scores := make([]float64, snap.Len())
	for i, vec := range snap.Vectors {
		order[i] = i
		scores[i] = utils.Dot(queryVec, vec)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if topK > snap.Len() {
		topK = snap.Len()
	}
	results := make([]models.SearchResult, topK)
	for rank := 0; rank < topK; rank++ {
		i := order[rank]
		results[rank] = models.SearchResult{
			Chunk:      snap.Texts[i],
			Score:      scores[i],
			Source:     snap.Meta[i].Source,
			ChunkIndex: snap.Meta[i].ChunkIndex,
		}
	}
	s.logger.Debug("search completed",
		zap.String("query", utils.Truncate(query, 80)),
		zap.Int("corpus_chunks", snap.Len()),
		zap.Int("returned", len(results)),
	)
	return results, nil
}
