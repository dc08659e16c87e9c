package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/tazune/internal/embedding"
	"github.com/hyperjump/tazune/internal/extract"
	"github.com/hyperjump/tazune/internal/models"
	"github.com/hyperjump/tazune/internal/store"
)

// Builder scans the whole document store and produces a corpus Snapshot.
// There is no incremental mode: each Build re-reads every document. Callers
// needing faster queries wrap the builder in a Cache.
type Builder struct {
	store       store.Store
	extractor   *extract.Extractor
	embedder    embedding.Embedder
	chunker     *Chunker
	concurrency int
	logger      *zap.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets a logger for skipped-document and progress events.
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// WithConcurrency bounds how many documents are fetched and extracted in
// parallel (default 4).
func WithConcurrency(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBuilder creates a corpus builder with the given dependencies.
func NewBuilder(st store.Store, ex *extract.Extractor, emb embedding.Embedder, ch *Chunker, opts ...BuilderOption) *Builder {
	b := &Builder{
		store:       st,
		extractor:   ex,
		embedder:    emb,
		chunker:     ch,
		concurrency: 4,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build lists the store, fetches and extracts every document, chunks the
// text, and embeds all chunks in one batched pass. Documents that fail to
// fetch or extract (or yield no text) are logged and skipped; one bad
// document never aborts the build. Embedding failure does abort: there is no
// meaningful corpus without vectors.
//
// Chunk order is deterministic: store listing order, then left-to-right
// chunk order within each document.
func (b *Builder) Build(ctx context.Context) (*Snapshot, error) {
	ids, err := b.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	perDoc := make([][]string, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := b.store.Get(gctx, id)
			if err != nil {
				b.logger.Warn("skipping document: fetch failed", zap.String("id", id), zap.Error(err))
				return nil
			}
			text, err := b.extractor.Extract(id, content)
			if err != nil {
				if errors.Is(err, extract.ErrNoText) {
					b.logger.Debug("skipping document: no extractable text", zap.String("id", id))
				} else {
					b.logger.Warn("skipping document: extraction failed", zap.String("id", id), zap.Error(err))
				}
				return nil
			}
			if strings.TrimSpace(text) == "" {
				b.logger.Debug("skipping document: empty text", zap.String("id", id))
				return nil
			}
			perDoc[i] = b.chunker.Chunk(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var texts []string
	var meta []models.ChunkMeta
	for i, chunks := range perDoc {
		for j, chunk := range chunks {
			texts = append(texts, chunk)
			meta = append(meta, models.ChunkMeta{Source: ids[i], ChunkIndex: j})
		}
	}

	snap := &Snapshot{
		Texts:   texts,
		Meta:    meta,
		ModelID: b.embedder.ModelID(),
		BuiltAt: time.Now(),
	}
	if len(texts) == 0 {
		snap.Vectors = nil
		b.logger.Info("corpus built empty", zap.Int("documents_listed", len(ids)))
		return snap, nil
	}

	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embed corpus: got %d vectors for %d chunks", len(vectors), len(texts))
	}
	snap.Vectors = vectors

	b.logger.Info("corpus built",
		zap.Int("documents_listed", len(ids)),
		zap.Int("chunks", len(texts)),
		zap.String("model", snap.ModelID),
	)
	return snap, nil
}
