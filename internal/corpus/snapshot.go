package corpus

import (
	"time"

	"github.com/hyperjump/tazune/internal/models"
)

// Snapshot is the aligned triple of chunk texts, embedding vectors, and
// chunk metadata, plus the identity of the embedding model that produced the
// vectors. Texts[i], Vectors[i], and Meta[i] describe the same chunk.
// A snapshot is immutable after Build returns; rebuilds produce a new
// Snapshot rather than mutating in place, so concurrent readers never see a
// partially built triple.
type Snapshot struct {
	Texts   []string
	Vectors [][]float32
	Meta    []models.ChunkMeta
	ModelID string
	BuiltAt time.Time
}

// Len returns the number of indexed chunks.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Texts)
}

// Stats summarizes the snapshot for status reporting.
func (s *Snapshot) Stats() models.CorpusStats {
	if s == nil {
		return models.CorpusStats{}
	}
	seen := make(map[string]bool)
	var sources []string
	for _, m := range s.Meta {
		if !seen[m.Source] {
			seen[m.Source] = true
			sources = append(sources, m.Source)
		}
	}
	return models.CorpusStats{
		Documents: len(sources),
		Chunks:    len(s.Texts),
		ModelID:   s.ModelID,
		Sources:   sources,
		BuiltAt:   s.BuiltAt,
	}
}
