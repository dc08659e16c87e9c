// Package embedding provides text embedding behind a pinned model identity.
package embedding

import "context"

// Embedder produces unit-normalized vector embeddings for text. All vectors
// entering one similarity computation must come from the same model, so every
// implementation reports a stable ModelID that is recorded in corpus
// snapshots and checked at query time.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	ModelID() string
}
