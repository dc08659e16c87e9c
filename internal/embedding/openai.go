package embedding

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hyperjump/tazune/pkg/utils"
)

// RemoteConfig configures an OpenAI-compatible embeddings client.
type RemoteConfig struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	BatchSize int
}

// RemoteEmbedder embeds text via an OpenAI-compatible embeddings API.
// Vectors are unit-normalized before they are returned, so dot product
// against them is cosine similarity.
type RemoteEmbedder struct {
	client    openai.Client
	model     string
	batchSize int

	mu   sync.Mutex
	dims int // learned from the first response
}

// NewRemoteEmbedder creates the embedder. A missing API key is an
// unrecoverable initialization error: there is no degraded mode without
// embeddings.
func NewRemoteEmbedder(cfg RemoteConfig) (*RemoteEmbedder, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("embedding: missing API key in env %s", cfg.APIKeyEnv)
	}
	opts := []option.RequestOption{option.WithAPIKey(key)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = "text-embedding-3-small"
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 64
	}
	return &RemoteEmbedder{
		client:    openai.NewClient(opts...),
		model:     model,
		batchSize: batch,
	}, nil
}

// ModelID returns the pinned model identifier.
func (e *RemoteEmbedder) ModelID() string {
	return e.model
}

// Dimensions returns the vector dimension, or 0 before the first call.
func (e *RemoteEmbedder) Dimensions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dims
}

// Embed returns the embedding for a single text (used for queries).
func (e *RemoteEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in API batches, preserving input order and length.
// Empty strings are substituted with a single space: the API rejects empty
// input, and an empty chunk still needs a slot to keep the arrays aligned.
func (e *RemoteEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := make([]string, end-start)
		for i, t := range texts[start:end] {
			if t == "" {
				t = " "
			}
			batch[i] = t
		}
		resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Model: openai.EmbeddingModel(e.model),
			Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: batch},
		})
		if err != nil {
			return nil, fmt.Errorf("embed batch of %d: %w", len(batch), err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("embed batch: got %d vectors for %d inputs", len(resp.Data), len(batch))
		}
		for _, d := range resp.Data {
			vec := make([]float32, len(d.Embedding))
			for i, v := range d.Embedding {
				vec[i] = float32(v)
			}
			utils.NormalizeL2(vec)
			out = append(out, vec)
		}
	}
	if len(out) > 0 {
		e.mu.Lock()
		if e.dims == 0 {
			e.dims = len(out[0])
		}
		e.mu.Unlock()
	}
	return out, nil
}
