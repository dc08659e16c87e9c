package answer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/tazune/internal/models"
)

const contextSeparator = "\n\n"

// Assembler builds the final answer from search results: it applies the
// relevance gate, assembles the context block, invokes the generator under a
// bounded timeout, and attaches source attribution.
type Assembler struct {
	gen       Generator
	threshold float64
	maxChunks int
	timeout   time.Duration
	notFound  string
	logger    *zap.Logger
}

// AssemblerConfig configures an Assembler.
type AssemblerConfig struct {
	// Threshold is the minimum top-result score below which generation is
	// skipped entirely.
	Threshold float64
	// MaxContextChunks caps how many results feed the context block.
	MaxContextChunks int
	// Timeout bounds the generator call, the one unbounded network
	// round-trip in the request path.
	Timeout time.Duration
	// NotFound is the fixed answer returned when the gate trips.
	NotFound string
}

// NewAssembler creates an assembler delegating to gen.
func NewAssembler(gen Generator, cfg AssemblerConfig, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxChunks := cfg.MaxContextChunks
	if maxChunks <= 0 {
		maxChunks = 2
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	notFound := cfg.NotFound
	if notFound == "" {
		notFound = "I couldn't find relevant information in my documents to answer that question."
	}
	return &Assembler{
		gen:       gen,
		threshold: cfg.Threshold,
		maxChunks: maxChunks,
		timeout:   timeout,
		notFound:  notFound,
		logger:    logger,
	}
}

// Answer produces the final answer for query given ranked results. Generator
// failures never propagate as errors: they surface as explanatory answer
// text with empty sources, so one flaky upstream call cannot fail the request.
func (a *Assembler) Answer(ctx context.Context, query string, results []models.SearchResult) *models.Answer {
	if len(results) == 0 || results[0].Score < a.threshold {
		topScore := 0.0
		if len(results) > 0 {
			topScore = results[0].Score
		}
		a.logger.Debug("relevance gate tripped",
			zap.Float64("top_score", topScore),
			zap.Float64("threshold", a.threshold),
		)
		return &models.Answer{Answer: a.notFound, Sources: []models.SourceRef{}, Gated: true}
	}

	used := results
	if len(used) > a.maxChunks {
		used = used[:a.maxChunks]
	}
	texts := make([]string, len(used))
	for i, r := range used {
		texts[i] = r.Chunk
	}
	contextBlock := strings.Join(texts, contextSeparator)

	genCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	text, err := a.gen.Generate(genCtx, query, contextBlock)
	if err != nil {
		a.logger.Warn("answer generation failed",
			zap.String("generator", a.gen.Name()),
			zap.Error(err),
		)
		return &models.Answer{
			Answer:  fmt.Sprintf("Sorry, I couldn't generate an answer: %v", err),
			Sources: []models.SourceRef{},
		}
	}

	return &models.Answer{Answer: text, Sources: sourceRefs(used)}
}

// sourceRefs returns one attribution per distinct document, keeping the
// highest (first-seen) score since results arrive in descending order.
func sourceRefs(used []models.SearchResult) []models.SourceRef {
	seen := make(map[string]bool, len(used))
	refs := make([]models.SourceRef, 0, len(used))
	for _, r := range used {
		if seen[r.Source] {
			continue
		}
		seen[r.Source] = true
		refs = append(refs, models.SourceRef{Document: r.Source, Score: r.Score})
	}
	return refs
}
