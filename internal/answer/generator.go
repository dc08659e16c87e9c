// Package answer turns retrieved chunks into an attributed answer, gating
// generation on retrieval relevance.
package answer

import "context"

// Generator produces a natural-language answer from a query and a context
// block of retrieved passages. Implementations may call a hosted model or a
// local rule table; failures are reported as errors and the assembler turns
// them into user-facing answer text.
type Generator interface {
	Generate(ctx context.Context, query, contextBlock string) (string, error)
	Name() string
}
