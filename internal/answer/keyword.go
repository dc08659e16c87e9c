package answer

import (
	"context"
	"strings"

	"github.com/hyperjump/tazune/internal/config"
)

// KeywordGenerator answers from a configured topic table instead of calling
// a hosted model: the first topic whose keywords appear in the query wins.
// It is the zero-cost fallback provider for deployments without model access.
type KeywordGenerator struct {
	topics   []config.TopicRule
	fallback string
}

// NewKeywordGenerator creates the generator from the configured topic table.
func NewKeywordGenerator(topics []config.TopicRule, fallback string) *KeywordGenerator {
	if fallback == "" {
		fallback = "I found related passages but have no answer rule for this question. Try asking about a listed topic."
	}
	return &KeywordGenerator{topics: topics, fallback: fallback}
}

// Name identifies the generator in logs.
func (g *KeywordGenerator) Name() string { return "keyword" }

// Generate matches the query against the topic table. It never fails.
func (g *KeywordGenerator) Generate(ctx context.Context, query, contextBlock string) (string, error) {
	q := strings.ToLower(query)
	for _, topic := range g.topics {
		for _, kw := range topic.Keywords {
			if kw != "" && strings.Contains(q, strings.ToLower(kw)) {
				return topic.Answer, nil
			}
		}
	}
	return g.fallback, nil
}
