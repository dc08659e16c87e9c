package models

import "time"

// SourceRef attributes part of an answer to a source document.
type SourceRef struct {
	Document string  `json:"document"`
	Score    float64 `json:"score"`
}

// Answer is the response to an AskQuery: the generated (or synthesized)
// answer text plus the documents used as context, in relevance order.
type Answer struct {
	Answer  string      `json:"answer"`
	Sources []SourceRef `json:"sources"`
	// Gated is true when the relevance gate suppressed generation because
	// no retrieved chunk scored above the configured threshold.
	Gated bool `json:"gated,omitempty"`
}

// CorpusStats describes the currently indexed corpus.
type CorpusStats struct {
	Documents int       `json:"documents"`
	Chunks    int       `json:"chunks"`
	ModelID   string    `json:"model_id"`
	Sources   []string  `json:"sources,omitempty"`
	BuiltAt   time.Time `json:"built_at"`
}
