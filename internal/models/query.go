package models

import "fmt"

// AskQuery represents a question against the document corpus.
type AskQuery struct {
	Query string `json:"query"`
	// TopK overrides the configured number of chunks to retrieve.
	TopK int `json:"top_k,omitempty"`
	// SessionID identifies the caller for rate limiting. Optional; the
	// server derives one from the request when absent.
	SessionID string `json:"session_id,omitempty"`
}

// Validate ensures the query has valid fields and normalizes TopK.
// Returns an error if the query is empty.
func (q *AskQuery) Validate() error {
	if q.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.TopK < 0 {
		q.TopK = 0
	}
	if q.TopK > 100 {
		q.TopK = 100
	}
	return nil
}
