// Package models defines core data structures for chunks, queries, and answers.
package models

// ChunkMeta ties an indexed chunk back to its source document.
type ChunkMeta struct {
	Source     string `json:"source"`
	ChunkIndex int    `json:"chunk_index"`
}

// SearchResult is a single retrieved chunk with its similarity score.
type SearchResult struct {
	Chunk      string  `json:"chunk"`
	Score      float64 `json:"score"`
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
}
