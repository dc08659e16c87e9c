// Package cli provides CLI output utilities for Tazune.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/tazune/internal/models"
	"github.com/hyperjump/tazune/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteAnswer writes an answer to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteAnswer(w io.Writer, answer *models.Answer, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, answer)
	}
	fmt.Fprintf(w, "\n%s\n", answer.Answer)
	if len(answer.Sources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for _, src := range answer.Sources {
			fmt.Fprintf(w, "  - %s (relevance: %.2f)\n", src.Document, src.Score)
		}
	}
	return nil
}

// WriteSearchResults writes retrieval results to w in the given format.
func WriteSearchResults(w io.Writer, results []models.SearchResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, results)
	}
	fmt.Fprintf(w, "\nFound %d results\n\n", len(results))
	for i, result := range results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Score: %.4f | Source: %s (chunk %d)\n",
			i+1, result.Score, result.Source, result.ChunkIndex)
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(result.Chunk, 200))
	}
	return nil
}

// WriteStats writes corpus statistics to w in the given format.
func WriteStats(w io.Writer, stats models.CorpusStats, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, stats)
	}
	fmt.Fprintf(w, "Documents:       %d\n", stats.Documents)
	fmt.Fprintf(w, "Chunks:          %d\n", stats.Chunks)
	fmt.Fprintf(w, "Embedding model: %s\n", stats.ModelID)
	if !stats.BuiltAt.IsZero() {
		fmt.Fprintf(w, "Built at:        %s\n", stats.BuiltAt.Format("2006-01-02 15:04:05"))
	}
	for _, src := range stats.Sources {
		fmt.Fprintf(w, "  - %s\n", src)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
