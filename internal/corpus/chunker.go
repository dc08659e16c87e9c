// Package corpus builds the in-memory retrieval corpus: chunking, embedding,
// and the aligned snapshot arrays that tie chunks back to source documents.
package corpus

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadChunking indicates window settings that could never advance.
var ErrBadChunking = errors.New("invalid chunking settings")

// Chunker splits text into overlapping word-based windows.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker with the given window size and overlap, both
// in words. overlap must be smaller than size: otherwise the window would
// never advance.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrBadChunking, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, size), got overlap=%d size=%d", ErrBadChunking, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk splits text on whitespace into windows of up to size words, each
// window starting size-overlap words after the previous one. The final
// window may be shorter and is still emitted. Empty text yields no chunks.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	step := c.size - c.overlap
	chunks := make([]string, 0, (len(words)+step-1)/step)
	for i := 0; ; i += step {
		end := i + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if i+c.size >= len(words) {
			break
		}
	}
	return chunks
}
