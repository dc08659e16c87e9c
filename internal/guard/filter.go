// Package guard provides request-scoped query validation and per-session
// rate limiting. Both are explicit injected components rather than shared
// process globals, so concurrent sessions cannot corrupt each other's state.
package guard

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrUnsafeQuery indicates the query failed content or length validation.
var ErrUnsafeQuery = errors.New("query rejected")

// Filter validates query text before it reaches the pipeline.
type Filter struct {
	patterns []string
	maxLen   int
}

// NewFilter creates a filter with the given blocked substrings
// (case-insensitive) and maximum query length in characters.
func NewFilter(patterns []string, maxLen int) *Filter {
	if maxLen <= 0 {
		maxLen = 500
	}
	lowered := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p != "" {
			lowered = append(lowered, strings.ToLower(p))
		}
	}
	return &Filter{patterns: lowered, maxLen: maxLen}
}

// Check returns ErrUnsafeQuery (wrapped with the reason) if the query is too
// long or contains a blocked pattern.
func (f *Filter) Check(query string) error {
	if utf8.RuneCountInString(query) > f.maxLen {
		return fmt.Errorf("%w: query longer than %d characters", ErrUnsafeQuery, f.maxLen)
	}
	q := strings.ToLower(query)
	for _, p := range f.patterns {
		if strings.Contains(q, p) {
			return fmt.Errorf("%w: query contains blocked content", ErrUnsafeQuery)
		}
	}
	return nil
}
