package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// extractPlain decodes content as UTF-8 text. Invalid sequences are replaced
// with U+FFFD rather than rejected, so a mostly-readable file still indexes.
// Content containing NUL bytes is binary wearing a text extension and yields
// ErrNoText: embedding raw binary produces garbage vectors.
func extractPlain(content []byte) (string, error) {
	if bytes.IndexByte(content, 0) >= 0 {
		return "", fmt.Errorf("%w: binary content", ErrNoText)
	}
	if utf8.Valid(content) {
		return string(content), nil
	}
	return strings.ToValidUTF8(string(content), "�"), nil
}
