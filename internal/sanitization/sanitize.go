// Package sanitization cleans model-derived values before they reach schema
// validation or storage. Every piece of text coming back from a provider passes
// through Clean; this is a hard boundary, not an optional pass.
package sanitization

import (
	"fmt"
	"strings"
)

// maxLineLength is the per-line truncation limit for sanitized strings.
const maxLineLength = 1000

// htmlEscaper escapes angle brackets and quotes. Ampersands are left alone so
// that cleaning is idempotent.
var htmlEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Clean recursively sanitizes an arbitrary nested structure. Maps and slices
// keep their structure and keys; strings are cleaned with CleanString;
// numbers, booleans and nil pass through unchanged. Any other value kind is
// coerced to its string form and then cleaned.
func Clean(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return CleanString(val)
	case bool, float64, float32, int, int32, int64, uint, uint32, uint64:
		return val
	case map[string]any:
		cleaned := make(map[string]any, len(val))
		for k, item := range val {
			cleaned[k] = Clean(item)
		}
		return cleaned
	case []any:
		cleaned := make([]any, len(val))
		for i, item := range val {
			cleaned[i] = Clean(item)
		}
		return cleaned
	default:
		return CleanString(fmt.Sprintf("%v", val))
	}
}

// CleanString sanitizes a single string: NUL bytes are stripped, control
// characters other than newline, tab and carriage return are dropped, angle
// brackets and quotes are HTML-escaped, and each line is truncated to 1000
// characters.
func CleanString(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' || r == '\r' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}

	escaped := htmlEscaper.Replace(b.String())

	lines := strings.Split(escaped, "\n")
	for i, line := range lines {
		if len(line) > maxLineLength {
			lines[i] = truncateLine(line, maxLineLength)
		}
	}
	return strings.Join(lines, "\n")
}

// truncateLine cuts a line at limit bytes without splitting a UTF-8 sequence.
func truncateLine(line string, limit int) string {
	if len(line) <= limit {
		return line
	}
	cut := limit
	for cut > 0 && line[cut]&0xC0 == 0x80 {
		cut--
	}
	return line[:cut]
}
