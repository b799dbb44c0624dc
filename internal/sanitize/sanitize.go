// Package sanitize repairs the textual defects common in LLM-produced JSON
// before any parsing is attempted.
package sanitize

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Pre-compiled repair patterns. Compiling on every call is measurably slower
// and these never change.
var (
	// Code fence wrappers: an opening ```json line and a closing ``` line.
	fenceOpenRegex  = regexp.MustCompile("(?im)^```json[ \t]*\r?\n?")
	fenceCloseRegex = regexp.MustCompile("(?m)```[ \t]*$")

	// A comma directly before a closing } or ], whitespace allowed in between.
	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)

	// Control characters outside the allowed whitespace set (tab, LF, CR stay).
	controlCharRegex = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")
)

// Clean applies the full repair chain in order: code fences, trailing commas,
// control characters, HTML entities, then the Latin-1 round trip. It never
// fails; input without defects comes back unchanged apart from surrounding
// whitespace. The result is not guaranteed to be valid JSON.
func Clean(raw string) string {
	text := fenceOpenRegex.ReplaceAllString(raw, "")
	text = fenceCloseRegex.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	text = trailingCommaRegex.ReplaceAllString(text, "$1")
	text = controlCharRegex.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	return repairLatin1(text)
}

// repairLatin1 undoes a double-encoding artifact where UTF-8 byte sequences
// were stored as if each byte were its own character: the text is re-encoded
// one byte per rune via the Latin-1 charmap, then decoded back as UTF-8.
// Lossy by design: runes outside Latin-1 and bytes that still fail UTF-8
// decoding are silently dropped, not replaced with a placeholder. That matches
// the observed source data, where surviving content is always plain ASCII or
// byte-smuggled UTF-8.
func repairLatin1(text string) string {
	buf := make([]byte, 0, len(text))
	for _, r := range text {
		if b, ok := charmap.ISO8859_1.EncodeRune(r); ok {
			buf = append(buf, b)
		}
	}

	var sb strings.Builder
	sb.Grow(len(buf))
	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		if r == utf8.RuneError && size == 1 {
			buf = buf[1:]
			continue
		}
		sb.WriteRune(r)
		buf = buf[size:]
	}
	return sb.String()
}
