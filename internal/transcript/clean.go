package transcript

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonASCII      = regexp.MustCompile(`[^\x20-\x7E]+`)
)

// Clean normalises raw transcript text before name correction:
//
//  1. Runs of characters outside the printable 7-bit ASCII range are replaced
//     with a single space. Auto-generated captions routinely embed music
//     notes, zero-width marks, and smart quotes that confuse tokenisation,
//     and the newlines between caption segments must separate words rather
//     than glue them together.
//  2. Any remaining run of whitespace is collapsed into a single space.
//  3. Leading/trailing whitespace is trimmed.
//
// Clean is pure and idempotent: Clean(Clean(s)) == Clean(s) for any input.
func Clean(raw string) string {
	s := nonASCII.ReplaceAllString(raw, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
