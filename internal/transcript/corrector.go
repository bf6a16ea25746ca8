// Package transcript implements the transcript correction pipeline used by
// Courtside to repair misrecognised player names in YouTube captions.
//
// Auto-generated captions are rarely accurate for proper nouns — player names
// come through with mangled spelling or casing ("Lebron", "Yokich"). The
// pipeline is two small stages:
//
//  1. [Clean] normalises whitespace and strips non-ASCII caption noise.
//  2. [Corrector] walks the cleaned text token by token and replaces
//     title-cased tokens with the best-matching canonical roster name, using
//     token-set similarity from [tokenset].
//
// Each [Correction] records the substitution and its score so callers can
// display or audit what changed.
//
// Both stages are pure functions of their inputs; a [Corrector] is read-only
// after construction and safe for concurrent use.
package transcript

import (
	"strings"
	"unicode"

	"github.com/MrWong99/courtside/internal/transcript/tokenset"
)

// defaultThreshold is the minimum token-set score (0–100) for a roster name
// to replace a transcript token.
const defaultThreshold = 80

// Correction captures a single token-level substitution made by the corrector.
type Correction struct {
	// Original is the token as it appeared in the cleaned transcript.
	Original string

	// Corrected is the canonical roster name that replaced it.
	Corrected string

	// Score is the token-set similarity (0–100) that justified the substitution.
	Score int
}

// Option is a functional option for configuring a [Corrector].
type Option func(*Corrector)

// WithThreshold sets the minimum token-set score required to accept a match.
// Default: 80.
func WithThreshold(threshold int) Option {
	return func(c *Corrector) {
		c.threshold = threshold
	}
}

// Corrector replaces name-like transcript tokens with canonical player names.
//
// A token is considered name-like when it is title-cased: its first letter is
// uppercase and every following letter is lowercase. Attached punctuation is
// ignored for the case test but replaced along with the token — the same
// granularity the per-token matching implies. Tokens that are not title-cased
// pass through unchanged, as do title-cased tokens whose best roster score
// falls below the threshold.
type Corrector struct {
	names     []string
	threshold int
}

// NewCorrector returns a [Corrector] matching against the given roster names.
// The names slice is not copied; the caller must not mutate it afterwards.
// An empty roster is valid and turns Correct into a passthrough.
func NewCorrector(names []string, opts ...Option) *Corrector {
	c := &Corrector{
		names:     names,
		threshold: defaultThreshold,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Correct tokenises text on whitespace, replaces qualifying tokens with their
// best roster match, and rejoins with single spaces. It returns the corrected
// text and the list of substitutions applied (empty, non-nil, when nothing
// changed).
//
// Matching is per token: a two-word name in the transcript is corrected one
// token at a time, each independently. Deterministic for a fixed roster
// ordering (ties break toward the earliest roster entry).
func (c *Corrector) Correct(text string) (string, []Correction) {
	tokens := strings.Fields(text)
	corrections := []Correction{}

	if len(c.names) == 0 || len(tokens) == 0 {
		return strings.Join(tokens, " "), corrections
	}

	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !isTitleCased(tok) {
			out = append(out, tok)
			continue
		}
		name, score, ok := tokenset.BestMatch(tok, c.names)
		if !ok || score < c.threshold {
			out = append(out, tok)
			continue
		}
		out = append(out, name)
		corrections = append(corrections, Correction{
			Original:  tok,
			Corrected: name,
			Score:     score,
		})
	}

	return strings.Join(out, " "), corrections
}

// isTitleCased reports whether the first letter in tok is uppercase and all
// subsequent letters are lowercase. Non-letter runes (digits, punctuation)
// are skipped; a token with no letters is never title-cased.
func isTitleCased(tok string) bool {
	seenLetter := false
	for _, r := range tok {
		if !unicode.IsLetter(r) {
			continue
		}
		if !seenLetter {
			if !unicode.IsUpper(r) {
				return false
			}
			seenLetter = true
			continue
		}
		if !unicode.IsLower(r) {
			return false
		}
	}
	return seenLetter
}
