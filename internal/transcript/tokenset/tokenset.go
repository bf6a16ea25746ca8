// Package tokenset implements token-set string similarity for matching noisy
// transcript tokens against canonical player names.
//
// The score is order- and duplicate-insensitive: both strings are lowercased,
// stripped of non-alphanumeric characters, and split into word sets. The sets
// are decomposed into a shared intersection and two remainders, and the final
// score is the maximum pairwise similarity between the three reconstructed
// strings (intersection alone, intersection + remainder A, intersection +
// remainder B). This makes a single recognised word ("Lebron") score 100
// against the full canonical name ("LeBron James"), which is exactly the
// tolerance needed for speech-recognition noise in proper names.
//
// Pairwise similarity is a normalised Levenshtein ratio on a 0–100 scale,
// computed with github.com/antzucaro/matchr.
package tokenset

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// Ratio returns the token-set similarity between a and b on a 0–100 scale.
// Returns 0 when either string contains no alphanumeric tokens.
func Ratio(a, b string) int {
	setA := tokenize(a)
	setB := tokenize(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var common, restA, restB []string
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			common = append(common, tok)
		} else {
			restA = append(restA, tok)
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			restB = append(restB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(restA)
	sort.Strings(restB)

	sect := strings.Join(common, " ")
	combinedA := joinNonEmpty(sect, strings.Join(restA, " "))
	combinedB := joinNonEmpty(sect, strings.Join(restB, " "))

	// An exact set match short-circuits: both combined forms equal the
	// intersection, so every pairing scores 100.
	if len(restA) == 0 && len(restB) == 0 {
		return 100
	}

	best := similarity(sect, combinedA)
	if s := similarity(sect, combinedB); s > best {
		best = s
	}
	if s := similarity(combinedA, combinedB); s > best {
		best = s
	}
	return best
}

// BestMatch scores query against every choice and returns the single
// highest-scoring one. Ties are broken by slice order: the earliest choice
// with the top score wins, so results are deterministic for a fixed roster
// ordering. ok is false when choices is empty or query has no scoreable
// tokens.
func BestMatch(query string, choices []string) (match string, score int, ok bool) {
	best := -1
	for _, c := range choices {
		if s := Ratio(query, c); s > best {
			best = s
			match = c
		}
	}
	if best < 0 {
		return "", 0, false
	}
	return match, best, best > 0
}

// tokenize lowercases s, replaces non-alphanumeric runes with spaces, and
// returns the resulting word set.
func tokenize(s string) map[string]struct{} {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte(' ')
		}
	}
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(sb.String()) {
		set[tok] = struct{}{}
	}
	return set
}

// similarity is the normalised Levenshtein ratio between a and b on a 0–100
// scale. Identical strings score 100; completely disjoint strings approach 0.
func similarity(a, b string) int {
	if a == b {
		return 100
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 100
	}
	dist := matchr.Levenshtein(a, b)
	score := 100 * (longest - dist) / longest
	if score < 0 {
		return 0
	}
	return score
}

// joinNonEmpty joins a and b with a single space, omitting empty parts.
func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
