package tokenset_test

import (
	"testing"

	"github.com/MrWong99/courtside/internal/transcript/tokenset"
)

func TestRatio_ExactMatch(t *testing.T) {
	t.Parallel()

	if got := tokenset.Ratio("LeBron James", "LeBron James"); got != 100 {
		t.Errorf("Ratio(identical) = %d, want 100", got)
	}
}

func TestRatio_SubsetScoresFull(t *testing.T) {
	t.Parallel()

	// A single word that is part of the canonical name must score 100:
	// the intersection ("lebron") compared against itself dominates.
	if got := tokenset.Ratio("Lebron", "LeBron James"); got != 100 {
		t.Errorf("Ratio(%q, %q) = %d, want 100", "Lebron", "LeBron James", got)
	}
}

func TestRatio_OrderInsensitive(t *testing.T) {
	t.Parallel()

	a := tokenset.Ratio("James LeBron", "LeBron James")
	if a != 100 {
		t.Errorf("Ratio(reordered) = %d, want 100", a)
	}
}

func TestRatio_DuplicateInsensitive(t *testing.T) {
	t.Parallel()

	if got := tokenset.Ratio("Jokic Jokic Jokic", "Nikola Jokic"); got != 100 {
		t.Errorf("Ratio(duplicated token) = %d, want 100", got)
	}
}

func TestRatio_CaseAndPunctuation(t *testing.T) {
	t.Parallel()

	if got := tokenset.Ratio("jokic,", "Nikola Jokic"); got != 100 {
		t.Errorf("Ratio with trailing punctuation = %d, want 100", got)
	}
}

func TestRatio_Dissimilar(t *testing.T) {
	t.Parallel()

	if got := tokenset.Ratio("rebounds", "LeBron James"); got >= 80 {
		t.Errorf("Ratio(dissimilar) = %d, want < 80", got)
	}
}

func TestRatio_EmptyInputs(t *testing.T) {
	t.Parallel()

	cases := []struct{ a, b string }{
		{"", "LeBron James"},
		{"LeBron", ""},
		{"...", "LeBron James"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := tokenset.Ratio(tc.a, tc.b); got != 0 {
			t.Errorf("Ratio(%q, %q) = %d, want 0", tc.a, tc.b, got)
		}
	}
}

func TestBestMatch_PicksHighestScore(t *testing.T) {
	t.Parallel()

	choices := []string{"Jamal Murray", "Nikola Jokic", "LeBron James"}

	match, score, ok := tokenset.BestMatch("Lebron", choices)
	if !ok {
		t.Fatalf("BestMatch(%q): ok=false, want true", "Lebron")
	}
	if match != "LeBron James" {
		t.Errorf("BestMatch(%q) = %q, want %q", "Lebron", match, "LeBron James")
	}
	if score < 80 {
		t.Errorf("BestMatch(%q): score=%d, want >= 80", "Lebron", score)
	}
}

func TestBestMatch_TieBreaksBySliceOrder(t *testing.T) {
	t.Parallel()

	// Both choices contain the query token, so both score 100; the earlier
	// entry must win to keep corrections deterministic.
	choices := []string{"Jalen Green", "Jalen Brunson"}

	match, score, ok := tokenset.BestMatch("Jalen", choices)
	if !ok || score != 100 {
		t.Fatalf("BestMatch(%q): score=%d ok=%v, want 100/true", "Jalen", score, ok)
	}
	if match != "Jalen Green" {
		t.Errorf("BestMatch tie-break = %q, want first choice %q", match, "Jalen Green")
	}
}

func TestBestMatch_EmptyChoices(t *testing.T) {
	t.Parallel()

	if _, _, ok := tokenset.BestMatch("Lebron", nil); ok {
		t.Error("BestMatch with empty choices: ok=true, want false")
	}
}

func TestBestMatch_UnscoreableQuery(t *testing.T) {
	t.Parallel()

	if _, _, ok := tokenset.BestMatch("—", []string{"LeBron James"}); ok {
		t.Error("BestMatch with punctuation-only query: ok=true, want false")
	}
}
