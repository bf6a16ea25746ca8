package roster_test

import (
	"testing"
	"time"

	"github.com/MrWong99/courtside/internal/roster"
)

func TestSeasonFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		date string
		want roster.Season
	}{
		{"2025-10-01", "2025-26"},
		{"2025-12-31", "2025-26"},
		{"2026-01-15", "2025-26"},
		{"2026-06-30", "2025-26"},
		{"2026-09-30", "2025-26"},
		{"2026-10-21", "2026-27"},
		{"2099-11-05", "2099-00"},
	}
	for _, tc := range tests {
		t.Run(tc.date, func(t *testing.T) {
			t.Parallel()
			now, err := time.Parse("2006-01-02", tc.date)
			if err != nil {
				t.Fatal(err)
			}
			if got := roster.SeasonFor(now); got != tc.want {
				t.Errorf("SeasonFor(%s) = %q, want %q", tc.date, got, tc.want)
			}
		})
	}
}

func TestSeason_StartYear(t *testing.T) {
	t.Parallel()

	if got := roster.Season("2025-26").StartYear(); got != "2025" {
		t.Errorf("StartYear() = %q, want 2025", got)
	}
	if got := roster.Season("bad").StartYear(); got != "bad" {
		t.Errorf("StartYear() for short input = %q, want passthrough", got)
	}
}

func TestNames_SortedExtraction(t *testing.T) {
	t.Parallel()

	got := roster.Names([]roster.PlayerRecord{
		{FullName: "Nikola Jokic"},
		{FullName: "Anthony Davis"},
		{FullName: "LeBron James"},
	})
	want := []string{"Anthony Davis", "LeBron James", "Nikola Jokic"}
	if len(got) != len(want) {
		t.Fatalf("len(Names()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
