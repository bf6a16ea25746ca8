package roster

import (
	"fmt"
	"time"
)

// Season is an NBA season label in the stats provider's format, e.g.
// "2025-26".
type Season string

// SeasonFor derives the competitive season containing now. The NBA season
// tips off in October: October–December of year Y belong to season
// "Y-(Y+1)", January–September to "(Y-1)-Y".
func SeasonFor(now time.Time) Season {
	year := now.Year()
	if now.Month() >= time.October {
		return Season(fmt.Sprintf("%d-%02d", year, (year+1)%100))
	}
	return Season(fmt.Sprintf("%d-%02d", year-1, year%100))
}

// StartYear returns the season's four-digit start year ("2025" for
// "2025-26"). The stats provider reports each player's final season in this
// form, so equality with StartYear is the "still active" filter.
func (s Season) StartYear() string {
	if len(s) < 4 {
		return string(s)
	}
	return string(s[:4])
}
