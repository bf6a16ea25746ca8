// Package roster maintains the list of currently active NBA players that the
// transcript corrector matches against.
//
// The package is split into three cooperating pieces:
//
//   - [Store] persists the roster as a single JSON cache file with a
//     timestamped envelope, overwritten wholesale on every successful fetch.
//   - [Source] abstracts the remote stats endpoint (implemented by the nba
//     subpackage) so the fetcher can be tested without the network.
//   - [Fetcher] composes the two: cache-first reads inside the freshness
//     window, network fetch with retry otherwise, and a fallback chain of
//     stale cache → empty roster so callers always receive a usable (possibly
//     empty) roster without handling errors.
package roster

import (
	"context"
	"sort"
)

// FreeAgentTeam is the sentinel team label for players without a team
// affiliation (TeamID 0).
const FreeAgentTeam = "Free Agent"

// PlayerRecord is one active player as stored in the cache file. Field names
// mirror the cache's JSON shape.
type PlayerRecord struct {
	// PlayerID is the stats provider's unique player identifier.
	PlayerID int64 `json:"player_id"`

	// FullName is the canonical display name ("First Last"). These values
	// are the only valid correction targets.
	FullName string `json:"full_name"`

	// TeamID is the provider's team identifier; 0 means unaffiliated.
	TeamID int64 `json:"team_id"`

	// Team is the team display name, or [FreeAgentTeam] when TeamID is 0.
	Team string `json:"team"`

	// IsActive is always true for records retained by the fetch filter.
	// Kept in the serialized form for cache-file compatibility.
	IsActive bool `json:"is_active"`
}

// Source fetches the active-player list for a season from a remote stats
// provider. Implementations must respect ctx cancellation.
type Source interface {
	AllPlayers(ctx context.Context, season Season) ([]PlayerRecord, error)
}

// Names extracts the sorted full names from records — the flat string set the
// corrector matches against. Duplicates are preserved; tie-breaking between
// similarly named players is the scorer's slice-order rule.
func Names(records []PlayerRecord) []string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.FullName)
	}
	sort.Strings(names)
	return names
}
