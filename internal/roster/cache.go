package roster

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Envelope is the cache file's serialized shape: a fetch timestamp plus the
// player records captured at that moment.
type Envelope struct {
	// Timestamp is the epoch time (seconds) of the fetch that produced Data.
	Timestamp int64 `json:"timestamp"`

	// Data is the ordered player list as returned by the fetch filter.
	Data []PlayerRecord `json:"data"`
}

// Age returns how long ago the envelope was written.
func (e Envelope) Age(now time.Time) time.Duration {
	return now.Sub(time.Unix(e.Timestamp, 0))
}

// Store reads and writes the single roster cache file.
//
// Load fails soft: a missing or corrupt file is reported as "no cache", never
// as an error, because the fetcher treats both identically (proceed to the
// network). Save fails loud on I/O errors since losing a fresh roster
// silently would leave the next session on stale data with no indication why.
//
// The file is the only persisted state in the application. Writers replace it
// wholesale via temp file + rename, so readers never observe a partial write.
// Concurrent writers are not a supported scenario.
type Store struct {
	path string
}

// NewStore returns a [Store] backed by the file at path. The file need not
// exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the cache file. ok is false when the file is missing, unreadable,
// or not a valid envelope.
func (s *Store) Load() (Envelope, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("roster cache unreadable, treating as miss", "path", s.path, "err", err)
		}
		return Envelope{}, false
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		slog.Warn("roster cache corrupt, treating as miss", "path", s.path, "err", err)
		return Envelope{}, false
	}
	return env, true
}

// Save overwrites the cache file with a fresh envelope stamped at the current
// time. The write goes through a temp file in the same directory followed by
// a rename, so a crash mid-write cannot corrupt the existing cache.
func (s *Store) Save(records []PlayerRecord) error {
	env := Envelope{
		Timestamp: time.Now().Unix(),
		Data:      records,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("roster cache: marshal: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("roster cache: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".roster-*.tmp")
	if err != nil {
		return fmt.Errorf("roster cache: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("roster cache: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("roster cache: close: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("roster cache: rename: %w", err)
	}
	return nil
}
