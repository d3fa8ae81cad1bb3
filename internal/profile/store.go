package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Load when no profile file exists yet.
var ErrNotFound = errors.New("profile not found")

// Store persists the canonical profile as a single JSON document on disk.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the profile, migrating legacy dialects to the canonical schema.
// A migrated document is written back immediately so the file self-heals on
// first read; a write-back failure is logged but does not fail the load.
func (s *Store) Load() (Profile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, fmt.Errorf("%w at %s: run 'tailorcv prepare' to create one", ErrNotFound, s.path)
		}
		return Profile{}, fmt.Errorf("reading profile: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Profile{}, fmt.Errorf("parsing profile %s: %w", s.path, err)
	}

	dialect := DetectDialect(raw)
	p := Migrate(raw)

	if dialect != DialectCanonical {
		slog.Info("migrated legacy profile", "dialect", dialect.String(), "path", s.path)
		if err := s.Save(p); err != nil {
			slog.Warn("could not persist migrated profile", "path", s.path, "error", err)
		}
	}
	return p, nil
}

// Save writes the profile atomically via a temp file in the same directory.
func (s *Store) Save(p Profile) error {
	p.normalize()
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating profile directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".profile-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing profile: %w", err)
	}
	return nil
}

// RecordAdaptationNote upserts a memory note under the given title and
// persists the change.
func (s *Store) RecordAdaptationNote(title, note string) error {
	p, err := s.Load()
	if err != nil {
		return err
	}
	if p.MemoryNotes == nil {
		p.MemoryNotes = map[string]string{}
	}
	p.MemoryNotes[title] = note
	return s.Save(p)
}
