package store

import "fmt"

// migrations are applied in order; each statement must be idempotent.
var migrations = []string{
	// Operator overrides for the gesture phrasebook
	`CREATE TABLE IF NOT EXISTS phrases (
		tag TEXT PRIMARY KEY,
		text TEXT NOT NULL CHECK(length(text) > 0),
		updated_at DATETIME NOT NULL
	)`,

	// Model files verified at startup
	`CREATE TABLE IF NOT EXISTS artifacts (
		path TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		sha256 TEXT NOT NULL,
		size INTEGER NOT NULL,
		source_url TEXT NOT NULL DEFAULT '',
		verified_at DATETIME NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_artifacts_name ON artifacts(name)`,
}

func (s *Store) runMigrations() error {
	for i, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
