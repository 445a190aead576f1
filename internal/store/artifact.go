package store

import (
	"database/sql"
	"errors"
	"time"
)

// Artifact records a model file that passed verification.
type Artifact struct {
	Path       string
	Name       string
	SHA256     string
	Size       int64
	SourceURL  string
	VerifiedAt time.Time
}

// ArtifactRepository tracks verified artifacts.
type ArtifactRepository struct {
	db *sql.DB
}

// Artifacts returns the artifact repository for this store.
func (s *Store) Artifacts() *ArtifactRepository {
	return &ArtifactRepository{db: s.db}
}

// Record inserts or replaces the row for a.Path.
func (r *ArtifactRepository) Record(a *Artifact) error {
	if a.VerifiedAt.IsZero() {
		a.VerifiedAt = time.Now()
	}
	_, err := r.db.Exec(
		`INSERT INTO artifacts (path, name, sha256, size, source_url, verified_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   name = excluded.name,
		   sha256 = excluded.sha256,
		   size = excluded.size,
		   source_url = excluded.source_url,
		   verified_at = excluded.verified_at`,
		a.Path, a.Name, a.SHA256, a.Size, a.SourceURL, a.VerifiedAt,
	)
	return err
}

// Get returns the record for path.
func (r *ArtifactRepository) Get(path string) (*Artifact, error) {
	a := &Artifact{}
	err := r.db.QueryRow(
		`SELECT path, name, sha256, size, source_url, verified_at FROM artifacts WHERE path = ?`, path,
	).Scan(&a.Path, &a.Name, &a.SHA256, &a.Size, &a.SourceURL, &a.VerifiedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// List returns every record, most recently verified first.
func (r *ArtifactRepository) List() ([]Artifact, error) {
	rows, err := r.db.Query(
		`SELECT path, name, sha256, size, source_url, verified_at FROM artifacts ORDER BY verified_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.Path, &a.Name, &a.SHA256, &a.Size, &a.SourceURL, &a.VerifiedAt); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}
