package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Phrase is an operator-defined text for a gesture tag.
type Phrase struct {
	Tag       string
	Text      string
	UpdatedAt time.Time
}

// PhraseRepository manages phrase overrides.
type PhraseRepository struct {
	db *sql.DB
}

// Phrases returns the phrase repository for this store.
func (s *Store) Phrases() *PhraseRepository {
	return &PhraseRepository{db: s.db}
}

// Upsert sets the text for tag.
func (r *PhraseRepository) Upsert(tag, text string) error {
	_, err := r.db.Exec(
		`INSERT INTO phrases (tag, text, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(tag) DO UPDATE SET text = excluded.text, updated_at = excluded.updated_at`,
		tag, text, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert phrase %s: %w", tag, err)
	}
	return nil
}

// SeedDefaults inserts every default that has no row yet and returns how
// many were inserted. Existing overrides are left untouched.
func (r *PhraseRepository) SeedDefaults(defaults map[string]string) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now()
	inserted := 0
	for tag, text := range defaults {
		res, err := tx.Exec(`INSERT OR IGNORE INTO phrases (tag, text, updated_at) VALUES (?, ?, ?)`, tag, text, now)
		if err != nil {
			return 0, fmt.Errorf("seed phrase %s: %w", tag, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// Get returns the phrase for tag.
func (r *PhraseRepository) Get(tag string) (*Phrase, error) {
	p := &Phrase{}
	err := r.db.QueryRow(`SELECT tag, text, updated_at FROM phrases WHERE tag = ?`, tag).
		Scan(&p.Tag, &p.Text, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns all phrases ordered by tag.
func (r *PhraseRepository) List() ([]Phrase, error) {
	rows, err := r.db.Query(`SELECT tag, text, updated_at FROM phrases ORDER BY tag`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phrases []Phrase
	for rows.Next() {
		var p Phrase
		if err := rows.Scan(&p.Tag, &p.Text, &p.UpdatedAt); err != nil {
			return nil, err
		}
		phrases = append(phrases, p)
	}
	return phrases, rows.Err()
}

// Delete removes the phrase for tag.
func (r *PhraseRepository) Delete(tag string) error {
	res, err := r.db.Exec(`DELETE FROM phrases WHERE tag = ?`, tag)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
