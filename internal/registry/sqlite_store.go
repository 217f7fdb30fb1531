package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore implements Store over a sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an opened sqlite database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Migrate creates the apps table if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS apps (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			document   TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrating apps table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, rec AppRecord) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO apps (id, name, document, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, string(rec.Document), rec.CreatedAt, now)
	if err != nil {
		return fmt.Errorf("inserting app %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*AppRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, document, created_at, updated_at FROM apps WHERE id = ?`, id)
	return scanApp(row)
}

func (s *SQLiteStore) List(ctx context.Context) ([]AppRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, document, created_at, updated_at FROM apps ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing apps: %w", err)
	}
	defer rows.Close()

	var out []AppRecord
	for rows.Next() {
		var rec AppRecord
		var doc string
		if err := rows.Scan(&rec.ID, &rec.Name, &doc, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning app row: %w", err)
		}
		rec.Document = json.RawMessage(doc)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Update(ctx context.Context, id, name string, doc json.RawMessage) (*AppRecord, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = existing.Name
	}
	if doc == nil {
		doc = existing.Document
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`UPDATE apps SET name = ?, document = ?, updated_at = ? WHERE id = ?`,
		name, string(doc), now, id)
	if err != nil {
		return nil, fmt.Errorf("updating app %s: %w", id, err)
	}
	return s.Get(ctx, id)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM apps WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting app %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanApp(row *sql.Row) (*AppRecord, error) {
	var rec AppRecord
	var doc string
	err := row.Scan(&rec.ID, &rec.Name, &doc, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning app row: %w", err)
	}
	rec.Document = json.RawMessage(doc)
	return &rec, nil
}
