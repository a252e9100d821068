package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shapelift/shapelift/internal/store"
	"github.com/shapelift/shapelift/pkg/engine"
)

// ErrNotFound is returned when no dataset exists under the requested name.
var ErrNotFound = errors.New("dataset not found")

// Dataset is the stored metadata for one named record collection.
type Dataset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	RecordCount int       `json:"recordCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Store persists named record collections in the shared SQLite database.
// Records are stored as one JSON document per dataset; collections are
// loaded whole, shaped in memory by the engine, and never queried row by
// row.
type Store struct {
	db *store.SQLiteStore
}

// NewStore creates a dataset repository over the shared database.
func NewStore(db *store.SQLiteStore) *Store {
	return &Store{db: db}
}

// Migrate applies the dataset module's schema.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.Migrate(ctx, "dataset", []store.Migration{
		{
			Version:     1,
			Description: "create datasets table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE datasets (
						id           TEXT     PRIMARY KEY,
						name         TEXT     NOT NULL UNIQUE,
						records      TEXT     NOT NULL,
						record_count INTEGER  NOT NULL,
						created_at   DATETIME NOT NULL,
						updated_at   DATETIME NOT NULL
					)
				`)
				return err
			},
		},
	})
}

// Upsert stores records under name, replacing any existing collection. The
// dataset id and creation time survive replacement.
func (s *Store) Upsert(ctx context.Context, name string, records []engine.Record) (Dataset, error) {
	blob, err := json.Marshal(records)
	if err != nil {
		return Dataset{}, fmt.Errorf("marshal records for %q: %w", name, err)
	}

	now := time.Now().UTC()
	ds := Dataset{
		ID:          uuid.NewString(),
		Name:        name,
		RecordCount: len(records),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO datasets (id, name, records, record_count, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				records      = excluded.records,
				record_count = excluded.record_count,
				updated_at   = excluded.updated_at
		`, ds.ID, ds.Name, string(blob), ds.RecordCount, ds.CreatedAt, ds.UpdatedAt)
		return err
	})
	if err != nil {
		return Dataset{}, fmt.Errorf("upsert dataset %q: %w", name, err)
	}

	return s.Meta(ctx, name)
}

// Meta returns a dataset's metadata without loading its records.
func (s *Store) Meta(ctx context.Context, name string) (Dataset, error) {
	var ds Dataset
	err := s.db.DB().QueryRowContext(ctx, `
		SELECT id, name, record_count, created_at, updated_at
		FROM datasets WHERE name = ?
	`, name).Scan(&ds.ID, &ds.Name, &ds.RecordCount, &ds.CreatedAt, &ds.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Dataset{}, ErrNotFound
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("load dataset %q: %w", name, err)
	}
	return ds, nil
}

// Records loads the full record collection stored under name.
func (s *Store) Records(ctx context.Context, name string) ([]engine.Record, error) {
	var blob string
	err := s.db.DB().QueryRowContext(ctx,
		"SELECT records FROM datasets WHERE name = ?", name,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load records for %q: %w", name, err)
	}

	var records []engine.Record
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		return nil, fmt.Errorf("decode records for %q: %w", name, err)
	}
	return records, nil
}

// List returns metadata for all datasets, name ascending.
func (s *Store) List(ctx context.Context) ([]Dataset, error) {
	rows, err := s.db.DB().QueryContext(ctx, `
		SELECT id, name, record_count, created_at, updated_at
		FROM datasets ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	out := make([]Dataset, 0)
	for rows.Next() {
		var ds Dataset
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.RecordCount, &ds.CreatedAt, &ds.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

// Delete removes the dataset stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.DB().ExecContext(ctx, "DELETE FROM datasets WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete dataset %q: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dataset %q: %w", name, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
