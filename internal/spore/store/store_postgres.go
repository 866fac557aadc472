// Package store persists spores. The Postgres store is the production
// implementation; the in-memory store backs unit and handler tests.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"sporemap/internal/spore/models"
	"sporemap/internal/spore/query"
)

// PostgresStore persists spores in PostgreSQL via parameterized statements.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed spore store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS spores (
	id         BIGSERIAL PRIMARY KEY,
	lat        DOUBLE PRECISION NOT NULL,
	lng        DOUBLE PRECISION NOT NULL,
	message    TEXT NOT NULL,
	cookie_id  TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	ip_address TEXT
);

CREATE INDEX IF NOT EXISTS idx_spores_lat_lng ON spores (lat, lng);
CREATE INDEX IF NOT EXISTS idx_spores_cookie_id ON spores (cookie_id);
`

// Migrate applies the spores schema. Idempotent, safe to run at startup.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate spores schema: %w", err)
	}
	return nil
}

// Insert persists one spore and fills in its storage-assigned id and
// created_at. The id sequence makes insertion order the canonical order.
func (s *PostgresStore) Insert(ctx context.Context, sp *models.Spore) (int64, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO spores (lat, lng, message, cookie_id, ip_address)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		sp.Lat, sp.Lng, sp.Message, sp.CookieID, sp.IPAddress,
	).Scan(&sp.ID, &sp.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert spore: %w", err)
	}
	return sp.ID, nil
}

// List returns the filtered page in ascending id order.
func (s *PostgresStore) List(ctx context.Context, f models.GeoFilters) ([]models.Spore, error) {
	q, _ := query.Build(f)

	rows, err := s.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("list spores: %w", err)
	}
	defer rows.Close()

	spores := make([]models.Spore, 0)
	for rows.Next() {
		var sp models.Spore
		if err := rows.Scan(&sp.ID, &sp.Lat, &sp.Lng, &sp.Message, &sp.CookieID, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan spore: %w", err)
		}
		spores = append(spores, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spores: %w", err)
	}
	return spores, nil
}

// Count returns the size of the whole filtered set, ignoring cursor/limit.
func (s *PostgresStore) Count(ctx context.Context, f models.GeoFilters) (int64, error) {
	_, cq := query.Build(f)

	var total int64
	if err := s.db.QueryRowContext(ctx, cq.SQL, cq.Args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count spores: %w", err)
	}
	return total, nil
}
