package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/leadagent/internal/domain/seed"
	"github.com/rpggio/leadagent/internal/repository"
)

// SeedRepository implements seed.Repository for SQLite
type SeedRepository struct {
	db *DB
}

// NewSeedRepository creates a new SeedRepository
func NewSeedRepository(db *DB) *SeedRepository {
	return &SeedRepository{db: db}
}

// Create inserts a seed and sets its ID
func (r *SeedRepository) Create(ctx context.Context, s *seed.SeedURL) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO seed_urls (url, status) VALUES (?, ?)`,
		s.URL, s.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("seed %s: %w", s.URL, repository.ErrDuplicate)
		}
		return storageErr("create seed", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("read seed id", err)
	}
	s.ID = id
	return nil
}

// DeleteByURL removes the seed for url; a missing row is not an error
func (r *SeedRepository) DeleteByURL(ctx context.Context, url string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM seed_urls WHERE url = ?`, url); err != nil {
		return storageErr("delete seed", err)
	}
	return nil
}

// GetByURL retrieves a seed by its URL
func (r *SeedRepository) GetByURL(ctx context.Context, url string) (*seed.SeedURL, error) {
	var s seed.SeedURL
	err := r.db.QueryRowContext(ctx,
		`SELECT id, url, status FROM seed_urls WHERE url = ?`, url,
	).Scan(&s.ID, &s.URL, &s.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get seed", err)
	}
	return &s, nil
}

// List returns all seeds in registration order
func (r *SeedRepository) List(ctx context.Context) ([]seed.SeedURL, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, url, status FROM seed_urls ORDER BY id`)
	if err != nil {
		return nil, storageErr("list seeds", err)
	}
	return scanSeeds(rows)
}

// ListByStatus returns seeds in status, in registration order
func (r *SeedRepository) ListByStatus(ctx context.Context, status seed.Status) ([]seed.SeedURL, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, url, status FROM seed_urls WHERE status = ? ORDER BY id`, status)
	if err != nil {
		return nil, storageErr("list seeds by status", err)
	}
	return scanSeeds(rows)
}

// UpdateStatus sets the status of the seed for url
func (r *SeedRepository) UpdateStatus(ctx context.Context, url string, status seed.Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE seed_urls SET status = ? WHERE url = ?`, status, url)
	if err != nil {
		return storageErr("update seed status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("update seed status", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanSeeds(rows *sql.Rows) ([]seed.SeedURL, error) {
	defer rows.Close()

	seeds := []seed.SeedURL{}
	for rows.Next() {
		var s seed.SeedURL
		if err := rows.Scan(&s.ID, &s.URL, &s.Status); err != nil {
			return nil, storageErr("scan seed", err)
		}
		seeds = append(seeds, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate seeds", err)
	}
	return seeds, nil
}
