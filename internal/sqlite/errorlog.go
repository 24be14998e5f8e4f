package sqlite

import (
	"context"
	"database/sql"

	"github.com/rpggio/leadagent/internal/domain/errorlog"
)

// ErrorLogRepository implements errorlog.Repository for SQLite
type ErrorLogRepository struct {
	db *DB
}

// NewErrorLogRepository creates a new ErrorLogRepository
func NewErrorLogRepository(db *DB) *ErrorLogRepository {
	return &ErrorLogRepository{db: db}
}

// Append inserts an error record and sets its ID
func (r *ErrorLogRepository) Append(ctx context.Context, rec *errorlog.Record) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO errors (url, error_message, timestamp) VALUES (?, ?, ?)`,
		rec.URL, rec.ErrorMessage, rec.Timestamp,
	)
	if err != nil {
		return storageErr("append error record", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("read error record id", err)
	}
	rec.ID = id
	return nil
}

// List returns every error record in insertion order
func (r *ErrorLogRepository) List(ctx context.Context) ([]errorlog.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, url, error_message, timestamp FROM errors ORDER BY id`)
	if err != nil {
		return nil, storageErr("list error records", err)
	}
	defer rows.Close()

	recs := []errorlog.Record{}
	for rows.Next() {
		var (
			rec errorlog.Record
			ts  sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.URL, &rec.ErrorMessage, &ts); err != nil {
			return nil, storageErr("scan error record", err)
		}
		if ts.Valid {
			rec.Timestamp = ts.Time
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate error records", err)
	}
	return recs, nil
}
