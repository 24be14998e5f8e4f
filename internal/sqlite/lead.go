package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rpggio/leadagent/internal/domain/lead"
	"github.com/rpggio/leadagent/internal/repository"
)

const leadColumns = `id, company_name, website, source_url, status, additional_info, score, updated_at`

// LeadRepository implements lead.Repository for SQLite
type LeadRepository struct {
	db  *DB
	now func() time.Time
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(db *DB) *LeadRepository {
	return &LeadRepository{db: db, now: time.Now}
}

// Upsert inserts a lead or replaces the row sharing its website, and sets ID
// to the surviving row's ID.
func (r *LeadRepository) Upsert(ctx context.Context, l *lead.Lead) error {
	info := l.AdditionalInfo
	if len(info) == 0 {
		info = json.RawMessage(`{}`)
	}
	l.UpdatedAt = r.now().UTC()

	query := `
		INSERT INTO leads (company_name, website, source_url, status, additional_info, score, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(website) DO UPDATE SET
			company_name = excluded.company_name,
			source_url = excluded.source_url,
			status = excluded.status,
			additional_info = excluded.additional_info,
			score = excluded.score,
			updated_at = excluded.updated_at
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		l.CompanyName,
		l.Website,
		l.SourceURL,
		l.Status,
		string(info),
		l.Score,
		l.UpdatedAt,
	).Scan(&l.ID)
	if err != nil {
		return storageErr("upsert lead", err)
	}
	return nil
}

// Get retrieves a lead by ID
func (r *LeadRepository) Get(ctx context.Context, id int64) (*lead.Lead, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	l, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get lead", err)
	}
	return l, nil
}

// List returns leads ordered by ID, optionally filtered by status
func (r *LeadRepository) List(ctx context.Context, status *lead.Status) ([]lead.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	var args []any
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, *status)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list leads", err)
	}
	defer rows.Close()

	leads := []lead.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, storageErr("scan lead", err)
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate leads", err)
	}
	return leads, nil
}

// Delete removes a lead by ID
func (r *LeadRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete lead", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete lead", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateResearch writes status and additional_info in one statement
func (r *LeadRepository) UpdateResearch(ctx context.Context, id int64, status lead.Status, info json.RawMessage) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE leads SET status = ?, additional_info = ?, updated_at = ? WHERE id = ?`,
		status, string(info), r.now().UTC(), id,
	)
	if err != nil {
		return storageErr("update lead research", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("update lead research", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountByStatus returns the number of leads per status
func (r *LeadRepository) CountByStatus(ctx context.Context) ([]lead.StatusCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM leads GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, storageErr("count leads", err)
	}
	defer rows.Close()

	counts := []lead.StatusCount{}
	for rows.Next() {
		var c lead.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, storageErr("scan lead count", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate lead counts", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(s rowScanner) (*lead.Lead, error) {
	var (
		l         lead.Lead
		info      sql.NullString
		score     sql.NullFloat64
		updatedAt sql.NullTime
	)
	if err := s.Scan(
		&l.ID,
		&l.CompanyName,
		&l.Website,
		&l.SourceURL,
		&l.Status,
		&info,
		&score,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	if info.Valid && info.String != "" {
		l.AdditionalInfo = json.RawMessage(info.String)
	}
	l.Score = score.Float64
	if updatedAt.Valid {
		l.UpdatedAt = updatedAt.Time
	}
	return &l, nil
}
