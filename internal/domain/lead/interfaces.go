package lead

import (
	"context"
	"encoding/json"
)

// Repository provides persistence for leads.
type Repository interface {
	Upsert(ctx context.Context, l *Lead) error
	Get(ctx context.Context, id int64) (*Lead, error)
	List(ctx context.Context, status *Status) ([]Lead, error)
	Delete(ctx context.Context, id int64) error
	UpdateResearch(ctx context.Context, id int64, status Status, info json.RawMessage) error
	CountByStatus(ctx context.Context) ([]StatusCount, error)
}
