package seed

import "context"

// Repository provides persistence for seed URLs.
type Repository interface {
	Create(ctx context.Context, s *SeedURL) error
	DeleteByURL(ctx context.Context, url string) error
	GetByURL(ctx context.Context, url string) (*SeedURL, error)
	List(ctx context.Context) ([]SeedURL, error)
	ListByStatus(ctx context.Context, status Status) ([]SeedURL, error)
	UpdateStatus(ctx context.Context, url string, status Status) error
}
