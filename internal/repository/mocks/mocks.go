package mocks

import (
	"context"
	"encoding/json"

	"github.com/rpggio/leadagent/internal/domain/lead"
	"github.com/rpggio/leadagent/internal/domain/seed"
	"github.com/stretchr/testify/mock"
)

// SeedRepository is a mock for seed.Repository.
type SeedRepository struct {
	mock.Mock
}

func (m *SeedRepository) Create(ctx context.Context, s *seed.SeedURL) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SeedRepository) DeleteByURL(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *SeedRepository) GetByURL(ctx context.Context, url string) (*seed.SeedURL, error) {
	args := m.Called(ctx, url)
	if s, ok := args.Get(0).(*seed.SeedURL); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SeedRepository) List(ctx context.Context) ([]seed.SeedURL, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]seed.SeedURL); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SeedRepository) ListByStatus(ctx context.Context, status seed.Status) ([]seed.SeedURL, error) {
	args := m.Called(ctx, status)
	if list, ok := args.Get(0).([]seed.SeedURL); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SeedRepository) UpdateStatus(ctx context.Context, url string, status seed.Status) error {
	args := m.Called(ctx, url, status)
	return args.Error(0)
}

// LeadRepository is a mock for lead.Repository.
type LeadRepository struct {
	mock.Mock
}

func (m *LeadRepository) Upsert(ctx context.Context, l *lead.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *LeadRepository) Get(ctx context.Context, id int64) (*lead.Lead, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*lead.Lead); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LeadRepository) List(ctx context.Context, status *lead.Status) ([]lead.Lead, error) {
	args := m.Called(ctx, status)
	if list, ok := args.Get(0).([]lead.Lead); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LeadRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *LeadRepository) UpdateResearch(ctx context.Context, id int64, status lead.Status, info json.RawMessage) error {
	args := m.Called(ctx, id, status, info)
	return args.Error(0)
}

func (m *LeadRepository) CountByStatus(ctx context.Context) ([]lead.StatusCount, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]lead.StatusCount); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
