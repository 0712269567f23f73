package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/ticket-dashboard/internal/repository"
)

// LoadRepository is a mock for repository.LoadRepository.
type LoadRepository struct {
	mock.Mock
}

func (m *LoadRepository) Create(ctx context.Context, entry *repository.LoadEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *LoadRepository) ListRecent(ctx context.Context, limit int) ([]repository.LoadEntry, error) {
	args := m.Called(ctx, limit)
	if list, ok := args.Get(0).([]repository.LoadEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
