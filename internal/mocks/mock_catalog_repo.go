package mocks

import (
	"context"

	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockCatalogRepo struct {
	mock.Mock
	domain.CatalogRepository
}

func (m *MockCatalogRepo) GetShowById(ctx context.Context, id int64) (*domain.Show, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Show), args.Error(1)
}

func (m *MockCatalogRepo) GetScreenById(ctx context.Context, id int64) (*domain.Screen, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Screen), args.Error(1)
}

func (m *MockCatalogRepo) GetSeatById(ctx context.Context, id int64) (*domain.Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seat), args.Error(1)
}

func (m *MockCatalogRepo) GetSeatsByIds(ctx context.Context, ids []int64) ([]domain.Seat, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockCatalogRepo) GetSeatsByPairGroups(ctx context.Context, screenID int64, groupIDs []int64) ([]domain.Seat, error) {
	args := m.Called(ctx, screenID, groupIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockCatalogRepo) GetPriceAdjustmentsByShowId(ctx context.Context, showID int64) ([]domain.PriceAdjustment, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PriceAdjustment), args.Error(1)
}
