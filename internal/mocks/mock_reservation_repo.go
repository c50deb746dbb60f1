package mocks

import (
	"context"
	"time"

	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockReservationRepo struct {
	mock.Mock
	domain.ReservationRepository
}

func (m *MockReservationRepo) GetActiveByShowAndSeat(ctx context.Context, showID, seatID int64, now time.Time) (*domain.Reservation, error) {
	args := m.Called(ctx, showID, seatID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) CreateHolds(ctx context.Context, holds []*domain.Reservation, now time.Time) error {
	args := m.Called(ctx, holds, now)
	return args.Error(0)
}

func (m *MockReservationRepo) GetById(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) Update(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepo) Confirm(ctx context.Context, reservation *domain.Reservation, redemption *domain.VoucherRedemption) error {
	args := m.Called(ctx, reservation, redemption)
	return args.Error(0)
}
