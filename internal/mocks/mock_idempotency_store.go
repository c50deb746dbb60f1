package mocks

import (
	"context"
	"time"

	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockIdempotencyStore struct {
	mock.Mock
	domain.IdempotencyStore
}

func (m *MockIdempotencyStore) Get(ctx context.Context, userID int64, key string) (*domain.HoldReceipt, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HoldReceipt), args.Error(1)
}

func (m *MockIdempotencyStore) Save(ctx context.Context, key string, receipt domain.HoldReceipt, ttl time.Duration) error {
	args := m.Called(ctx, key, receipt, ttl)
	return args.Error(0)
}
