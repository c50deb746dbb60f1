package mocks

import (
	"context"

	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockVoucherRepo struct {
	mock.Mock
	domain.VoucherRepository
}

func (m *MockVoucherRepo) GetByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}
