package mocks

import (
	"context"

	"github.com/metinatakli/seat-reservation/internal/domain"
)

type MockUserRepo struct {
	domain.UserRepository
	GetContactByIdFunc func(ctx context.Context, id int64) (*domain.UserContact, error)
}

func (m *MockUserRepo) GetContactById(ctx context.Context, id int64) (*domain.UserContact, error) {
	return m.GetContactByIdFunc(ctx, id)
}
