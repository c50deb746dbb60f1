package domain

import "context"

// UserContact is the slice of a user account the engine needs to notify a customer.
type UserContact struct {
	ID        int64
	FirstName string
	Email     string
}

type UserRepository interface {
	GetContactById(ctx context.Context, id int64) (*UserContact, error)
}
