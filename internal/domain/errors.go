package domain

import "errors"

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrEditConflict        = errors.New("edit conflict")
	ErrSeatAlreadyReserved = errors.New("seat(s) are already reserved")
	ErrInvalidStatus       = errors.New("invalid reservation status")
	ErrInvalidTransition   = errors.New("reservation is not held")
)
