package booking

import (
	"errors"
	"fmt"
	"time"
)

// Status is the outcome code reported to callers of the booking use cases.
type Status string

const (
	StatusHeld           Status = "HELD"
	StatusBooked         Status = "BOOKED"
	StatusReleased       Status = "RELEASED"
	StatusInvalid        Status = "INVALID"
	StatusNotFound       Status = "NOT_FOUND"
	StatusConflict       Status = "CONFLICT"
	StatusInvalidState   Status = "INVALID_STATE"
	StatusExpired        Status = "EXPIRED"
	StatusVoucherInvalid Status = "VOUCHER_INVALID"
)

func (s Status) String() string {
	return string(s)
}

// Error is a rejected use case. Anything that is not an *Error is an infrastructure failure.
type Error struct {
	Status  Status
	Message string

	// Set on seat conflicts when the occupying reservation is known.
	ReservationID int64
	HoldExpiresAt *time.Time
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

func newError(status Status, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...any) *Error {
	return newError(StatusInvalid, format, args...)
}

func NotFoundError(format string, args ...any) *Error {
	return newError(StatusNotFound, format, args...)
}

func ConflictError(format string, args ...any) *Error {
	return newError(StatusConflict, format, args...)
}

func InvalidStateError(format string, args ...any) *Error {
	return newError(StatusInvalidState, format, args...)
}

func ExpiredError(format string, args ...any) *Error {
	return newError(StatusExpired, format, args...)
}

func VoucherInvalidError(reason string) *Error {
	return newError(StatusVoucherInvalid, "%s", reason)
}

// StatusOf extracts the outcome status carried by err, if any.
func StatusOf(err error) (Status, bool) {
	var bookingErr *Error
	if errors.As(err, &bookingErr) {
		return bookingErr.Status, true
	}

	return "", false
}
