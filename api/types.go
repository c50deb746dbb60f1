package api

import "time"

type HoldSeatsRequest struct {
	ShowId         int64   `json:"showId"`
	UserId         int64   `json:"userId"`
	SeatIds        []int64 `json:"seatIds" validate:"dive,gt=0"`
	IdempotencyKey *string `json:"idempotencyKey,omitempty" validate:"omitempty,max=64"`
}

type ConfirmBookingRequest struct {
	VoucherCode     *string `json:"voucherCode,omitempty" validate:"omitempty,max=32,printable"`
	PaymentIntentId *string `json:"paymentIntentId,omitempty" validate:"omitempty,max=64"`
}

type ReleaseHoldRequest struct {
	Reason string `json:"reason" validate:"required,notblank"`
}

type HoldResponse struct {
	Success          bool       `json:"success"`
	Status           string     `json:"status"`
	Message          string     `json:"message"`
	ReservationId    *int64     `json:"reservationId,omitempty"`
	ReservationIds   []int64    `json:"reservationIds,omitempty"`
	HoldExpiresAtUtc *time.Time `json:"holdExpiresAtUtc,omitempty"`
}

type ConfirmResponse struct {
	Success       bool   `json:"success"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	ReservationId int64  `json:"reservationId"`
	Subtotal      string `json:"subtotal"`
	Discount      string `json:"discount"`
	Total         string `json:"total"`
}

type ReleaseResponse struct {
	Success       bool   `json:"success"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	ReservationId int64  `json:"reservationId"`
}

// OutcomeResponse is returned for rejected booking use cases.
type OutcomeResponse struct {
	Success          bool       `json:"success"`
	Status           string     `json:"status"`
	Message          string     `json:"message"`
	ReservationId    *int64     `json:"reservationId,omitempty"`
	HoldExpiresAtUtc *time.Time `json:"holdExpiresAtUtc,omitempty"`
	RequestId        string     `json:"requestId"`
	Timestamp        time.Time  `json:"timestamp"`
}

type ErrorResponse struct {
	Success   bool      `json:"success"`
	Status    string    `json:"status,omitempty"`
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Success          bool              `json:"success"`
	Status           string            `json:"status"`
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string            `json:"status"`
	SystemInfo SystemInfo        `json:"systemInfo"`
	Components map[string]string `json:"components,omitempty"`
}
