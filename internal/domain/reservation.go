package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationStatusHeld     ReservationStatus = "HELD"
	ReservationStatusBooked   ReservationStatus = "BOOKED"
	ReservationStatusReleased ReservationStatus = "RELEASED"
)

// ParseReservationStatus accepts only the exact stored spelling of a status.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch status := ReservationStatus(s); status {
	case ReservationStatusHeld, ReservationStatusBooked, ReservationStatusReleased:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// IsActive reports whether the status occupies the seat for the show.
func (s ReservationStatus) IsActive() bool {
	return s == ReservationStatusHeld || s == ReservationStatusBooked
}

func (s ReservationStatus) String() string {
	return string(s)
}

type Reservation struct {
	ID              int64
	ShowID          int64
	SeatID          int64
	UserID          int64
	Status          ReservationStatus
	CreatedAt       time.Time
	HoldExpiresAt   *time.Time
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	PaymentIntentID *string
	IdempotencyKey  *string
	ReleaseReason   *string
	Version         int
}

// NewHold builds a HELD reservation for a single seat. Pricing happens on confirmation.
func NewHold(showID, seatID, userID int64, createdAt, expiresAt time.Time, idempotencyKey *string) *Reservation {
	expiry := expiresAt.UTC()

	return &Reservation{
		ShowID:         showID,
		SeatID:         seatID,
		UserID:         userID,
		Status:         ReservationStatusHeld,
		CreatedAt:      createdAt.UTC(),
		HoldExpiresAt:  &expiry,
		Subtotal:       decimal.Zero,
		Discount:       decimal.Zero,
		Total:          decimal.Zero,
		IdempotencyKey: idempotencyKey,
	}
}

func (r *Reservation) HoldHasExpired(now time.Time) bool {
	return r.HoldExpiresAt != nil && !now.Before(*r.HoldExpiresAt)
}

func (r *Reservation) IsHoldActive(now time.Time) bool {
	return r.Status == ReservationStatusHeld && !r.HoldHasExpired(now)
}

func (r *Reservation) IsBooked() bool {
	return r.Status == ReservationStatusBooked
}

// OccupiesSeat reports whether the row still blocks the seat at the given instant.
// An expired hold no longer counts even though its stored status is HELD.
func (r *Reservation) OccupiesSeat(now time.Time) bool {
	return r.IsBooked() || r.IsHoldActive(now)
}

func (r *Reservation) AmountDue() decimal.Decimal {
	return NonNegative(r.Subtotal.Sub(r.Discount))
}

// MarkBooked moves a HELD reservation to BOOKED with its final price.
func (r *Reservation) MarkBooked(subtotal, discount decimal.Decimal, paymentIntentID *string) error {
	if r.Status != ReservationStatusHeld {
		return ErrInvalidTransition
	}

	r.Subtotal = RoundMoney(subtotal)
	r.Discount = RoundMoney(discount)
	r.Total = r.AmountDue()
	r.PaymentIntentID = paymentIntentID
	r.Status = ReservationStatusBooked

	return nil
}

// MarkReleased moves a HELD reservation to RELEASED and clears the hold window.
func (r *Reservation) MarkReleased(reason string) error {
	if r.Status != ReservationStatusHeld {
		return ErrInvalidTransition
	}

	r.Status = ReservationStatusReleased
	r.HoldExpiresAt = nil
	r.ReleaseReason = &reason

	return nil
}

type ReservationRepository interface {
	// GetActiveByShowAndSeat returns the row occupying the seat at now, or ErrRecordNotFound.
	GetActiveByShowAndSeat(ctx context.Context, showID, seatID int64, now time.Time) (*Reservation, error)
	// CreateHolds inserts every hold in one transaction, or none of them.
	CreateHolds(ctx context.Context, holds []*Reservation, now time.Time) error
	GetById(ctx context.Context, id int64) (*Reservation, error)
	Update(ctx context.Context, reservation *Reservation) error
	Confirm(ctx context.Context, reservation *Reservation, redemption *VoucherRedemption) error
}
