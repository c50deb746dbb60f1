package domain

import (
	"context"
	"slices"
	"time"
)

// HoldReceipt is the remembered outcome of a successful hold request.
type HoldReceipt struct {
	ShowID         int64     `json:"showId"`
	UserID         int64     `json:"userId"`
	SeatIDs        []int64   `json:"seatIds"`
	ReservationIDs []int64   `json:"reservationIds"`
	HoldExpiresAt  time.Time `json:"holdExpiresAt"`
}

// Matches reports whether a retried request asks for the same thing as the original one.
func (r HoldReceipt) Matches(showID, userID int64, seatIDs []int64) bool {
	if r.ShowID != showID || r.UserID != userID || len(r.SeatIDs) != len(seatIDs) {
		return false
	}

	a := slices.Clone(r.SeatIDs)
	b := slices.Clone(seatIDs)
	slices.Sort(a)
	slices.Sort(b)

	return slices.Equal(a, b)
}

type IdempotencyStore interface {
	// Get returns ErrRecordNotFound when nothing is remembered for the key.
	Get(ctx context.Context, userID int64, key string) (*HoldReceipt, error)
	Save(ctx context.Context, key string, receipt HoldReceipt, ttl time.Duration) error
}
