package domain

import (
	"context"
	"time"
)

const (
	EventSeatsHeld     = "SeatsHeld"
	EventSeatsBooked   = "SeatsBooked"
	EventSeatsReleased = "SeatsReleased"
)

type Event interface {
	EventName() string
}

type SeatsHeld struct {
	ShowID         int64     `json:"showId"`
	SeatIDs        []int64   `json:"seatIds"`
	UserID         int64     `json:"userId"`
	ReservationIDs []int64   `json:"reservationIds"`
	HoldExpiresAt  time.Time `json:"holdExpiresAt"`
}

func (SeatsHeld) EventName() string { return EventSeatsHeld }

type SeatsBooked struct {
	ShowID        int64   `json:"showId"`
	SeatIDs       []int64 `json:"seatIds"`
	UserID        int64   `json:"userId"`
	ReservationID int64   `json:"reservationId"`
	Total         string  `json:"total"`
}

func (SeatsBooked) EventName() string { return EventSeatsBooked }

type SeatsReleased struct {
	ShowID        int64   `json:"showId"`
	SeatIDs       []int64 `json:"seatIds"`
	UserID        int64   `json:"userId"`
	ReservationID int64   `json:"reservationId"`
	Reason        string  `json:"reason"`
}

func (SeatsReleased) EventName() string { return EventSeatsReleased }

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
