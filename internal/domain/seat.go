package domain

import (
	"fmt"
	"strings"
)

type Seat struct {
	ID          int64
	ScreenID    int64
	RowLabel    string
	SeatNumber  int
	SeatType    string
	PairGroupID *int64
}

// Label renders the seat position, e.g. "A1".
func (s Seat) Label() string {
	return fmt.Sprintf("%s%d", s.RowLabel, s.SeatNumber)
}

func (s Seat) IsPaired() bool {
	return s.PairGroupID != nil
}

func (s Seat) HasType(seatType string) bool {
	return strings.EqualFold(s.SeatType, seatType)
}

type Screen struct {
	ID         int64
	TheaterID  int64
	Name       string
	ScreenType string
}

func (s Screen) HasType(screenType string) bool {
	return strings.EqualFold(s.ScreenType, screenType)
}
