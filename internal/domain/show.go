package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidInterval = errors.New("end must be after start")

type Show struct {
	ID        int64
	MovieID   int64
	ScreenID  int64
	StartAt   time.Time
	EndAt     time.Time
	BasePrice decimal.Decimal
}

func (s Show) Duration() time.Duration {
	return s.EndAt.Sub(s.StartAt)
}

func (s Show) Overlaps(start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, ErrInvalidInterval
	}

	return start.Before(s.EndAt) && end.After(s.StartAt), nil
}

type AdjustmentTarget string

const (
	AdjustmentTargetGlobal     AdjustmentTarget = "GLOBAL"
	AdjustmentTargetScreenType AdjustmentTarget = "SCREEN_TYPE"
	AdjustmentTargetSeatType   AdjustmentTarget = "SEAT_TYPE"
)

func ParseAdjustmentTarget(s string) (AdjustmentTarget, error) {
	switch target := AdjustmentTarget(s); target {
	case AdjustmentTargetGlobal, AdjustmentTargetScreenType, AdjustmentTargetSeatType:
		return target, nil
	default:
		return "", fmt.Errorf("unknown price adjustment target %q", s)
	}
}

type AdjustmentMode string

const (
	AdjustmentModePercent AdjustmentMode = "PERCENT"
	AdjustmentModeFixed   AdjustmentMode = "FIXED"
)

func ParseAdjustmentMode(s string) (AdjustmentMode, error) {
	switch mode := AdjustmentMode(s); mode {
	case AdjustmentModePercent, AdjustmentModeFixed:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown price adjustment mode %q", s)
	}
}

type PriceAdjustment struct {
	ID     int64
	ShowID int64
	Target AdjustmentTarget
	Mode   AdjustmentMode
	Key    string
	Amount decimal.Decimal
}

// CatalogRepository serves the read-only show, screen and seat data the engine prices against.
type CatalogRepository interface {
	GetShowById(ctx context.Context, id int64) (*Show, error)
	GetScreenById(ctx context.Context, id int64) (*Screen, error)
	GetSeatById(ctx context.Context, id int64) (*Seat, error)
	GetSeatsByIds(ctx context.Context, ids []int64) ([]Seat, error)
	// GetSeatsByPairGroups returns every seat of the screen belonging to one of the groups.
	GetSeatsByPairGroups(ctx context.Context, screenID int64, groupIDs []int64) ([]Seat, error)
	// GetPriceAdjustmentsByShowId returns adjustments in their stored order.
	GetPriceAdjustmentsByShowId(ctx context.Context, showID int64) ([]PriceAdjustment, error)
}
