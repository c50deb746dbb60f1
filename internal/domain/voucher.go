package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type VoucherType string

const (
	VoucherTypePercent VoucherType = "PERCENT"
	VoucherTypeAmount  VoucherType = "AMOUNT"
)

func ParseVoucherType(s string) (VoucherType, error) {
	switch t := VoucherType(s); t {
	case VoucherTypePercent, VoucherTypeAmount:
		return t, nil
	default:
		return "", fmt.Errorf("unknown voucher type %q", s)
	}
}

type Voucher struct {
	ID          int64
	Code        string
	Type        VoucherType
	Value       decimal.Decimal
	MaxDiscount *decimal.Decimal
	MinSpend    *decimal.Decimal
	ValidFrom   time.Time
	ValidTo     time.Time
	Active      bool
}

// InWindow reports whether now lies within [ValidFrom, ValidTo], both ends inclusive.
func (v Voucher) InWindow(now time.Time) bool {
	return !now.Before(v.ValidFrom) && !now.After(v.ValidTo)
}

func (v Voucher) MeetsSpend(subtotal decimal.Decimal) bool {
	return v.MinSpend == nil || subtotal.GreaterThanOrEqual(*v.MinSpend)
}

type VoucherRedemption struct {
	ID              int64
	ReservationID   int64
	VoucherID       int64
	RedeemedAt      time.Time
	DiscountApplied decimal.Decimal
}

type VoucherRepository interface {
	GetByCode(ctx context.Context, code string) (*Voucher, error)
}
