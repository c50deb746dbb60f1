package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	reasonVoucherNotFound = "Voucher not found"
	reasonVoucherInactive = "Voucher inactive"
	reasonVoucherWindow   = "Voucher expired or not yet valid"
	reasonMinSpendNotMet  = "Minimum spend not met"
)

// VoucherValidator checks a voucher code and computes its discount against a subtotal.
type VoucherValidator struct {
	vouchers domain.VoucherRepository
}

func NewVoucherValidator(vouchers domain.VoucherRepository) *VoucherValidator {
	return &VoucherValidator{vouchers: vouchers}
}

// Validate returns the voucher and the discount it grants on subtotal at now.
// A rejected voucher is reported as an *Error with StatusVoucherInvalid.
func (v *VoucherValidator) Validate(
	ctx context.Context,
	code string,
	subtotal decimal.Decimal,
	now time.Time) (*domain.Voucher, decimal.Decimal, error) {

	voucher, err := v.vouchers.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, decimal.Zero, VoucherInvalidError(reasonVoucherNotFound)
		}

		return nil, decimal.Zero, fmt.Errorf("failed to load voucher: %w", err)
	}

	if !voucher.Active {
		return nil, decimal.Zero, VoucherInvalidError(reasonVoucherInactive)
	}

	if !voucher.InWindow(now) {
		return nil, decimal.Zero, VoucherInvalidError(reasonVoucherWindow)
	}

	if !voucher.MeetsSpend(subtotal) {
		return nil, decimal.Zero, VoucherInvalidError(reasonMinSpendNotMet)
	}

	return voucher, CalculateDiscount(*voucher, subtotal), nil
}

// CalculateDiscount computes the raw discount, caps it at MaxDiscount when set and
// then at the subtotal, so the total can never go negative.
func CalculateDiscount(voucher domain.Voucher, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal

	switch voucher.Type {
	case domain.VoucherTypePercent:
		discount = domain.RoundMoney(domain.Percent(subtotal, voucher.Value))
	default:
		discount = voucher.Value
	}

	if voucher.MaxDiscount != nil {
		discount = decimal.Min(discount, *voucher.MaxDiscount)
	}

	discount = decimal.Min(discount, domain.NonNegative(subtotal))

	return domain.NonNegative(discount)
}
