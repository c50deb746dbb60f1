package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation/internal/domain"
)

type PostgresVoucherRepository struct {
	db *pgxpool.Pool
}

func NewPostgresVoucherRepository(db *pgxpool.Pool) *PostgresVoucherRepository {
	return &PostgresVoucherRepository{
		db: db,
	}
}

// GetByCode matches the code exactly; codes are stored in their canonical form.
func (p *PostgresVoucherRepository) GetByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	query := `
		SELECT id, code, type, value, max_discount, min_spend, valid_from, valid_to, active
		FROM vouchers
		WHERE code = $1
	`

	var voucher domain.Voucher
	var voucherType string
	var value, maxDiscount, minSpend pgtype.Numeric

	err := p.db.QueryRow(ctx, query, code).Scan(
		&voucher.ID,
		&voucher.Code,
		&voucherType,
		&value,
		&maxDiscount,
		&minSpend,
		&voucher.ValidFrom,
		&voucher.ValidTo,
		&voucher.Active,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	voucher.Type, err = domain.ParseVoucherType(voucherType)
	if err != nil {
		return nil, err
	}

	voucher.Value = numericToDecimal(value)
	voucher.MaxDiscount = numericToDecimalPtr(maxDiscount)
	voucher.MinSpend = numericToDecimalPtr(minSpend)

	return &voucher, nil
}
