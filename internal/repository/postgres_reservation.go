package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/samber/lo"
)

const expiredHoldReason = "hold expired"

const reservationColumns = `
	id, show_id, seat_id, user_id, status, created_at, hold_expires_at,
	subtotal, discount, total, payment_intent_id, idempotency_key, release_reason, version`

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresReservationRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReservationRepository(db *pgxpool.Pool) *PostgresReservationRepository {
	return &PostgresReservationRepository{
		db: db,
	}
}

func (p *PostgresReservationRepository) GetActiveByShowAndSeat(
	ctx context.Context,
	showID, seatID int64,
	now time.Time) (*domain.Reservation, error) {

	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE show_id = $1 AND seat_id = $2
			AND (status = 'BOOKED' OR (status = 'HELD' AND hold_expires_at > $3))
		LIMIT 1
	`

	return scanReservation(p.db.QueryRow(ctx, query, showID, seatID, now))
}

// CreateHolds first retires expired holds on the requested seats, then inserts the new
// rows. The partial unique index on active rows rejects the whole batch if any seat is taken.
func (p *PostgresReservationRepository) CreateHolds(ctx context.Context, holds []*domain.Reservation, now time.Time) error {
	if len(holds) == 0 {
		return nil
	}

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE reservations
			SET status = 'RELEASED', hold_expires_at = NULL, release_reason = $3,
				version = version + 1, updated_at = NOW()
			WHERE (show_id, seat_id) IN (SELECT * FROM unnest($1::bigint[], $2::bigint[]))
				AND status = 'HELD' AND hold_expires_at <= $4
		`

		showIDs := lo.Map(holds, func(r *domain.Reservation, _ int) int64 { return r.ShowID })
		seatIDs := lo.Map(holds, func(r *domain.Reservation, _ int) int64 { return r.SeatID })

		_, err := tx.Exec(ctx, query, showIDs, seatIDs, expiredHoldReason, now)
		if err != nil {
			return err
		}

		query = `
			INSERT INTO reservations
				(show_id, seat_id, user_id, status, created_at, hold_expires_at,
				subtotal, discount, total, idempotency_key)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, version
		`

		batch := &pgx.Batch{}
		for _, r := range holds {
			batch.Queue(query,
				r.ShowID,
				r.SeatID,
				r.UserID,
				r.Status.String(),
				r.CreatedAt,
				r.HoldExpiresAt,
				r.Subtotal,
				r.Discount,
				r.Total,
				r.IdempotencyKey)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for _, r := range holds {
			err = results.QueryRow().Scan(&r.ID, &r.Version)
			if err != nil {
				if isUniqueViolation(err) {
					return domain.ErrSeatAlreadyReserved
				}

				return err
			}
		}

		return nil
	})
}

func (p *PostgresReservationRepository) GetById(ctx context.Context, id int64) (*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE id = $1
	`

	return scanReservation(p.db.QueryRow(ctx, query, id))
}

func (p *PostgresReservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	return updateReservation(ctx, p.db, reservation)
}

// Confirm persists a booked reservation and its voucher redemption, if any, atomically.
func (p *PostgresReservationRepository) Confirm(
	ctx context.Context,
	reservation *domain.Reservation,
	redemption *domain.VoucherRedemption) error {

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		err := updateReservation(ctx, tx, reservation)
		if err != nil {
			return err
		}

		if redemption == nil {
			return nil
		}

		query := `
			INSERT INTO voucher_redemptions (reservation_id, voucher_id, redeemed_at, discount_applied)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`

		return tx.QueryRow(ctx,
			query,
			reservation.ID,
			redemption.VoucherID,
			redemption.RedeemedAt,
			redemption.DiscountApplied).Scan(&redemption.ID)
	})
}

func updateReservation(ctx context.Context, q rowQuerier, r *domain.Reservation) error {
	query := `
		UPDATE reservations
		SET status = $1, hold_expires_at = $2, subtotal = $3, discount = $4, total = $5,
			payment_intent_id = $6, release_reason = $7, version = version + 1, updated_at = NOW()
		WHERE id = $8 AND version = $9
		RETURNING version
	`

	err := q.QueryRow(ctx,
		query,
		r.Status.String(),
		r.HoldExpiresAt,
		r.Subtotal,
		r.Discount,
		r.Total,
		r.PaymentIntentID,
		r.ReleaseReason,
		r.ID,
		r.Version).Scan(&r.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var r domain.Reservation
	var status string
	var subtotal, discount, total pgtype.Numeric

	err := row.Scan(
		&r.ID,
		&r.ShowID,
		&r.SeatID,
		&r.UserID,
		&status,
		&r.CreatedAt,
		&r.HoldExpiresAt,
		&subtotal,
		&discount,
		&total,
		&r.PaymentIntentID,
		&r.IdempotencyKey,
		&r.ReleaseReason,
		&r.Version,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	r.Status, err = domain.ParseReservationStatus(status)
	if err != nil {
		return nil, err
	}

	r.Subtotal = numericToDecimal(subtotal)
	r.Discount = numericToDecimal(discount)
	r.Total = numericToDecimal(total)
	r.CreatedAt = r.CreatedAt.UTC()

	if r.HoldExpiresAt != nil {
		expiry := r.HoldExpiresAt.UTC()
		r.HoldExpiresAt = &expiry
	}

	return &r, nil
}
