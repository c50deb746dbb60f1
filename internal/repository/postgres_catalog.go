package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation/internal/domain"
)

type PostgresCatalogRepository struct {
	db *pgxpool.Pool
}

func NewPostgresCatalogRepository(db *pgxpool.Pool) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{
		db: db,
	}
}

func (p *PostgresCatalogRepository) GetShowById(ctx context.Context, id int64) (*domain.Show, error) {
	query := `
		SELECT id, movie_id, screen_id, start_at, end_at, base_price
		FROM shows
		WHERE id = $1
	`

	var show domain.Show
	var basePrice pgtype.Numeric

	err := p.db.QueryRow(ctx, query, id).Scan(
		&show.ID,
		&show.MovieID,
		&show.ScreenID,
		&show.StartAt,
		&show.EndAt,
		&basePrice,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	show.BasePrice = numericToDecimal(basePrice)

	return &show, nil
}

func (p *PostgresCatalogRepository) GetScreenById(ctx context.Context, id int64) (*domain.Screen, error) {
	query := `
		SELECT id, theater_id, name, screen_type
		FROM screens
		WHERE id = $1
	`

	var screen domain.Screen

	err := p.db.QueryRow(ctx, query, id).Scan(&screen.ID, &screen.TheaterID, &screen.Name, &screen.ScreenType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &screen, nil
}

func (p *PostgresCatalogRepository) GetSeatById(ctx context.Context, id int64) (*domain.Seat, error) {
	seats, err := p.GetSeatsByIds(ctx, []int64{id})
	if err != nil {
		return nil, err
	}

	if len(seats) == 0 {
		return nil, domain.ErrRecordNotFound
	}

	return &seats[0], nil
}

func (p *PostgresCatalogRepository) GetSeatsByIds(ctx context.Context, ids []int64) ([]domain.Seat, error) {
	query := `
		SELECT id, screen_id, row_label, seat_number, seat_type, pair_group_id
		FROM seats
		WHERE id = ANY($1)
		ORDER BY row_label, seat_number
	`

	return p.querySeats(ctx, query, ids)
}

func (p *PostgresCatalogRepository) GetSeatsByPairGroups(
	ctx context.Context,
	screenID int64,
	groupIDs []int64) ([]domain.Seat, error) {

	query := `
		SELECT id, screen_id, row_label, seat_number, seat_type, pair_group_id
		FROM seats
		WHERE screen_id = $1 AND pair_group_id = ANY($2)
		ORDER BY row_label, seat_number
	`

	return p.querySeats(ctx, query, screenID, groupIDs)
}

func (p *PostgresCatalogRepository) querySeats(ctx context.Context, query string, args ...any) ([]domain.Seat, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err = rows.Scan(
			&seat.ID,
			&seat.ScreenID,
			&seat.RowLabel,
			&seat.SeatNumber,
			&seat.SeatType,
			&seat.PairGroupID,
		)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (p *PostgresCatalogRepository) GetPriceAdjustmentsByShowId(
	ctx context.Context,
	showID int64) ([]domain.PriceAdjustment, error) {

	query := `
		SELECT id, show_id, target, mode, key, amount
		FROM price_adjustments
		WHERE show_id = $1
		ORDER BY position, id
	`

	rows, err := p.db.Query(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	adjustments := make([]domain.PriceAdjustment, 0)

	for rows.Next() {
		var adj domain.PriceAdjustment
		var target, mode string
		var amount pgtype.Numeric

		err = rows.Scan(&adj.ID, &adj.ShowID, &target, &mode, &adj.Key, &amount)
		if err != nil {
			return nil, err
		}

		adj.Target, err = domain.ParseAdjustmentTarget(target)
		if err != nil {
			return nil, fmt.Errorf("price adjustment %d: %w", adj.ID, err)
		}

		adj.Mode, err = domain.ParseAdjustmentMode(mode)
		if err != nil {
			return nil, fmt.Errorf("price adjustment %d: %w", adj.ID, err)
		}

		adj.Amount = numericToDecimal(amount)
		adjustments = append(adjustments, adj)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return adjustments, nil
}
