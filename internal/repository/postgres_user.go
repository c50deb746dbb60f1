package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation/internal/domain"
)

type PostgesUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgesUserRepository {
	return &PostgesUserRepository{
		db: db,
	}
}

func (p *PostgesUserRepository) GetContactById(ctx context.Context, id int64) (*domain.UserContact, error) {
	query := `SELECT id, first_name, email FROM users WHERE id = $1`

	var contact domain.UserContact

	err := p.db.QueryRow(ctx, query, id).Scan(&contact.ID, &contact.FirstName, &contact.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &contact, nil
}
