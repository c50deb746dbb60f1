package repository

import (
	"context"
	"sync"
	"time"

	"github.com/metinatakli/seat-reservation/internal/domain"
)

type seatKey struct {
	showID int64
	seatID int64
}

// MemoryReservationRepository keeps the reservation ledger in process. It enforces the
// same one-active-row-per-seat rule as the partial unique index in Postgres.
type MemoryReservationRepository struct {
	mu          sync.Mutex
	nextID      int64
	rows        map[int64]*domain.Reservation
	active      map[seatKey]int64
	redemptions []domain.VoucherRedemption
}

func NewMemoryReservationRepository() *MemoryReservationRepository {
	return &MemoryReservationRepository{
		rows:   make(map[int64]*domain.Reservation),
		active: make(map[seatKey]int64),
	}
}

func (m *MemoryReservationRepository) GetActiveByShowAndSeat(
	_ context.Context,
	showID, seatID int64,
	now time.Time) (*domain.Reservation, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.active[seatKey{showID, seatID}]
	if !ok || !m.rows[id].OccupiesSeat(now) {
		return nil, domain.ErrRecordNotFound
	}

	return clone(m.rows[id]), nil
}

func (m *MemoryReservationRepository) CreateHolds(ctx context.Context, holds []*domain.Reservation, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	batch := make(map[seatKey]struct{}, len(holds))
	var expired []int64

	for _, h := range holds {
		key := seatKey{h.ShowID, h.SeatID}

		if _, dup := batch[key]; dup {
			return domain.ErrSeatAlreadyReserved
		}
		batch[key] = struct{}{}

		id, ok := m.active[key]
		if !ok {
			continue
		}

		if m.rows[id].OccupiesSeat(now) {
			return domain.ErrSeatAlreadyReserved
		}

		expired = append(expired, id)
	}

	for _, id := range expired {
		row := m.rows[id]
		_ = row.MarkReleased(expiredHoldReason)
		row.Version++
		delete(m.active, seatKey{row.ShowID, row.SeatID})
	}

	for _, h := range holds {
		m.nextID++
		h.ID = m.nextID
		h.Version = 1

		m.rows[h.ID] = clone(h)
		m.active[seatKey{h.ShowID, h.SeatID}] = h.ID
	}

	return nil
}

func (m *MemoryReservationRepository) GetById(_ context.Context, id int64) (*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return clone(row), nil
}

func (m *MemoryReservationRepository) Update(_ context.Context, reservation *domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.update(reservation)
}

func (m *MemoryReservationRepository) Confirm(
	_ context.Context,
	reservation *domain.Reservation,
	redemption *domain.VoucherRedemption) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.update(reservation)
	if err != nil {
		return err
	}

	if redemption != nil {
		redemption.ID = int64(len(m.redemptions) + 1)
		m.redemptions = append(m.redemptions, *redemption)
	}

	return nil
}

// Redemptions returns the voucher redemptions recorded so far.
func (m *MemoryReservationRepository) Redemptions() []domain.VoucherRedemption {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]domain.VoucherRedemption(nil), m.redemptions...)
}

// ActiveCount counts rows whose stored status is HELD or BOOKED for the seat.
func (m *MemoryReservationRepository) ActiveCount(showID, seatID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, row := range m.rows {
		if row.ShowID == showID && row.SeatID == seatID && row.Status.IsActive() {
			count++
		}
	}

	return count
}

func (m *MemoryReservationRepository) update(r *domain.Reservation) error {
	current, ok := m.rows[r.ID]
	if !ok || current.Version != r.Version {
		return domain.ErrEditConflict
	}

	key := seatKey{r.ShowID, r.SeatID}
	if !r.Status.IsActive() && m.active[key] == r.ID {
		delete(m.active, key)
	}

	r.Version++
	m.rows[r.ID] = clone(r)

	return nil
}

func clone(r *domain.Reservation) *domain.Reservation {
	c := *r

	if r.HoldExpiresAt != nil {
		expiry := *r.HoldExpiresAt
		c.HoldExpiresAt = &expiry
	}

	return &c
}
