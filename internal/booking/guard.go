package booking

import (
	"slices"

	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/samber/lo"
)

// SeatInventoryGuard checks a requested seat set against the show's screen and the
// couple-seat pairing rule. It has no side effects.
type SeatInventoryGuard struct{}

// Check runs the rules in order: well-formed request, every seat exists, every seat is on
// the show's screen, and every pair group touched by the request is requested whole.
// groupMembers holds all seats of the pair groups present among resolved.
func (SeatInventoryGuard) Check(
	show *domain.Show,
	requested []int64,
	resolved []domain.Seat,
	groupMembers []domain.Seat) error {

	if len(requested) == 0 {
		return ValidationError("SeatIds required")
	}

	if len(lo.Uniq(requested)) != len(requested) {
		return ValidationError("Duplicate seatIds")
	}

	seatsById := lo.KeyBy(resolved, func(s domain.Seat) int64 { return s.ID })
	for _, id := range requested {
		if _, ok := seatsById[id]; !ok {
			return NotFoundError("Some seats not found")
		}
	}

	for _, seat := range resolved {
		if seat.ScreenID != show.ScreenID {
			return ValidationError("Seats do not belong to the show's screen")
		}
	}

	pairedSeats := lo.Filter(slices.Concat(groupMembers, resolved), func(s domain.Seat, _ int) bool {
		return s.IsPaired()
	})
	groups := lo.GroupBy(lo.UniqBy(pairedSeats, func(s domain.Seat) int64 { return s.ID }),
		func(s domain.Seat) int64 { return *s.PairGroupID })

	requestedSet := lo.Associate(requested, func(id int64) (int64, struct{}) { return id, struct{}{} })

	for _, members := range groups {
		selected := lo.CountBy(members, func(s domain.Seat) bool {
			_, ok := requestedSet[s.ID]
			return ok
		})

		if selected > 0 && selected != len(members) {
			return ValidationError("Paired seats must be booked together")
		}
	}

	return nil
}
