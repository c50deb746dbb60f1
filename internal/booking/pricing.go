package booking

import (
	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/shopspring/decimal"
)

// PricingEngine computes a seat's subtotal for a show from its base price and
// the show's price adjustments.
type PricingEngine struct{}

// Price applies adjustments in the order given. Each one compounds on the running
// price; the result is rounded to cents once, at the end.
func (PricingEngine) Price(
	show domain.Show,
	seat domain.Seat,
	screen domain.Screen,
	adjustments []domain.PriceAdjustment) decimal.Decimal {

	price := show.BasePrice

	for _, adj := range adjustments {
		if !Applies(adj, seat, screen) {
			continue
		}

		switch adj.Mode {
		case domain.AdjustmentModePercent:
			price = price.Add(domain.Percent(price, adj.Amount))
		case domain.AdjustmentModeFixed:
			price = price.Add(adj.Amount)
		}
	}

	return domain.RoundMoney(price)
}

// Applies reports whether adj targets the given seat on the given screen.
// Keys are compared case-insensitively.
func Applies(adj domain.PriceAdjustment, seat domain.Seat, screen domain.Screen) bool {
	switch adj.Target {
	case domain.AdjustmentTargetGlobal:
		return true
	case domain.AdjustmentTargetScreenType:
		return screen.HasType(adj.Key)
	case domain.AdjustmentTargetSeatType:
		return seat.HasType(adj.Key)
	default:
		return false
	}
}
