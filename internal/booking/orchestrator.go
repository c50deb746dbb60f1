package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxPaymentIntentIDLength = 64
	maxVoucherCodeLength     = 32
)

type ConfirmBookingRequest struct {
	ReservationID   int64
	VoucherCode     *string
	PaymentIntentID *string
}

func (r ConfirmBookingRequest) Validate() error {
	if r.ReservationID <= 0 {
		return ValidationError("ReservationId required")
	}

	if r.PaymentIntentID != nil && len(*r.PaymentIntentID) > maxPaymentIntentIDLength {
		return ValidationError("PaymentIntentId too long")
	}

	if r.VoucherCode != nil && len(*r.VoucherCode) > maxVoucherCodeLength {
		return ValidationError("Voucher code too long")
	}

	return nil
}

type ConfirmResult struct {
	ReservationID int64
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	// AlreadyBooked is set when the reservation had been confirmed by an earlier call.
	AlreadyBooked bool
}

type ReleaseHoldRequest struct {
	ReservationID int64
	Reason        string
}

func (r ReleaseHoldRequest) Validate() error {
	if r.ReservationID <= 0 {
		return ValidationError("ReservationId required")
	}

	if strings.TrimSpace(r.Reason) == "" {
		return ValidationError("Reason required")
	}

	return nil
}

type ReleaseResult struct {
	ReservationID int64
	Reason        string
}

// BookingOrchestrator runs the Confirm and Release use cases.
type BookingOrchestrator struct {
	reservations domain.ReservationRepository
	catalog      domain.CatalogRepository
	vouchers     *VoucherValidator
	pricing      PricingEngine
	clock        domain.Clock
	logger       *slog.Logger
	publisher    domain.EventPublisher
}

type OrchestratorOption func(*BookingOrchestrator)

func WithBookingEvents(publisher domain.EventPublisher) OrchestratorOption {
	return func(o *BookingOrchestrator) {
		o.publisher = publisher
	}
}

func NewBookingOrchestrator(
	reservations domain.ReservationRepository,
	catalog domain.CatalogRepository,
	vouchers *VoucherValidator,
	clock domain.Clock,
	logger *slog.Logger,
	opts ...OrchestratorOption) *BookingOrchestrator {

	o := &BookingOrchestrator{
		reservations: reservations,
		catalog:      catalog,
		vouchers:     vouchers,
		clock:        clock,
		logger:       logger,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Confirm prices a HELD reservation and moves it to BOOKED. Confirming an already
// BOOKED reservation returns the stored amounts without pricing again.
func (o *BookingOrchestrator) Confirm(ctx context.Context, req ConfirmBookingRequest) (*ConfirmResult, error) {
	ctx, span := tracer.Start(ctx, "BookingOrchestrator.Confirm", trace.WithAttributes(
		attribute.Int64("reservation.id", req.ReservationID),
	))
	defer span.End()

	logger := o.logger.With("reservation_id", req.ReservationID)

	err := req.Validate()
	if err != nil {
		return nil, err
	}

	reservation, err := o.load(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}

	if reservation.IsBooked() {
		return &ConfirmResult{
			ReservationID: reservation.ID,
			Subtotal:      reservation.Subtotal,
			Discount:      reservation.Discount,
			Total:         reservation.Total,
			AlreadyBooked: true,
		}, nil
	}

	if reservation.Status != domain.ReservationStatusHeld {
		return nil, InvalidStateError("Reservation not HELD")
	}

	now := o.clock.Now()
	if reservation.HoldHasExpired(now) {
		logger.Warn("confirm rejected: hold expired", "hold_expires_at", reservation.HoldExpiresAt)
		return nil, ExpiredError("Hold expired")
	}

	subtotal, err := o.price(ctx, reservation)
	if err != nil {
		return nil, err
	}

	discount := decimal.Zero
	var redemption *domain.VoucherRedemption

	if code := trimmed(req.VoucherCode); code != "" {
		voucher, voucherDiscount, err := o.vouchers.Validate(ctx, code, subtotal, now)
		if err != nil {
			logger.Warn("confirm rejected: voucher", "voucher_code", code, "error", err)
			return nil, err
		}

		discount = voucherDiscount
		redemption = &domain.VoucherRedemption{
			ReservationID:   reservation.ID,
			VoucherID:       voucher.ID,
			RedeemedAt:      now,
			DiscountApplied: domain.RoundMoney(voucherDiscount),
		}
	}

	err = reservation.MarkBooked(subtotal, discount, req.PaymentIntentID)
	if err != nil {
		return nil, InvalidStateError("Reservation not HELD")
	}

	err = o.reservations.Confirm(ctx, reservation, redemption)
	if err != nil {
		if errors.Is(err, domain.ErrEditConflict) {
			logger.Warn("confirm lost an optimistic update race")
			return nil, ConflictError("Reservation was modified concurrently, retry")
		}

		return nil, fmt.Errorf("failed to confirm reservation: %w", err)
	}

	o.publish(ctx, logger, domain.SeatsBooked{
		ShowID:        reservation.ShowID,
		SeatIDs:       []int64{reservation.SeatID},
		UserID:        reservation.UserID,
		ReservationID: reservation.ID,
		Total:         reservation.Total.StringFixed(2),
	})

	logger.Info("reservation confirmed", "subtotal", reservation.Subtotal, "discount", reservation.Discount)

	return &ConfirmResult{
		ReservationID: reservation.ID,
		Subtotal:      reservation.Subtotal,
		Discount:      reservation.Discount,
		Total:         reservation.Total,
	}, nil
}

// Release cancels a HELD reservation before it is confirmed.
func (o *BookingOrchestrator) Release(ctx context.Context, req ReleaseHoldRequest) (*ReleaseResult, error) {
	ctx, span := tracer.Start(ctx, "BookingOrchestrator.Release", trace.WithAttributes(
		attribute.Int64("reservation.id", req.ReservationID),
	))
	defer span.End()

	logger := o.logger.With("reservation_id", req.ReservationID)

	err := req.Validate()
	if err != nil {
		return nil, err
	}

	reservation, err := o.load(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(req.Reason)

	err = reservation.MarkReleased(reason)
	if err != nil {
		return nil, InvalidStateError("Not a HELD reservation")
	}

	err = o.reservations.Update(ctx, reservation)
	if err != nil {
		if errors.Is(err, domain.ErrEditConflict) {
			logger.Warn("release lost an optimistic update race")
			return nil, ConflictError("Reservation was modified concurrently, retry")
		}

		return nil, fmt.Errorf("failed to release reservation: %w", err)
	}

	o.publish(ctx, logger, domain.SeatsReleased{
		ShowID:        reservation.ShowID,
		SeatIDs:       []int64{reservation.SeatID},
		UserID:        reservation.UserID,
		ReservationID: reservation.ID,
		Reason:        reason,
	})

	logger.Info("hold released", "reason", reason)

	return &ReleaseResult{ReservationID: reservation.ID, Reason: reason}, nil
}

func (o *BookingOrchestrator) load(ctx context.Context, id int64) (*domain.Reservation, error) {
	reservation, err := o.reservations.GetById(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, NotFoundError("Reservation not found")
		}

		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}

	return reservation, nil
}

func (o *BookingOrchestrator) price(ctx context.Context, reservation *domain.Reservation) (decimal.Decimal, error) {
	show, err := o.catalog.GetShowById(ctx, reservation.ShowID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return decimal.Zero, NotFoundError("Show not found")
		}

		return decimal.Zero, fmt.Errorf("failed to load show %d: %w", reservation.ShowID, err)
	}

	seat, err := o.catalog.GetSeatById(ctx, reservation.SeatID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return decimal.Zero, NotFoundError("Seat not found")
		}

		return decimal.Zero, fmt.Errorf("failed to load seat %d: %w", reservation.SeatID, err)
	}

	screen, err := o.catalog.GetScreenById(ctx, show.ScreenID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return decimal.Zero, NotFoundError("Screen not found")
		}

		return decimal.Zero, fmt.Errorf("failed to load screen %d: %w", show.ScreenID, err)
	}

	adjustments, err := o.catalog.GetPriceAdjustmentsByShowId(ctx, show.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load price adjustments: %w", err)
	}

	return o.pricing.Price(*show, *seat, *screen, adjustments), nil
}

func (o *BookingOrchestrator) publish(ctx context.Context, logger *slog.Logger, event domain.Event) {
	if o.publisher == nil {
		return
	}

	err := o.publisher.Publish(ctx, event)
	if err != nil {
		logger.Error("failed to publish event", "event", event.EventName(), "error", err)
	}
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}

	return strings.TrimSpace(*s)
}
