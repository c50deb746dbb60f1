package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultHoldWindow is how long a hold keeps a seat before it may be reclaimed.
const DefaultHoldWindow = 5 * time.Minute

const maxIdempotencyKeyLength = 64

var tracer = otel.Tracer("github.com/metinatakli/seat-reservation/internal/booking")

type HoldSeatsRequest struct {
	ShowID         int64
	UserID         int64
	SeatIDs        []int64
	IdempotencyKey *string
}

func (r HoldSeatsRequest) Validate() error {
	if len(r.SeatIDs) == 0 {
		return ValidationError("SeatIds required")
	}

	if len(lo.Uniq(r.SeatIDs)) != len(r.SeatIDs) {
		return ValidationError("Duplicate seatIds")
	}

	if r.ShowID <= 0 || r.UserID <= 0 {
		return ValidationError("Invalid showId/userId")
	}

	if r.IdempotencyKey != nil && len(*r.IdempotencyKey) > maxIdempotencyKeyLength {
		return ValidationError("Idempotency key too long")
	}

	return nil
}

type HoldResult struct {
	// ReservationID is the first reservation of the batch and stands for the whole hold.
	ReservationID  int64
	ReservationIDs []int64
	HoldExpiresAt  time.Time
	// Replayed is set when the result was served from an earlier request with the same idempotency key.
	Replayed bool
}

// HoldCoordinator runs the Hold-Seats use case.
type HoldCoordinator struct {
	reservations domain.ReservationRepository
	catalog      domain.CatalogRepository
	clock        domain.Clock
	logger       *slog.Logger
	guard        SeatInventoryGuard
	holdWindow   time.Duration
	idempotency  domain.IdempotencyStore
	publisher    domain.EventPublisher
}

type HoldOption func(*HoldCoordinator)

func WithHoldWindow(d time.Duration) HoldOption {
	return func(h *HoldCoordinator) {
		if d > 0 {
			h.holdWindow = d
		}
	}
}

func WithIdempotencyStore(store domain.IdempotencyStore) HoldOption {
	return func(h *HoldCoordinator) {
		h.idempotency = store
	}
}

func WithHoldEvents(publisher domain.EventPublisher) HoldOption {
	return func(h *HoldCoordinator) {
		h.publisher = publisher
	}
}

func NewHoldCoordinator(
	reservations domain.ReservationRepository,
	catalog domain.CatalogRepository,
	clock domain.Clock,
	logger *slog.Logger,
	opts ...HoldOption) *HoldCoordinator {

	h := &HoldCoordinator{
		reservations: reservations,
		catalog:      catalog,
		clock:        clock,
		logger:       logger,
		holdWindow:   DefaultHoldWindow,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *HoldCoordinator) HoldWindow() time.Duration {
	return h.holdWindow
}

// HoldSeats places a time-boxed hold on every requested seat, or on none of them.
func (h *HoldCoordinator) HoldSeats(ctx context.Context, req HoldSeatsRequest) (*HoldResult, error) {
	ctx, span := tracer.Start(ctx, "HoldCoordinator.HoldSeats", trace.WithAttributes(
		attribute.Int64("show.id", req.ShowID),
		attribute.Int64("user.id", req.UserID),
		attribute.Int("seats.count", len(req.SeatIDs)),
	))
	defer span.End()

	logger := h.logger.With("show_id", req.ShowID, "user_id", req.UserID)

	err := req.Validate()
	if err != nil {
		return nil, err
	}

	key := normalizeKey(req.IdempotencyKey)

	if replay, err := h.replay(ctx, logger, req, key); replay != nil || err != nil {
		return replay, err
	}

	show, err := h.catalog.GetShowById(ctx, req.ShowID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, NotFoundError("Show not found")
		}

		return nil, fmt.Errorf("failed to load show: %w", err)
	}

	seats, err := h.catalog.GetSeatsByIds(ctx, req.SeatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}

	groupMembers, err := h.pairGroupMembers(ctx, show.ScreenID, seats)
	if err != nil {
		return nil, err
	}

	err = h.guard.Check(show, req.SeatIDs, seats, groupMembers)
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()

	err = h.ensureAvailable(ctx, req.ShowID, req.SeatIDs, now)
	if err != nil {
		logger.Warn("hold rejected: seat already taken", "error", err)
		return nil, err
	}

	expiresAt := now.Add(h.holdWindow)
	holds := make([]*domain.Reservation, len(req.SeatIDs))

	for i, seatID := range req.SeatIDs {
		holds[i] = domain.NewHold(req.ShowID, seatID, req.UserID, now, expiresAt, key)
	}

	err = h.reservations.CreateHolds(ctx, holds, now)
	if err != nil {
		if errors.Is(err, domain.ErrSeatAlreadyReserved) {
			logger.Warn("hold rejected by ledger constraint: concurrent hold won the race")
			return nil, h.conflictAfterRace(ctx, req.ShowID, req.SeatIDs, now)
		}

		return nil, fmt.Errorf("failed to create holds: %w", err)
	}

	result := &HoldResult{
		ReservationID:  holds[0].ID,
		ReservationIDs: lo.Map(holds, func(r *domain.Reservation, _ int) int64 { return r.ID }),
		HoldExpiresAt:  expiresAt.UTC(),
	}

	h.remember(ctx, logger, req, key, result)
	h.publish(ctx, logger, domain.SeatsHeld{
		ShowID:         req.ShowID,
		SeatIDs:        req.SeatIDs,
		UserID:         req.UserID,
		ReservationIDs: result.ReservationIDs,
		HoldExpiresAt:  result.HoldExpiresAt,
	})

	logger.Info("seats held", "reservation_id", result.ReservationID, "hold_expires_at", result.HoldExpiresAt)

	return result, nil
}

func (h *HoldCoordinator) pairGroupMembers(ctx context.Context, screenID int64, seats []domain.Seat) ([]domain.Seat, error) {
	groupIDs := lo.Uniq(lo.FilterMap(seats, func(s domain.Seat, _ int) (int64, bool) {
		if s.PairGroupID == nil {
			return 0, false
		}
		return *s.PairGroupID, true
	}))

	if len(groupIDs) == 0 {
		return nil, nil
	}

	members, err := h.catalog.GetSeatsByPairGroups(ctx, screenID, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load paired seats: %w", err)
	}

	return members, nil
}

// ensureAvailable probes each seat in request order and stops at the first occupied one.
// The probe only short-cuts the common case; the ledger constraint is what closes the race.
func (h *HoldCoordinator) ensureAvailable(ctx context.Context, showID int64, seatIDs []int64, now time.Time) error {
	for _, seatID := range seatIDs {
		active, err := h.reservations.GetActiveByShowAndSeat(ctx, showID, seatID, now)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				continue
			}

			return fmt.Errorf("failed to probe seat %d: %w", seatID, err)
		}

		return seatConflict(seatID, active)
	}

	return nil
}

func (h *HoldCoordinator) conflictAfterRace(ctx context.Context, showID int64, seatIDs []int64, now time.Time) error {
	err := h.ensureAvailable(ctx, showID, seatIDs, now)

	var bookingErr *Error
	if errors.As(err, &bookingErr) {
		return bookingErr
	}

	if err != nil {
		h.logger.Error("failed to identify conflicting seat", "error", err)
	}

	return ConflictError("One or more seats are already HELD/BOOKED")
}

func seatConflict(seatID int64, active *domain.Reservation) *Error {
	conflict := ConflictError("Seat %d is already %s", seatID, active.Status)
	conflict.ReservationID = active.ID
	conflict.HoldExpiresAt = active.HoldExpiresAt

	return conflict
}

func (h *HoldCoordinator) replay(
	ctx context.Context,
	logger *slog.Logger,
	req HoldSeatsRequest,
	key *string) (*HoldResult, error) {

	if key == nil || h.idempotency == nil {
		return nil, nil
	}

	receipt, err := h.idempotency.Get(ctx, req.UserID, *key)
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			logger.Warn("idempotency lookup failed, processing request as new", "error", err)
		}

		return nil, nil
	}

	if !receipt.Matches(req.ShowID, req.UserID, req.SeatIDs) {
		return nil, ValidationError("Idempotency key was already used for a different request")
	}

	live, err := h.receiptIsLive(ctx, receipt)
	if err != nil {
		return nil, err
	}

	if !live {
		logger.Info("remembered hold is no longer active, processing request as new")
		return nil, nil
	}

	logger.Info("hold replayed from idempotency key")

	result := &HoldResult{
		ReservationIDs: receipt.ReservationIDs,
		HoldExpiresAt:  receipt.HoldExpiresAt,
		Replayed:       true,
	}

	if len(receipt.ReservationIDs) > 0 {
		result.ReservationID = receipt.ReservationIDs[0]
	}

	return result, nil
}

// receiptIsLive reports whether every reservation of a remembered hold is still HELD and unexpired.
func (h *HoldCoordinator) receiptIsLive(ctx context.Context, receipt *domain.HoldReceipt) (bool, error) {
	if len(receipt.ReservationIDs) == 0 {
		return false, nil
	}

	now := h.clock.Now()

	for _, id := range receipt.ReservationIDs {
		reservation, err := h.reservations.GetById(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return false, nil
			}

			return false, fmt.Errorf("failed to load remembered reservation %d: %w", id, err)
		}

		if !reservation.IsHoldActive(now) {
			return false, nil
		}
	}

	return true, nil
}

func (h *HoldCoordinator) remember(
	ctx context.Context,
	logger *slog.Logger,
	req HoldSeatsRequest,
	key *string,
	result *HoldResult) {

	if key == nil || h.idempotency == nil {
		return
	}

	receipt := domain.HoldReceipt{
		ShowID:         req.ShowID,
		UserID:         req.UserID,
		SeatIDs:        req.SeatIDs,
		ReservationIDs: result.ReservationIDs,
		HoldExpiresAt:  result.HoldExpiresAt,
	}

	err := h.idempotency.Save(ctx, *key, receipt, h.holdWindow)
	if err != nil {
		logger.Error("failed to remember hold for idempotency key", "error", err)
	}
}

func (h *HoldCoordinator) publish(ctx context.Context, logger *slog.Logger, event domain.Event) {
	if h.publisher == nil {
		return
	}

	err := h.publisher.Publish(ctx, event)
	if err != nil {
		logger.Error("failed to publish event", "event", event.EventName(), "error", err)
	}
}

func normalizeKey(key *string) *string {
	if key == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*key)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}
