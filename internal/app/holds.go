package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/metinatakli/seat-reservation/api"
	"github.com/metinatakli/seat-reservation/internal/booking"
	"github.com/metinatakli/seat-reservation/internal/metrics"
)

const idempotencyKeyHeader = "Idempotency-Key"

func (app *Application) HoldSeatsHandler(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	logger := app.contextGetLogger(r)

	var input api.HoldSeatsRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		metrics.Observe(metrics.OperationHold, booking.StatusInvalid.String(), started)
		app.badRequestResponse(w, r, err)
		return
	}

	if input.IdempotencyKey == nil {
		if key := strings.TrimSpace(r.Header.Get(idempotencyKeyHeader)); key != "" {
			input.IdempotencyKey = &key
		}
	}

	err = app.validator.Struct(input)
	if err != nil {
		metrics.Observe(metrics.OperationHold, booking.StatusInvalid.String(), started)
		app.failedValidationResponse(w, r, err)
		return
	}

	result, err := app.holds.HoldSeats(r.Context(), booking.HoldSeatsRequest{
		ShowID:         input.ShowId,
		UserID:         input.UserId,
		SeatIDs:        input.SeatIds,
		IdempotencyKey: input.IdempotencyKey,
	})
	if err != nil {
		metrics.Observe(metrics.OperationHold, outcomeLabel(err), started)
		app.bookingErrorResponse(w, r, err)
		return
	}

	metrics.Observe(metrics.OperationHold, booking.StatusHeld.String(), started)

	status := http.StatusCreated
	message := "Seats held"
	if result.Replayed {
		logger.Info("hold served from idempotency cache", "reservation_id", result.ReservationID)
		status = http.StatusOK
		message = "Seats held (replayed)"
	}

	expiresAt := result.HoldExpiresAt.UTC()
	resp := api.HoldResponse{
		Success:          true,
		Status:           booking.StatusHeld.String(),
		Message:          message,
		ReservationId:    &result.ReservationID,
		ReservationIds:   result.ReservationIDs,
		HoldExpiresAtUtc: &expiresAt,
	}

	err = app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// outcomeLabel is the metrics status label for a failed use case.
func outcomeLabel(err error) string {
	if status, ok := booking.StatusOf(err); ok {
		return status.String()
	}

	return metrics.StatusError
}
