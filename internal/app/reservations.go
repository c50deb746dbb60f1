package app

import (
	"net/http"
	"time"

	"github.com/metinatakli/seat-reservation/api"
	"github.com/metinatakli/seat-reservation/internal/booking"
	"github.com/metinatakli/seat-reservation/internal/metrics"
)

func (app *Application) ConfirmBookingHandler(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	reservationID, err := app.readIDParam(r, "reservationId")
	if err != nil {
		metrics.Observe(metrics.OperationConfirm, booking.StatusInvalid.String(), started)
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.ConfirmBookingRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		metrics.Observe(metrics.OperationConfirm, booking.StatusInvalid.String(), started)
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		metrics.Observe(metrics.OperationConfirm, booking.StatusInvalid.String(), started)
		app.failedValidationResponse(w, r, err)
		return
	}

	result, err := app.bookings.Confirm(r.Context(), booking.ConfirmBookingRequest{
		ReservationID:   reservationID,
		VoucherCode:     input.VoucherCode,
		PaymentIntentID: input.PaymentIntentId,
	})
	if err != nil {
		metrics.Observe(metrics.OperationConfirm, outcomeLabel(err), started)
		app.bookingErrorResponse(w, r, err)
		return
	}

	metrics.Observe(metrics.OperationConfirm, booking.StatusBooked.String(), started)

	message := "Booking confirmed"
	if result.AlreadyBooked {
		message = "Reservation already booked"
	}

	resp := api.ConfirmResponse{
		Success:       true,
		Status:        booking.StatusBooked.String(),
		Message:       message,
		ReservationId: result.ReservationID,
		Subtotal:      result.Subtotal.StringFixed(2),
		Discount:      result.Discount.StringFixed(2),
		Total:         result.Total.StringFixed(2),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ReleaseHoldHandler(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	reservationID, err := app.readIDParam(r, "reservationId")
	if err != nil {
		metrics.Observe(metrics.OperationRelease, booking.StatusInvalid.String(), started)
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.ReleaseHoldRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		metrics.Observe(metrics.OperationRelease, booking.StatusInvalid.String(), started)
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		metrics.Observe(metrics.OperationRelease, booking.StatusInvalid.String(), started)
		app.failedValidationResponse(w, r, err)
		return
	}

	result, err := app.bookings.Release(r.Context(), booking.ReleaseHoldRequest{
		ReservationID: reservationID,
		Reason:        input.Reason,
	})
	if err != nil {
		metrics.Observe(metrics.OperationRelease, outcomeLabel(err), started)
		app.bookingErrorResponse(w, r, err)
		return
	}

	metrics.Observe(metrics.OperationRelease, booking.StatusReleased.String(), started)

	resp := api.ReleaseResponse{
		Success:       true,
		Status:        booking.StatusReleased.String(),
		Message:       "Hold released: " + result.Reason,
		ReservationId: result.ReservationID,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
