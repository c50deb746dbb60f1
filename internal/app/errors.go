package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/seat-reservation/api"
	"github.com/metinatakli/seat-reservation/internal/booking"
	appvalidator "github.com/metinatakli/seat-reservation/internal/validator"
)

var outcomeStatusCodes = map[booking.Status]int{
	booking.StatusInvalid:        http.StatusBadRequest,
	booking.StatusNotFound:       http.StatusNotFound,
	booking.StatusConflict:       http.StatusConflict,
	booking.StatusInvalidState:   http.StatusConflict,
	booking.StatusExpired:        http.StatusGone,
	booking.StatusVoucherInvalid: http.StatusUnprocessableEntity,
}

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.contextGetLogger(r).Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.outcomeErrorResponse(w, r, status, "", message)
}

// outcomeErrorResponse is errorResponse for failures that map onto a booking outcome status.
func (app *Application) outcomeErrorResponse(w http.ResponseWriter, r *http.Request, status int, outcome, message string) {
	resp := api.ErrorResponse{
		Success:   false,
		Status:    outcome,
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource not found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := "The " + r.Method + " method is not supported for this resource"
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.outcomeErrorResponse(w, r, http.StatusBadRequest, booking.StatusInvalid.String(), err.Error())
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		app.badRequestResponse(w, r, err)
		return
	}

	resp := api.ValidationErrorResponse{
		Success:          false,
		Status:           booking.StatusInvalid.String(),
		Message:          "One or more fields have invalid values",
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: make([]api.ValidationError, 0, len(validationErrs)),
	}

	for _, fieldErr := range validationErrs {
		resp.ValidationErrors = append(resp.ValidationErrors, api.ValidationError{
			Field: fieldErr.Field(),
			Issue: appvalidator.ValidationMessage(fieldErr),
		})
	}

	err = app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

// bookingErrorResponse writes the outcome of a rejected booking use case. Errors that
// carry no outcome are infrastructure failures.
func (app *Application) bookingErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var bookingErr *booking.Error
	if !errors.As(err, &bookingErr) {
		app.serverErrorResponse(w, r, err)
		return
	}

	status, ok := outcomeStatusCodes[bookingErr.Status]
	if !ok {
		status = http.StatusBadRequest
	}

	resp := api.OutcomeResponse{
		Success:          false,
		Status:           bookingErr.Status.String(),
		Message:          bookingErr.Message,
		HoldExpiresAtUtc: bookingErr.HoldExpiresAt,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
	}

	if bookingErr.ReservationID != 0 {
		resp.ReservationId = &bookingErr.ReservationID
	}

	err = app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}
