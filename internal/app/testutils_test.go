package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/metinatakli/seat-reservation/api"
	"github.com/metinatakli/seat-reservation/internal/booking"
	"github.com/metinatakli/seat-reservation/internal/validator"
	"github.com/stretchr/testify/mock"
)

type MockHoldService struct {
	mock.Mock
}

func (m *MockHoldService) HoldSeats(ctx context.Context, req booking.HoldSeatsRequest) (*booking.HoldResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.HoldResult), args.Error(1)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Confirm(ctx context.Context, req booking.ConfirmBookingRequest) (*booking.ConfirmResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.ConfirmResult), args.Error(1)
}

func (m *MockBookingService) Release(ctx context.Context, req booking.ReleaseHoldRequest) (*booking.ReleaseResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.ReleaseResult), args.Error(1)
}

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config:    Config{Env: "test"},
		validator: validator.NewValidator(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		holds:     &MockHoldService{},
		bookings:  &MockBookingService{},
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	return executeRawRequest(method, url, jsonData)
}

func executeRawRequest(method, url string, body []byte) (*httptest.ResponseRecorder, *http.Request) {
	r := httptest.NewRequest(method, url, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	if w.Code != tt.wantStatus {
		t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if _, ok := raw["validationErrors"]; ok {
		var validationErrs []api.ValidationError
		if err := json.Unmarshal(raw["validationErrors"], &validationErrs); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationErrs {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

		return
	}

	var message string
	if err := json.Unmarshal(raw["message"], &message); err != nil {
		t.Fatalf("Failed to decode error message: %v", err)
	}

	if tt.wantErrMessage != "" && message != tt.wantErrMessage {
		t.Errorf("Error message = %v, want %v", message, tt.wantErrMessage)
	}
}

func ptr[T any](v T) *T {
	return &v
}
