package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/metinatakli/seat-reservation/api"
	"github.com/metinatakli/seat-reservation/internal/booking"
	"github.com/metinatakli/seat-reservation/internal/validator"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var holdExpiresAt = time.Date(2025, 3, 15, 18, 5, 0, 0, time.UTC)

type HoldHandlerTestSuite struct {
	suite.Suite
	app   *Application
	holds *MockHoldService
}

func (s *HoldHandlerTestSuite) SetupTest() {
	s.holds = new(MockHoldService)
	s.app = newTestApplication(func(a *Application) {
		a.holds = s.holds
	})
}

func TestHoldHandlerSuite(t *testing.T) {
	suite.Run(t, new(HoldHandlerTestSuite))
}

func (s *HoldHandlerTestSuite) TestHoldSeatsHandler() {
	conflict := booking.ConflictError("Seat 2 already reserved")
	conflict.ReservationID = 41
	conflict.HoldExpiresAt = &holdExpiresAt

	tests := []struct {
		name           string
		input          any
		headers        map[string]string
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
		wantResponse   *api.HoldResponse
	}{
		{
			name:           "should fail when body has unknown keys",
			input:          map[string]any{"showId": 1, "seats": []int{1}},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: `body contains unknown key "seats"`,
		},
		{
			name:           "should fail when a seat id is not positive",
			input:          api.HoldSeatsRequest{ShowId: 1, UserId: 1, SeatIds: []int64{1, -2}},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: validator.ErrPositive,
		},
		{
			name:  "should report duplicate seats as invalid",
			input: api.HoldSeatsRequest{ShowId: 1, UserId: 1, SeatIds: []int64{1, 1}},
			setupMocks: func() {
				s.holds.On("HoldSeats", mock.Anything, mock.Anything).
					Return(nil, booking.ValidationError("Duplicate seatIds")).Once()
			},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "Duplicate seatIds",
		},
		{
			name:  "should report missing show as not found",
			input: api.HoldSeatsRequest{ShowId: 9, UserId: 1, SeatIds: []int64{1}},
			setupMocks: func() {
				s.holds.On("HoldSeats", mock.Anything, mock.Anything).
					Return(nil, booking.NotFoundError("Show not found")).Once()
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: "Show not found",
		},
		{
			name:  "should report seat conflicts",
			input: api.HoldSeatsRequest{ShowId: 1, UserId: 1, SeatIds: []int64{1, 2}},
			setupMocks: func() {
				s.holds.On("HoldSeats", mock.Anything, mock.Anything).Return(nil, conflict).Once()
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: "Seat 2 already reserved",
		},
		{
			name:  "should hide infrastructure failures",
			input: api.HoldSeatsRequest{ShowId: 1, UserId: 1, SeatIds: []int64{1}},
			setupMocks: func() {
				s.holds.On("HoldSeats", mock.Anything, mock.Anything).
					Return(nil, errors.New("connection refused")).Once()
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: "The server encountered a problem and could not process your request",
		},
		{
			name:    "should hold seats and forward the idempotency header",
			input:   api.HoldSeatsRequest{ShowId: 1, UserId: 3, SeatIds: []int64{1, 2}},
			headers: map[string]string{idempotencyKeyHeader: "checkout-1"},
			setupMocks: func() {
				s.holds.On("HoldSeats", mock.Anything, booking.HoldSeatsRequest{
					ShowID:         1,
					UserID:         3,
					SeatIDs:        []int64{1, 2},
					IdempotencyKey: ptr("checkout-1"),
				}).Return(&booking.HoldResult{
					ReservationID:  5,
					ReservationIDs: []int64{5, 6},
					HoldExpiresAt:  holdExpiresAt,
				}, nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantResponse: &api.HoldResponse{
				Success:          true,
				Status:           "HELD",
				Message:          "Seats held",
				ReservationId:    ptr(int64(5)),
				ReservationIds:   []int64{5, 6},
				HoldExpiresAtUtc: &holdExpiresAt,
			},
		},
		{
			name:    "should prefer the body idempotency key and report replays",
			input:   api.HoldSeatsRequest{ShowId: 1, UserId: 3, SeatIds: []int64{1}, IdempotencyKey: ptr("body-key")},
			headers: map[string]string{idempotencyKeyHeader: "header-key"},
			setupMocks: func() {
				s.holds.On("HoldSeats", mock.Anything, mock.MatchedBy(func(req booking.HoldSeatsRequest) bool {
					return req.IdempotencyKey != nil && *req.IdempotencyKey == "body-key"
				})).Return(&booking.HoldResult{
					ReservationID:  5,
					ReservationIDs: []int64{5},
					HoldExpiresAt:  holdExpiresAt,
					Replayed:       true,
				}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.HoldResponse{
				Success:          true,
				Status:           "HELD",
				Message:          "Seats held (replayed)",
				ReservationId:    ptr(int64(5)),
				ReservationIds:   []int64{5},
				HoldExpiresAtUtc: &holdExpiresAt,
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodPost, "/holds", tt.input)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			s.app.Routes().ServeHTTP(w, r)

			s.Equal(tt.wantStatus, w.Code)
			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{tt.wantStatus, tt.wantErrMessage})

			if tt.wantResponse != nil {
				var got api.HoldResponse
				s.Require().NoError(json.NewDecoder(w.Body).Decode(&got))

				if diff := cmp.Diff(*tt.wantResponse, got); diff != "" {
					s.T().Errorf("response mismatch (-want +got):\n%s", diff)
				}
			}

			s.holds.AssertExpectations(s.T())
		})
	}
}

func (s *HoldHandlerTestSuite) TestConflictBodyCarriesOccupyingReservation() {
	conflict := booking.ConflictError("Seat 2 already reserved")
	conflict.ReservationID = 41
	conflict.HoldExpiresAt = &holdExpiresAt

	s.holds.On("HoldSeats", mock.Anything, mock.Anything).Return(nil, conflict).Once()

	w, r := executeRequest(s.T(), http.MethodPost, "/holds", api.HoldSeatsRequest{ShowId: 1, UserId: 1, SeatIds: []int64{2}})
	s.app.Routes().ServeHTTP(w, r)

	s.Require().Equal(http.StatusConflict, w.Code)

	var got api.OutcomeResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&got))

	s.False(got.Success)
	s.Equal("CONFLICT", got.Status)
	s.Require().NotNil(got.ReservationId)
	s.Equal(int64(41), *got.ReservationId)
	s.Require().NotNil(got.HoldExpiresAtUtc)
	s.True(holdExpiresAt.Equal(*got.HoldExpiresAtUtc))
}

func (s *HoldHandlerTestSuite) TestRejectedInputCarriesInvalidOutcome() {
	tests := []struct {
		name       string
		method     string
		url        string
		body       []byte
		wantStatus int
	}{
		{
			name:       "seat id not positive",
			method:     http.MethodPost,
			url:        "/holds",
			body:       []byte(`{"showId": 1, "userId": 1, "seatIds": [0]}`),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "truncated hold body",
			method:     http.MethodPost,
			url:        "/holds",
			body:       []byte(`{"showId": 1, "seatIds": [1`),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "reservation id not a number",
			method:     http.MethodPost,
			url:        "/reservations/abc/confirm",
			body:       []byte(`{}`),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "release without reason",
			method:     http.MethodPost,
			url:        "/reservations/7/release",
			body:       []byte(`{}`),
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w, r := executeRawRequest(tt.method, tt.url, tt.body)
			s.app.Routes().ServeHTTP(w, r)

			s.Equal(tt.wantStatus, w.Code)

			var got map[string]any
			s.Require().NoError(json.NewDecoder(w.Body).Decode(&got))
			s.Equal(false, got["success"])
			s.Equal("INVALID", got["status"])
			s.NotEmpty(got["message"])
		})
	}
}

func (s *HoldHandlerTestSuite) TestLargeSeatSetsReachTheCoordinator() {
	seatIDs := make([]int64, 30)
	for i := range seatIDs {
		seatIDs[i] = int64(i + 1)
	}

	s.holds.On("HoldSeats", mock.Anything, mock.MatchedBy(func(req booking.HoldSeatsRequest) bool {
		return len(req.SeatIDs) == 30
	})).Return(&booking.HoldResult{
		ReservationID:  1,
		ReservationIDs: seatIDs,
		HoldExpiresAt:  holdExpiresAt,
	}, nil).Once()

	w, r := executeRequest(s.T(), http.MethodPost, "/holds", api.HoldSeatsRequest{ShowId: 1, UserId: 1, SeatIds: seatIDs})
	s.app.Routes().ServeHTTP(w, r)

	s.Equal(http.StatusCreated, w.Code)
	s.holds.AssertExpectations(s.T())
}
