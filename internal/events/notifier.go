package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/metinatakli/seat-reservation/internal/mailer"
)

const bookingConfirmedTemplate = "booking_confirmed.tmpl"

// BookingNotifier emails the customer once a reservation is confirmed.
type BookingNotifier struct {
	users   domain.UserRepository
	catalog domain.CatalogRepository
	mailer  mailer.Mailer
	logger  *slog.Logger
}

func NewBookingNotifier(
	users domain.UserRepository,
	catalog domain.CatalogRepository,
	mailer mailer.Mailer,
	logger *slog.Logger) *BookingNotifier {

	return &BookingNotifier{
		users:   users,
		catalog: catalog,
		mailer:  mailer,
		logger:  logger,
	}
}

type bookingConfirmedData struct {
	FirstName     string
	ReservationID int64
	SeatLabel     string
	ShowStartAt   string
	Total         string
}

// HandleSeatsBooked returns an error only for failures worth retrying. Messages that
// can never be delivered are logged and acknowledged.
func (n *BookingNotifier) HandleSeatsBooked(msg *message.Message) error {
	var event domain.SeatsBooked

	err := json.Unmarshal(msg.Payload, &event)
	if err != nil {
		n.logger.Error("dropping malformed event", "message_uuid", msg.UUID, "error", err)
		return nil
	}

	ctx := msg.Context()
	logger := n.logger.With("reservation_id", event.ReservationID, "user_id", event.UserID)

	contact, err := n.users.GetContactById(ctx, event.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			logger.Warn("no contact for booking confirmation")
			return nil
		}

		return fmt.Errorf("failed to load user contact: %w", err)
	}

	data := bookingConfirmedData{
		FirstName:     contact.FirstName,
		ReservationID: event.ReservationID,
		Total:         event.Total,
	}

	show, err := n.catalog.GetShowById(ctx, event.ShowID)
	if err != nil {
		return fmt.Errorf("failed to load show: %w", err)
	}
	data.ShowStartAt = show.StartAt.UTC().Format("2006-01-02 15:04 MST")

	if len(event.SeatIDs) > 0 {
		seat, err := n.catalog.GetSeatById(ctx, event.SeatIDs[0])
		if err != nil {
			return fmt.Errorf("failed to load seat: %w", err)
		}
		data.SeatLabel = seat.Label()
	}

	err = n.mailer.Send(contact.Email, bookingConfirmedTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}

	logger.Info("booking confirmation sent")

	return nil
}
