package notification

import (
	"strconv"
	"time"

	"github.com/rise-rentals/service-booking/internal/common/kafka"
)

const (
	// TopicBookingEvents carries booking notification events.
	TopicBookingEvents = "booking.events"

	EventBookingConfirmed = "booking.confirmed"
	EventBookingCanceled  = "booking.canceled"

	eventSource = "service-booking"
)

// BookingEvent is the payload of a booking notification.
type BookingEvent struct {
	BookingID int64     `json:"booking_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	RentalAt  time.Time `json:"rental_at"`
	Reason    string    `json:"reason,omitempty"`
}

func newBookingCloudEvent(eventType string, evt BookingEvent) (kafka.CloudEvent, error) {
	ce, err := kafka.NewCloudEvent(eventSource, eventType, evt)
	if err != nil {
		return kafka.CloudEvent{}, err
	}
	ce.Subject = strconv.FormatInt(evt.BookingID, 10)
	return ce, nil
}
