package notification

import (
	"context"
	"time"

	"github.com/rise-rentals/service-booking/internal/common/kafka"
	"go.uber.org/zap"
)

// EventPublisher writes CloudEvents to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// KafkaNotifier publishes booking notifications to the booking events topic.
// Emails are sent by the consumer of that topic.
type KafkaNotifier struct {
	publisher EventPublisher
	logger    *zap.Logger
}

// NewKafkaNotifier creates a KafkaNotifier.
func NewKafkaNotifier(publisher EventPublisher, logger *zap.Logger) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher, logger: logger}
}

// SendBookingConfirmed publishes a booking.confirmed event.
func (n *KafkaNotifier) SendBookingConfirmed(ctx context.Context, email, firstName string, bookingID int64, rentalAt time.Time) error {
	return n.publish(ctx, EventBookingConfirmed, BookingEvent{
		BookingID: bookingID,
		Email:     email,
		FirstName: firstName,
		RentalAt:  rentalAt,
	})
}

// SendBookingCanceled publishes a booking.canceled event.
func (n *KafkaNotifier) SendBookingCanceled(ctx context.Context, email, firstName string, bookingID int64, rentalAt time.Time, reason string) error {
	return n.publish(ctx, EventBookingCanceled, BookingEvent{
		BookingID: bookingID,
		Email:     email,
		FirstName: firstName,
		RentalAt:  rentalAt,
		Reason:    reason,
	})
}

func (n *KafkaNotifier) publish(ctx context.Context, eventType string, evt BookingEvent) error {
	ce, err := newBookingCloudEvent(eventType, evt)
	if err != nil {
		return err
	}
	if err := n.publisher.PublishEvent(ctx, TopicBookingEvents, ce); err != nil {
		return err
	}
	n.logger.Debug("booking notification published",
		zap.String("type", eventType),
		zap.Int64("booking_id", evt.BookingID),
	)
	return nil
}
