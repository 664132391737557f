package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DefaultExchange is the topic exchange booking notifications are routed through.
const DefaultExchange = "booking.exchange"

// Channel is the subset of *amqp.Channel the notifier publishes with.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPNotifier publishes booking notifications as CloudEvents on a RabbitMQ
// topic exchange. The event type doubles as the routing key.
type AMQPNotifier struct {
	conn     *amqp.Connection
	ch       Channel
	exchange string
	logger   *zap.Logger
}

// DialAMQPNotifier connects to RabbitMQ and declares the exchange.
func DialAMQPNotifier(url, exchange string, logger *zap.Logger) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	n := NewAMQPNotifier(ch, exchange, logger)
	n.conn = conn
	return n, nil
}

// NewAMQPNotifier creates an AMQPNotifier over an open channel.
func NewAMQPNotifier(ch Channel, exchange string, logger *zap.Logger) *AMQPNotifier {
	return &AMQPNotifier{ch: ch, exchange: exchange, logger: logger}
}

// SendBookingConfirmed routes a booking.confirmed event.
func (n *AMQPNotifier) SendBookingConfirmed(ctx context.Context, email, firstName string, bookingID int64, rentalAt time.Time) error {
	return n.publish(ctx, EventBookingConfirmed, BookingEvent{
		BookingID: bookingID,
		Email:     email,
		FirstName: firstName,
		RentalAt:  rentalAt,
	})
}

// SendBookingCanceled routes a booking.canceled event.
func (n *AMQPNotifier) SendBookingCanceled(ctx context.Context, email, firstName string, bookingID int64, rentalAt time.Time, reason string) error {
	return n.publish(ctx, EventBookingCanceled, BookingEvent{
		BookingID: bookingID,
		Email:     email,
		FirstName: firstName,
		RentalAt:  rentalAt,
		Reason:    reason,
	})
}

func (n *AMQPNotifier) publish(ctx context.Context, eventType string, evt BookingEvent) error {
	ce, err := newBookingCloudEvent(eventType, evt)
	if err != nil {
		return err
	}
	body, err := json.Marshal(ce)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}
	err = n.ch.PublishWithContext(ctx, n.exchange, eventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ce.ID,
		Timestamp:    ce.Time,
		Type:         eventType,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	n.logger.Debug("booking notification routed",
		zap.String("exchange", n.exchange),
		zap.String("routing_key", eventType),
		zap.Int64("booking_id", evt.BookingID),
	)
	return nil
}

// Close closes the channel and connection when the notifier owns them.
func (n *AMQPNotifier) Close() error {
	if c, ok := n.ch.(*amqp.Channel); ok && c != nil {
		_ = c.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
