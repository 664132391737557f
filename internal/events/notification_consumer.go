package events

import (
	"context"

	"github.com/rise-rentals/service-booking/internal/application"
	"github.com/rise-rentals/service-booking/internal/common/kafka"
	"github.com/rise-rentals/service-booking/internal/notification"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NotificationConsumer listens to booking events and delivers them to renters.
type NotificationConsumer struct {
	consumer *kafka.Consumer
	sender   application.BookingNotifier
	logger   *zap.Logger
}

// NewNotificationConsumer creates a new NotificationConsumer.
func NewNotificationConsumer(
	brokers []string,
	groupID string,
	sender application.BookingNotifier,
	logger *zap.Logger,
) *NotificationConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, notification.TopicBookingEvents, logger)
	return &NotificationConsumer{
		consumer: consumer,
		sender:   sender,
		logger:   logger,
	}
}

// Start begins consuming booking events. This blocks until the context is cancelled.
func (c *NotificationConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *NotificationConsumer) Close() error {
	return c.consumer.Close()
}

func (c *NotificationConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case notification.EventBookingConfirmed, notification.EventBookingCanceled:
		return c.deliver(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *NotificationConsumer) deliver(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt notification.BookingEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse BookingEvent data",
			zap.String("type", cloudEvent.Type),
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}
	if evt.Email == "" {
		c.logger.Warn("booking event without recipient",
			zap.Int64("booking_id", evt.BookingID),
		)
		return nil
	}

	var err error
	if cloudEvent.Type == notification.EventBookingConfirmed {
		err = c.sender.SendBookingConfirmed(ctx, evt.Email, evt.FirstName, evt.BookingID, evt.RentalAt)
	} else {
		err = c.sender.SendBookingCanceled(ctx, evt.Email, evt.FirstName, evt.BookingID, evt.RentalAt, evt.Reason)
	}
	if err != nil {
		c.logger.Error("failed to deliver booking notification",
			zap.String("type", cloudEvent.Type),
			zap.Int64("booking_id", evt.BookingID),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("booking notification delivered",
		zap.String("type", cloudEvent.Type),
		zap.Int64("booking_id", evt.BookingID),
	)
	return nil
}
