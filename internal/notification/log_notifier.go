package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LogNotifier only logs notifications. Used when no delivery driver is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendBookingConfirmed(_ context.Context, email, _ string, bookingID int64, rentalAt time.Time) error {
	n.logger.Info("booking confirmed notification",
		zap.String("email", email),
		zap.Int64("booking_id", bookingID),
		zap.Time("rental_at", rentalAt),
	)
	return nil
}

func (n *LogNotifier) SendBookingCanceled(_ context.Context, email, _ string, bookingID int64, rentalAt time.Time, reason string) error {
	n.logger.Info("booking canceled notification",
		zap.String("email", email),
		zap.Int64("booking_id", bookingID),
		zap.Time("rental_at", rentalAt),
		zap.String("reason", reason),
	)
	return nil
}
