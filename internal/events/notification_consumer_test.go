package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rise-rentals/service-booking/internal/common/kafka"
	"github.com/rise-rentals/service-booking/internal/notification"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	kind      string
	email     string
	bookingID int64
	reason    string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) SendBookingConfirmed(_ context.Context, email, _ string, bookingID int64, _ time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{kind: "confirmed", email: email, bookingID: bookingID})
	return nil
}

func (f *fakeSender) SendBookingCanceled(_ context.Context, email, _ string, bookingID int64, _ time.Time, reason string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{kind: "canceled", email: email, bookingID: bookingID, reason: reason})
	return nil
}

func newTestConsumer(sender *fakeSender) *NotificationConsumer {
	return &NotificationConsumer{sender: sender, logger: zap.NewNop()}
}

func message(t *testing.T, eventType string, data interface{}) kafkago.Message {
	t.Helper()
	ce, err := kafka.NewCloudEvent("service-booking", eventType, data)
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Topic: notification.TopicBookingEvents, Value: raw}
}

func TestHandleMessage_DeliversConfirmedAndCanceled(t *testing.T) {
	sender := &fakeSender{}
	c := newTestConsumer(sender)
	ctx := context.Background()

	require.NoError(t, c.handleMessage(ctx, message(t, notification.EventBookingConfirmed,
		notification.BookingEvent{BookingID: 1, Email: "anna@rise.test", FirstName: "Anna"})))
	require.NoError(t, c.handleMessage(ctx, message(t, notification.EventBookingCanceled,
		notification.BookingEvent{BookingID: 2, Email: "bert@rise.test", Reason: "storm"})))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, sentMail{kind: "confirmed", email: "anna@rise.test", bookingID: 1}, sender.sent[0])
	assert.Equal(t, sentMail{kind: "canceled", email: "bert@rise.test", bookingID: 2, reason: "storm"}, sender.sent[1])
}

func TestHandleMessage_SkipsMalformedAndUnknown(t *testing.T) {
	sender := &fakeSender{}
	c := newTestConsumer(sender)
	ctx := context.Background()

	assert.NoError(t, c.handleMessage(ctx, kafkago.Message{Value: []byte("not json")}))
	assert.NoError(t, c.handleMessage(ctx, message(t, "booking.rescheduled", map[string]int{"booking_id": 1})))
	assert.NoError(t, c.handleMessage(ctx, message(t, notification.EventBookingConfirmed, "nope")))
	assert.NoError(t, c.handleMessage(ctx, message(t, notification.EventBookingConfirmed,
		notification.BookingEvent{BookingID: 3})))
	assert.Empty(t, sender.sent)
}

func TestHandleMessage_ReturnsDeliveryErrorForRetry(t *testing.T) {
	c := newTestConsumer(&fakeSender{err: errors.New("mail api down")})
	err := c.handleMessage(context.Background(), message(t, notification.EventBookingConfirmed,
		notification.BookingEvent{BookingID: 1, Email: "anna@rise.test"}))
	assert.EqualError(t, err, "mail api down")
}
