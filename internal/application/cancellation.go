package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rise-rentals/service-booking/internal/common/domain"
	bookingDomain "github.com/rise-rentals/service-booking/internal/domain/booking"
)

// cancelNotice is a cancellation mail queued until the transaction commits.
type cancelNotice struct {
	email     string
	firstName string
	bookingID int64
	rentalAt  time.Time
	reason    string
}

type cancelOptions struct {
	authorize   func(bk *bookingDomain.Booking) error
	blockReason string
}

// cancelBooking is the single cancel path used by the booking and timeslot
// services. Soft-deleted bookings can still be canceled.
func cancelBooking(ctx context.Context, repos Repositories, bookingID int64, opts cancelOptions) (*bookingDomain.Booking, *cancelNotice, error) {
	bk, err := repos.Bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if opts.authorize != nil {
		if err := opts.authorize(bk); err != nil {
			return nil, nil, err
		}
	}

	if err := bk.Cancel(); err != nil {
		return nil, nil, err
	}
	if opts.blockReason != "" {
		bk.AnnotateBlocked(opts.blockReason)
	}

	bk.IncrementVersion()
	if err := repos.Bookings.Update(ctx, bk); err != nil {
		return nil, nil, err
	}

	u, err := repos.Users.FindByID(ctx, bk.UserID())
	if err != nil {
		if domain.IsNotFound(err) {
			return bk, nil, nil
		}
		return nil, nil, err
	}
	if u.IsDeleted() {
		return bk, nil, nil
	}
	return bk, &cancelNotice{
		email:     u.Email(),
		firstName: u.FirstName(),
		bookingID: bk.ID(),
		rentalAt:  bk.RentalAt(),
		reason:    opts.blockReason,
	}, nil
}

// ownedBy allows admins and the booking's own user.
func ownedBy(actor Actor) func(bk *bookingDomain.Booking) error {
	return func(bk *bookingDomain.Booking) error {
		if actor.Admin || bk.UserID() == actor.UserID {
			return nil
		}
		return domain.NewForbiddenError("booking belongs to another user")
	}
}

// sendCancelNotices delivers queued cancellations. Failures are logged only.
func sendCancelNotices(ctx context.Context, notifier BookingNotifier, logger *zap.Logger, notices []*cancelNotice) {
	if notifier == nil {
		return
	}
	for _, n := range notices {
		if n == nil {
			continue
		}
		if err := notifier.SendBookingCanceled(ctx, n.email, n.firstName, n.bookingID, n.rentalAt, n.reason); err != nil {
			logger.Error("failed to send booking canceled notification",
				zap.Int64("booking_id", n.bookingID),
				zap.Error(err),
			)
		}
	}
}
