package application

import (
	"context"
	"time"

	batteryDomain "github.com/rise-rentals/service-booking/internal/domain/battery"
	boatDomain "github.com/rise-rentals/service-booking/internal/domain/boat"
	bookingDomain "github.com/rise-rentals/service-booking/internal/domain/booking"
	priceDomain "github.com/rise-rentals/service-booking/internal/domain/price"
	timeslotDomain "github.com/rise-rentals/service-booking/internal/domain/timeslot"
	userDomain "github.com/rise-rentals/service-booking/internal/domain/user"
)

// Repositories groups the repositories bound to one database scope.
type Repositories struct {
	Bookings  bookingDomain.BookingRepository
	Boats     boatDomain.BoatRepository
	Batteries batteryDomain.BatteryRepository
	Prices    priceDomain.PriceRepository
	Users     userDomain.UserRepository
	TimeSlots timeslotDomain.TimeSlotRepository
}

// UnitOfWork runs fn inside a single transaction. Returning an error from fn
// rolls the transaction back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// CapacityProvider reports how many boats can be rented at once.
type CapacityProvider interface {
	AvailableBoatCount(ctx context.Context) (int64, error)
}

// CapacityInvalidator drops any cached capacity after inventory changes.
type CapacityInvalidator interface {
	Invalidate(ctx context.Context) error
}

// BookingNotifier delivers booking notifications to the renter.
type BookingNotifier interface {
	SendBookingConfirmed(ctx context.Context, email, firstName string, bookingID int64, rentalAt time.Time) error
	SendBookingCanceled(ctx context.Context, email, firstName string, bookingID int64, rentalAt time.Time, reason string) error
}

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID int64
	Admin  bool
}
