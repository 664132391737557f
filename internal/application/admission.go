package application

import (
	"context"
	"strconv"
	"time"

	"github.com/rise-rentals/service-booking/internal/common/domain"
	batteryDomain "github.com/rise-rentals/service-booking/internal/domain/battery"
	boatDomain "github.com/rise-rentals/service-booking/internal/domain/boat"
	bookingDomain "github.com/rise-rentals/service-booking/internal/domain/booking"
	priceDomain "github.com/rise-rentals/service-booking/internal/domain/price"
	userDomain "github.com/rise-rentals/service-booking/internal/domain/user"
)

func idString(id int64) string { return strconv.FormatInt(id, 10) }

// The find* helpers treat a soft-deleted row as missing.

func findBoat(ctx context.Context, repos Repositories, id int64) (*boatDomain.Boat, error) {
	b, err := repos.Boats.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.IsDeleted() {
		return nil, domain.NewNotFoundError("Boat", idString(id))
	}
	return b, nil
}

func findBattery(ctx context.Context, repos Repositories, id int64) (*batteryDomain.Battery, error) {
	b, err := repos.Batteries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.IsDeleted() {
		return nil, domain.NewNotFoundError("Battery", idString(id))
	}
	return b, nil
}

func findUser(ctx context.Context, repos Repositories, id int64) (*userDomain.User, error) {
	u, err := repos.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsDeleted() {
		return nil, domain.NewNotFoundError("User", idString(id))
	}
	return u, nil
}

func findPrice(ctx context.Context, repos Repositories, id int64) (*priceDomain.Price, error) {
	p, err := repos.Prices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsDeleted() {
		return nil, domain.NewNotFoundError("Price", idString(id))
	}
	return p, nil
}

// capacityFunc returns the number of boats available for rental.
type capacityFunc func(ctx context.Context) (int64, error)

// checkCapacity rejects a moment whose active bookings already use every available boat.
func checkCapacity(ctx context.Context, repos Repositories, capacity capacityFunc, at time.Time, excludeID int64) error {
	booked, err := repos.Bookings.CountActiveAt(ctx, at, excludeID)
	if err != nil {
		return err
	}
	available, err := capacity(ctx)
	if err != nil {
		return err
	}
	if booked >= available {
		return domain.NewConflictError(bookingDomain.MsgFullyBooked)
	}
	return nil
}

// checkBoat verifies the boat is bookable and not held by another booking at the same moment.
func checkBoat(ctx context.Context, repos Repositories, boatID int64, at time.Time, excludeID int64) error {
	b, err := findBoat(ctx, repos, boatID)
	if err != nil {
		return err
	}
	if !b.IsBookable() {
		return domain.NewConflictError(bookingDomain.MsgBoatNotAvailable)
	}
	held, err := repos.Bookings.CountBoatBookingsAt(ctx, boatID, at, excludeID)
	if err != nil {
		return err
	}
	if held > 0 {
		return domain.NewConflictError(bookingDomain.MsgBoatAlreadyBooked)
	}
	return nil
}

// checkBattery verifies the battery is bookable and free for the whole calendar day.
func checkBattery(ctx context.Context, repos Repositories, batteryID int64, at time.Time, excludeID int64) error {
	b, err := findBattery(ctx, repos, batteryID)
	if err != nil {
		return err
	}
	if !b.IsBookable() {
		return domain.NewConflictError(bookingDomain.MsgBatteryNotAvailable)
	}
	held, err := repos.Bookings.CountBatteryBookingsOnDay(ctx, batteryID, bookingDomain.DayKey(at), excludeID)
	if err != nil {
		return err
	}
	if held > 0 {
		return domain.NewConflictError(bookingDomain.MsgBatteryBookedForDay)
	}
	return nil
}
