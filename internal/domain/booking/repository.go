package booking

import (
	"context"
	"time"
)

// BookingRepository defines the persistence contract for booking aggregates.
// Counting methods take an excludeID; zero excludes nothing.
type BookingRepository interface {
	// FindByID retrieves a booking by ID, including soft-deleted rows.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// ExistsForUserAt reports a non-deleted, non-canceled booking of userID at rentalAt.
	ExistsForUserAt(ctx context.Context, userID int64, rentalAt time.Time) (bool, error)

	// CountActiveAt counts non-deleted active bookings at rentalAt.
	CountActiveAt(ctx context.Context, rentalAt time.Time, excludeID int64) (int64, error)

	// CountBoatBookingsAt counts non-deleted, non-canceled bookings holding boatID at rentalAt.
	CountBoatBookingsAt(ctx context.Context, boatID int64, rentalAt time.Time, excludeID int64) (int64, error)

	// CountBatteryBookingsOnDay counts non-deleted, non-canceled bookings holding batteryID on day.
	CountBatteryBookingsOnDay(ctx context.Context, batteryID int64, day string, excludeID int64) (int64, error)

	// FindActiveBetween returns non-deleted active bookings with from <= rental moment < to.
	FindActiveBetween(ctx context.Context, from, to time.Time) ([]*Booking, error)

	// FindCurrent returns non-deleted active bookings at or after since, ordered by rental moment.
	FindCurrent(ctx context.Context, since time.Time) ([]*Booking, error)

	// FindByUserID retrieves a user's non-deleted bookings with pagination.
	FindByUserID(ctx context.Context, userID int64, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all non-deleted bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns non-deleted booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking and assigns its ID.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error

	// MarkDeleted sets the soft-delete flag without touching any other column.
	MarkDeleted(ctx context.Context, id int64) error
}
