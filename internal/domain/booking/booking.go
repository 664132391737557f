package booking

import (
	"strconv"
	"time"

	"github.com/rise-rentals/service-booking/internal/common/domain"
)

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id        int64
	rentalAt  time.Time
	boatID    *int64
	batteryID *int64
	status    BookingStatus
	userID    int64
	priceID   int64
	remark    string
	deleted   bool

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking aggregate with status=active.
func NewBooking(
	rentalAt time.Time,
	boatID *int64,
	batteryID *int64,
	userID int64,
	priceID int64,
	remark string,
) (*Booking, error) {
	if rentalAt.IsZero() {
		return nil, domain.NewValidationError("rental date and time is required")
	}
	if userID <= 0 {
		return nil, domain.NewValidationError("user ID is required")
	}
	if priceID <= 0 {
		return nil, domain.NewValidationError("price ID is required")
	}
	if boatID != nil && *boatID <= 0 {
		return nil, domain.NewValidationError("boat ID must be positive")
	}
	if batteryID != nil && *batteryID <= 0 {
		return nil, domain.NewValidationError("battery ID must be positive")
	}

	now := time.Now().UTC()
	return &Booking{
		rentalAt:  NormalizeRentalMoment(rentalAt),
		boatID:    boatID,
		batteryID: batteryID,
		status:    StatusActive,
		userID:    userID,
		priceID:   priceID,
		remark:    remark,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id int64,
	rentalAt time.Time,
	boatID *int64,
	batteryID *int64,
	status BookingStatus,
	userID int64,
	priceID int64,
	remark string,
	deleted bool,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		rentalAt:  rentalAt.UTC(),
		boatID:    boatID,
		batteryID: batteryID,
		status:    status,
		userID:    userID,
		priceID:   priceID,
		remark:    remark,
		deleted:   deleted,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() int64 { return b.id }

// RentalAt returns the rental moment in UTC.
func (b *Booking) RentalAt() time.Time { return b.rentalAt }

// RentalDay returns the rental day key (YYYY-MM-DD, UTC).
func (b *Booking) RentalDay() string { return DayKey(b.rentalAt) }

func (b *Booking) BoatID() *int64    { return b.boatID }
func (b *Booking) BatteryID() *int64 { return b.batteryID }

func (b *Booking) Status() BookingStatus { return b.status }
func (b *Booking) UserID() int64         { return b.userID }
func (b *Booking) PriceID() int64        { return b.priceID }
func (b *Booking) Remark() string        { return b.remark }

// IsDeleted reports whether the booking has been soft-deleted.
func (b *Booking) IsDeleted() bool { return b.deleted }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// IDString formats the ID for error messages.
func (b *Booking) IDString() string { return strconv.FormatInt(b.id, 10) }

// --- Behavior ---

// AssignID sets the identifier generated by the store on insert.
func (b *Booking) AssignID(id int64) {
	b.id = id
}

// Cancel transitions an active booking to canceled.
func (b *Booking) Cancel() error {
	if !b.status.CanTransitionTo(StatusCanceled) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCanceled))
	}
	b.status = StatusCanceled
	b.updatedAt = time.Now().UTC()
	return nil
}

// Complete transitions an active booking to completed.
func (b *Booking) Complete() error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	b.status = StatusCompleted
	b.updatedAt = time.Now().UTC()
	return nil
}

// AnnotateBlocked replaces the remark with the reason the timeslot was blocked.
func (b *Booking) AnnotateBlocked(reason string) {
	b.remark = BlockedRemarkPrefix + reason
	b.updatedAt = time.Now().UTC()
}

// Overwrite replaces the editable fields wholesale. The status is taken as-is
// and is not checked against the transition table.
func (b *Booking) Overwrite(
	rentalAt time.Time,
	boatID *int64,
	batteryID *int64,
	priceID int64,
	status BookingStatus,
	remark string,
) {
	b.rentalAt = NormalizeRentalMoment(rentalAt)
	b.boatID = boatID
	b.batteryID = batteryID
	b.priceID = priceID
	b.status = status
	b.remark = remark
	b.updatedAt = time.Now().UTC()
}

// MarkDeleted sets the soft-delete flag. No other field changes.
func (b *Booking) MarkDeleted() {
	b.deleted = true
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
