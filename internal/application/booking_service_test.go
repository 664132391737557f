package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-rentals/service-booking/internal/application"
	"github.com/rise-rentals/service-booking/internal/common/domain"
	boatDomain "github.com/rise-rentals/service-booking/internal/domain/boat"
	bookingDomain "github.com/rise-rentals/service-booking/internal/domain/booking"
)

func assertConflict(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err), "expected conflict, got %v", err)
	assert.Equal(t, msg, err.Error())
}

func TestCreateBooking_SucceedsAndSendsConfirmation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	boats := h.addBoats(t, "Alpha")

	at := slot(0, 10).Add(17 * time.Second)
	got, err := h.book(ctx, h.userA, at, ptr(boats[0]), nil)
	require.NoError(t, err)

	assert.NotZero(t, got.ID)
	assert.Equal(t, "active", got.Status)
	assert.Equal(t, slot(0, 10), got.RentalAt)
	assert.Equal(t, boats[0], *got.BoatID)

	mails := h.notifier.ofKind("confirmed")
	require.Len(t, mails, 1)
	assert.Equal(t, "anna@example.com", mails[0].email)
	assert.Equal(t, "Anna", mails[0].firstName)
	assert.Equal(t, got.ID, mails[0].bookingID)
}

func TestCreateBooking_NotificationFailureKeepsBooking(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha")
	h.notifier.fail = true

	got, err := h.book(ctx, h.userA, slot(0, 10), nil, nil)
	require.NoError(t, err)

	stored, err := h.bookings.GetBooking(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", stored.Status)
}

func TestCreateBooking_CapacityOfOneBoat(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha")

	_, err := h.book(ctx, h.userA, slot(0, 10), nil, nil)
	require.NoError(t, err)

	_, err = h.book(ctx, h.userB, slot(0, 10), nil, nil)
	assertConflict(t, err, bookingDomain.MsgFullyBooked)

	_, err = h.book(ctx, h.userB, slot(0, 11), nil, nil)
	assert.NoError(t, err)
}

func TestCreateBooking_CapacityIgnoresUnavailableBoats(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	boats := h.addBoats(t, "Alpha", "Bravo")
	_, err := h.inventory.UpdateBoatStatus(ctx, boats[1], string(boatDomain.StatusInRepair))
	require.NoError(t, err)

	_, err = h.book(ctx, h.userA, slot(0, 10), nil, nil)
	require.NoError(t, err)
	_, err = h.book(ctx, h.userB, slot(0, 10), nil, nil)
	assertConflict(t, err, bookingDomain.MsgFullyBooked)
}

func TestCreateBooking_CanceledBookingsFreeCapacity(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha")

	first, err := h.book(ctx, h.userA, slot(0, 10), nil, nil)
	require.NoError(t, err)
	_, err = h.bookings.CancelBooking(ctx, first.ID)
	require.NoError(t, err)

	_, err = h.book(ctx, h.userB, slot(0, 10), nil, nil)
	assert.NoError(t, err)
}

func TestCreateBooking_DuplicateUserBooking(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha", "Bravo")

	_, err := h.book(ctx, h.userA, slot(0, 10), nil, nil)
	require.NoError(t, err)

	_, err = h.book(ctx, h.userA, slot(0, 10), nil, nil)
	assertConflict(t, err, bookingDomain.MsgDuplicateBooking)
}

func TestCreateBooking_BoatExclusivity(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	boats := h.addBoats(t, "Alpha", "Bravo")

	_, err := h.book(ctx, h.userA, slot(0, 10), ptr(boats[0]), nil)
	require.NoError(t, err)

	_, err = h.book(ctx, h.userB, slot(0, 10), ptr(boats[0]), nil)
	assertConflict(t, err, bookingDomain.MsgBoatAlreadyBooked)

	_, err = h.book(ctx, h.userB, slot(0, 10), ptr(boats[1]), nil)
	assert.NoError(t, err)
}

func TestCreateBooking_BoatChecks(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	boats := h.addBoats(t, "Alpha", "Bravo", "Charlie")

	_, err := h.inventory.UpdateBoatStatus(ctx, boats[1], string(boatDomain.StatusOutOfService))
	require.NoError(t, err)
	_, err = h.book(ctx, h.userA, slot(0, 10), ptr(boats[1]), nil)
	assertConflict(t, err, bookingDomain.MsgBoatNotAvailable)

	require.NoError(t, h.inventory.DeleteBoat(ctx, boats[2]))
	_, err = h.book(ctx, h.userA, slot(0, 10), ptr(boats[2]), nil)
	assert.True(t, domain.IsNotFound(err))

	_, err = h.book(ctx, h.userA, slot(0, 10), ptr(9999), nil)
	assert.True(t, domain.IsNotFound(err))
}

func TestCreateBooking_BatteryOncePerDay(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha", "Bravo", "Charlie")
	battery := h.addBattery(t, "Y")

	_, err := h.book(ctx, h.userA, slot(0, 10), nil, ptr(battery))
	require.NoError(t, err)

	_, err = h.book(ctx, h.userB, slot(0, 15), nil, ptr(battery))
	assertConflict(t, err, bookingDomain.MsgBatteryBookedForDay)

	_, err = h.book(ctx, h.userB, slot(1, 10), nil, ptr(battery))
	assert.NoError(t, err)
}

func TestCreateBooking_BatteryNotAvailable(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha")
	battery := h.addBattery(t, "Y")

	_, err := h.inventory.UpdateBatteryStatus(ctx, battery, "reserve")
	require.NoError(t, err)

	_, err = h.book(ctx, h.userA, slot(0, 10), nil, ptr(battery))
	assertConflict(t, err, bookingDomain.MsgBatteryNotAvailable)
}

func TestCreateBooking_UserAndPriceMustExist(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha")

	_, err := h.book(ctx, 9999, slot(0, 10), nil, nil)
	assert.True(t, domain.IsNotFound(err))

	require.NoError(t, h.prices.DeletePrice(ctx, h.priceID))
	_, err = h.book(ctx, h.userA, slot(0, 10), nil, nil)
	assert.True(t, domain.IsNotFound(err))
}

func TestCreateBooking_CheckOrder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha")

	_, err := h.book(ctx, h.userA, slot(0, 10), nil, nil)
	require.NoError(t, err)
	_, err = h.timeslots.BlockTimeSlot(ctx, application.BlockTimeSlotRequest{
		BlockedAt: slot(0, 11), Slot: "morning", Reason: "regatta",
	}, h.userA)
	require.NoError(t, err)

	// duplicate wins over fully booked
	_, err = h.book(ctx, h.userA, slot(0, 10), nil, nil)
	assertConflict(t, err, bookingDomain.MsgDuplicateBooking)

	// fully booked wins over a missing boat
	_, err = h.book(ctx, h.userB, slot(0, 10), ptr(9999), nil)
	assertConflict(t, err, bookingDomain.MsgFullyBooked)

	// blocked wins over a missing user
	_, err = h.book(ctx, 9999, slot(0, 11), nil, nil)
	assertConflict(t, err, bookingDomain.MsgSlotBlocked)
}

func TestCreateBooking_UsesCapacityProvider(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, application.WithCapacityProvider(fixedCapacity(2)))

	_, err := h.book(ctx, h.userA, slot(0, 10), nil, nil)
	require.NoError(t, err)
	_, err = h.book(ctx, h.userB, slot(0, 10), nil, nil)
	require.NoError(t, err)

	third := h.addUser(t, "cleo@example.com", "Cleo")
	_, err = h.book(ctx, third, slot(0, 10), nil, nil)
	assertConflict(t, err, bookingDomain.MsgFullyBooked)
}

type fixedCapacity int64

func (c fixedCapacity) AvailableBoatCount(context.Context) (int64, error) { return int64(c), nil }

func TestCreateBooking_InvalidInput(t *testing.T) {
	h := newHarness(t)
	_, err := h.bookings.CreateBooking(context.Background(), application.CreateBookingRequest{UserID: h.userA, PriceID: h.priceID})
	assert.True(t, domain.IsValidation(err))
}

func TestCancelBooking_TwiceYieldsInvalidState(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha")
	bk, err := h.book(ctx, h.userA, slot(0, 10), nil, nil)
	require.NoError(t, err)

	ok, err := h.bookings.CancelBooking(ctx, bk.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.bookings.CancelBooking(ctx, bk.ID)
	assert.False(t, ok)
	assert.True(t, domain.IsInvalidState(err))

	assert.Len(t, h.notifier.ofKind("canceled"), 1)
}

func TestCancelBooking_MissingAndCompleted(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha")

	_, err := h.bookings.CancelBooking(ctx, 9999)
	assert.True(t, domain.IsNotFound(err))

	bk, err := h.book(ctx, h.userA, slot(0, 10), nil, nil)
	require.NoError(t, err)
	_, err = h.bookings.CompleteBooking(ctx, bk.ID)
	require.NoError(t, err)

	_, err = h.bookings.CancelBooking(ctx, bk.ID)
	assert.True(t, domain.IsInvalidState(err))
}

func TestCancelBookingFor_ChecksOwnership(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha")
	bk, err := h.book(ctx, h.userA, slot(0, 10), nil, nil)
	require.NoError(t, err)

	_, err = h.bookings.CancelBookingFor(ctx, bk.ID, application.Actor{UserID: h.userB})
	assert.Equal(t, domain.CodeForbidden, codeOf(err))

	ok, err := h.bookings.CancelBookingFor(ctx, bk.ID, application.Actor{UserID: h.userA})
	require.NoError(t, err)
	assert.True(t, ok)
}

func codeOf(err error) domain.ErrorCode {
	code, _ := domain.CodeOf(err)
	return code
}

func TestDeleteBooking_IsSoftDelete(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha")
	bk, err := h.book(ctx, h.userA, slot(0, 10), nil, nil)
	require.NoError(t, err)

	ok, err := h.bookings.DeleteBooking(ctx, bk.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = h.bookings.GetBooking(ctx, bk.ID)
	assert.True(t, domain.IsNotFound(err))

	raw, err := h.repos.Bookings.FindByID(ctx, bk.ID)
	require.NoError(t, err)
	assert.True(t, raw.IsDeleted())
	assert.Equal(t, bookingDomain.StatusActive, raw.Status())
	assert.Equal(t, bk.Version, raw.Version())

	ok, err = h.bookings.DeleteBooking(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeletedBookingNoLongerOccupiesTheSlot(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha")
	bk, err := h.book(ctx, h.userA, slot(0, 10), nil, nil)
	require.NoError(t, err)
	_, err = h.bookings.DeleteBooking(ctx, bk.ID)
	require.NoError(t, err)

	_, err = h.book(ctx, h.userA, slot(0, 10), nil, nil)
	assert.NoError(t, err)
}

func TestUpdateBooking_CanceledStatusOnlyCancels(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	boats := h.addBoats(t, "Alpha", "Bravo")
	bk, err := h.book(ctx, h.userA, slot(0, 10), ptr(boats[0]), nil)
	require.NoError(t, err)

	ok, err := h.bookings.UpdateBooking(ctx, bk.ID, application.UpdateBookingRequest{
		RentalAt: slot(3, 15),
		BoatID:   ptr(boats[1]),
		PriceID:  777,
		Status:   "canceled",
		Remark:   "should not be applied",
	})
	require.NoError(t, err)
	assert.True(t, ok)

	raw, err := h.repos.Bookings.FindByID(ctx, bk.ID)
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusCanceled, raw.Status())
	assert.Equal(t, slot(0, 10), raw.RentalAt())
	assert.Equal(t, boats[0], *raw.BoatID())
	assert.Equal(t, h.priceID, raw.PriceID())
	assert.Empty(t, raw.Remark())
}

func TestUpdateBooking_OverwritesFields(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	boats := h.addBoats(t, "Alpha", "Bravo")
	battery := h.addBattery(t, "Y")
	bk, err := h.book(ctx, h.userA, slot(0, 10), ptr(boats[0]), ptr(battery))
	require.NoError(t, err)

	ok, err := h.bookings.UpdateBooking(ctx, bk.ID, application.UpdateBookingRequest{
		RentalAt: slot(1, 14),
		PriceID:  h.priceID,
		Status:   "completed",
		Remark:   "moved",
	})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := h.bookings.GetBooking(ctx, bk.ID)
	require.NoError(t, err)
	assert.Equal(t, slot(1, 14), got.RentalAt)
	assert.Nil(t, got.BoatID)
	assert.Nil(t, got.BatteryID)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, "moved", got.Remark)
}

func TestUpdateBooking_MissingOrDeletedReturnsFalse(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha")
	req := application.UpdateBookingRequest{RentalAt: slot(0, 10), PriceID: h.priceID, Status: "active"}

	ok, err := h.bookings.UpdateBooking(ctx, 9999, req)
	require.NoError(t, err)
	assert.False(t, ok)

	bk, err := h.book(ctx, h.userA, slot(0, 10), nil, nil)
	require.NoError(t, err)
	_, err = h.bookings.DeleteBooking(ctx, bk.ID)
	require.NoError(t, err)

	ok, err = h.bookings.UpdateBooking(ctx, bk.ID, req)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateBooking_ReferencedInventoryMustExist(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha")
	bk, err := h.book(ctx, h.userA, slot(0, 10), nil, nil)
	require.NoError(t, err)

	_, err = h.bookings.UpdateBooking(ctx, bk.ID, application.UpdateBookingRequest{
		RentalAt: slot(0, 10), BoatID: ptr(9999), PriceID: h.priceID, Status: "active",
	})
	assert.True(t, domain.IsNotFound(err))

	_, err = h.bookings.UpdateBooking(ctx, bk.ID, application.UpdateBookingRequest{
		RentalAt: slot(0, 10), BatteryID: ptr(9999), PriceID: h.priceID, Status: "active",
	})
	assert.True(t, domain.IsNotFound(err))

	_, err = h.bookings.UpdateBooking(ctx, bk.ID, application.UpdateBookingRequest{
		RentalAt: slot(0, 10), PriceID: h.priceID, Status: "lost",
	})
	assert.True(t, domain.IsValidation(err))
}

func TestUpdateBooking_DefaultModeSkipsAdmissionChecks(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	boats := h.addBoats(t, "Alpha", "Bravo")

	_, err := h.book(ctx, h.userA, slot(0, 10), ptr(boats[0]), nil)
	require.NoError(t, err)
	moved, err := h.book(ctx, h.userB, slot(0, 12), ptr(boats[1]), nil)
	require.NoError(t, err)

	ok, err := h.bookings.UpdateBooking(ctx, moved.ID, application.UpdateBookingRequest{
		RentalAt: slot(0, 10), BoatID: ptr(boats[0]), PriceID: h.priceID, Status: "active",
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateBooking_StrictModeRechecks(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, application.WithStrictUpdate(true))
	boats := h.addBoats(t, "Alpha", "Bravo")
	battery := h.addBattery(t, "Y")

	_, err := h.book(ctx, h.userA, slot(0, 10), ptr(boats[0]), ptr(battery))
	require.NoError(t, err)
	moved, err := h.book(ctx, h.userB, slot(0, 12), ptr(boats[1]), nil)
	require.NoError(t, err)

	_, err = h.bookings.UpdateBooking(ctx, moved.ID, application.UpdateBookingRequest{
		RentalAt: slot(0, 10), BoatID: ptr(boats[0]), PriceID: h.priceID, Status: "active",
	})
	assertConflict(t, err, bookingDomain.MsgBoatAlreadyBooked)

	_, err = h.bookings.UpdateBooking(ctx, moved.ID, application.UpdateBookingRequest{
		RentalAt: slot(0, 16), BatteryID: ptr(battery), PriceID: h.priceID, Status: "active",
	})
	assertConflict(t, err, bookingDomain.MsgBatteryBookedForDay)

	// the booking itself does not count against its own edit
	ok, err := h.bookings.UpdateBooking(ctx, moved.ID, application.UpdateBookingRequest{
		RentalAt: slot(0, 12), BoatID: ptr(boats[1]), PriceID: h.priceID, Status: "active", Remark: "same slot",
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListingAndStats(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha")

	a1, err := h.book(ctx, h.userA, slot(0, 12), nil, nil)
	require.NoError(t, err)
	_, err = h.book(ctx, h.userA, slot(0, 9), nil, nil)
	require.NoError(t, err)
	b1, err := h.book(ctx, h.userB, slot(1, 9), nil, nil)
	require.NoError(t, err)
	_, err = h.bookings.CancelBooking(ctx, b1.ID)
	require.NoError(t, err)

	mine, err := h.bookings.ListUserBookings(ctx, h.userA, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Total)
	require.Len(t, mine.Items, 2)
	assert.Equal(t, a1.ID, mine.Items[1].ID)

	all, err := h.bookings.ListAllBookings(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Equal(t, 2, all.TotalPages)

	current, err := h.bookings.ListCurrentBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, current, 2)

	stats, err := h.bookings.GetBookingStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByStatus["canceled"])
}

func TestGetBookingFor(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addBoats(t, "Alpha")
	bk, err := h.book(ctx, h.userA, slot(0, 10), nil, nil)
	require.NoError(t, err)

	_, err = h.bookings.GetBookingFor(ctx, bk.ID, application.Actor{UserID: h.userB})
	assert.Equal(t, domain.CodeForbidden, codeOf(err))

	got, err := h.bookings.GetBookingFor(ctx, bk.ID, application.Actor{UserID: h.userB, Admin: true})
	require.NoError(t, err)
	assert.Equal(t, bk.ID, got.ID)
}
