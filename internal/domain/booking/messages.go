package booking

// Rejection reasons returned as conflict messages by the admission checks.
const (
	MsgDuplicateBooking    = "already have a booking for this rental date and time"
	MsgSlotBlocked         = "rental date and time are blocked"
	MsgFullyBooked         = "rental date and time are fully booked"
	MsgBoatNotAvailable    = "boat not available"
	MsgBoatAlreadyBooked   = "boat already booked for this rental date and time"
	MsgBatteryNotAvailable = "battery not available"
	MsgBatteryBookedForDay = "battery already booked for date"
	MsgConcurrentConflict  = "booking conflicted with a concurrent request, please retry"
)

// BlockedRemarkPrefix is written into the remark of bookings canceled by a timeslot block.
const BlockedRemarkPrefix = "booking canceled because this timeslot was blocked with reason: "
