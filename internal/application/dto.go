package application

import (
	"time"

	batteryDomain "github.com/rise-rentals/service-booking/internal/domain/battery"
	boatDomain "github.com/rise-rentals/service-booking/internal/domain/boat"
	bookingDomain "github.com/rise-rentals/service-booking/internal/domain/booking"
	priceDomain "github.com/rise-rentals/service-booking/internal/domain/price"
	timeslotDomain "github.com/rise-rentals/service-booking/internal/domain/timeslot"
)

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID        int64     `json:"id"`
	RentalAt  time.Time `json:"rental_at"`
	RentalDay string    `json:"rental_day"`
	BoatID    *int64    `json:"boat_id,omitempty"`
	BatteryID *int64    `json:"battery_id,omitempty"`
	Status    string    `json:"status"`
	UserID    int64     `json:"user_id"`
	PriceID   int64     `json:"price_id"`
	Remark    string    `json:"remark,omitempty"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

type BoatDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type BatteryDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	OwnerID   *int64    `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type PriceDTO struct {
	ID          int64     `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

type TimeSlotDTO struct {
	ID        int64     `json:"id"`
	BlockedAt time.Time `json:"blocked_at"`
	Day       string    `json:"day"`
	Slot      string    `json:"slot"`
	Reason    string    `json:"reason,omitempty"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// BlockResultDTO reports the outcome of blocking a timeslot.
type BlockResultDTO struct {
	Blocked          bool    `json:"blocked"`
	CanceledBookings []int64 `json:"canceled_bookings"`
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:        bk.ID(),
		RentalAt:  bk.RentalAt(),
		RentalDay: bk.RentalDay(),
		BoatID:    bk.BoatID(),
		BatteryID: bk.BatteryID(),
		Status:    string(bk.Status()),
		UserID:    bk.UserID(),
		PriceID:   bk.PriceID(),
		Remark:    bk.Remark(),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func toBoatDTO(b *boatDomain.Boat) BoatDTO {
	return BoatDTO{ID: b.ID(), Name: b.Name(), Status: string(b.Status()), CreatedAt: b.CreatedAt()}
}

func toBatteryDTO(b *batteryDomain.Battery) BatteryDTO {
	return BatteryDTO{
		ID:        b.ID(),
		Name:      b.Name(),
		Status:    string(b.Status()),
		OwnerID:   b.OwnerID(),
		CreatedAt: b.CreatedAt(),
	}
}

func toPriceDTO(p *priceDomain.Price) PriceDTO {
	return PriceDTO{ID: p.ID(), AmountCents: p.AmountCents(), Currency: p.Currency(), CreatedAt: p.CreatedAt()}
}

func toTimeSlotDTO(ts *timeslotDomain.TimeSlot) TimeSlotDTO {
	return TimeSlotDTO{
		ID:        ts.ID(),
		BlockedAt: ts.BlockedAt(),
		Day:       ts.Day(),
		Slot:      string(ts.Slot()),
		Reason:    ts.Reason(),
		CreatedBy: ts.CreatedBy(),
		CreatedAt: ts.CreatedAt(),
	}
}
