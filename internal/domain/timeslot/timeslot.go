package timeslot

import (
	"fmt"
	"strings"
	"time"

	"github.com/rise-rentals/service-booking/internal/common/domain"
	"github.com/rise-rentals/service-booking/internal/domain/booking"
)

// SlotType labels the part of the day a block covers.
type SlotType string

const (
	SlotMorning   SlotType = "morning"
	SlotNoon      SlotType = "noon"
	SlotAfternoon SlotType = "afternoon"
)

func (s SlotType) IsValid() bool {
	switch s {
	case SlotMorning, SlotNoon, SlotAfternoon:
		return true
	}
	return false
}

func ParseSlotType(s string) (SlotType, error) {
	slot := SlotType(strings.ToLower(s))
	if !slot.IsValid() {
		return "", fmt.Errorf("invalid timeslot type: %s", s)
	}
	return slot, nil
}

// TimeSlot is a blackout block. New bookings at the exact blocked moment are rejected.
type TimeSlot struct {
	id        int64
	blockedAt time.Time
	day       string
	slot      SlotType
	reason    string
	createdBy int64
	createdAt time.Time
}

func NewTimeSlot(blockedAt time.Time, slot SlotType, reason string, createdBy int64) (*TimeSlot, error) {
	if blockedAt.IsZero() {
		return nil, domain.NewValidationError("block date is required")
	}
	if !slot.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid timeslot type: %s", slot))
	}
	at := booking.NormalizeRentalMoment(blockedAt)
	return &TimeSlot{
		blockedAt: at,
		day:       booking.DayKey(at),
		slot:      slot,
		reason:    strings.TrimSpace(reason),
		createdBy: createdBy,
		createdAt: time.Now().UTC(),
	}, nil
}

func ReconstructTimeSlot(id int64, blockedAt time.Time, day string, slot SlotType, reason string, createdBy int64, createdAt time.Time) *TimeSlot {
	return &TimeSlot{
		id:        id,
		blockedAt: blockedAt.UTC(),
		day:       day,
		slot:      slot,
		reason:    reason,
		createdBy: createdBy,
		createdAt: createdAt,
	}
}

func (t *TimeSlot) ID() int64            { return t.id }
func (t *TimeSlot) BlockedAt() time.Time { return t.blockedAt }
func (t *TimeSlot) Day() string          { return t.day }
func (t *TimeSlot) Slot() SlotType       { return t.slot }
func (t *TimeSlot) Reason() string       { return t.reason }
func (t *TimeSlot) CreatedBy() int64     { return t.createdBy }
func (t *TimeSlot) CreatedAt() time.Time { return t.createdAt }

func (t *TimeSlot) AssignID(id int64) { t.id = id }
