package timeslot

import (
	"context"
	"time"
)

// TimeSlotRepository defines the persistence contract for timeslot blocks.
type TimeSlotRepository interface {
	// ExistsForDay reports a block on day with the given slot type.
	ExistsForDay(ctx context.Context, day string, slot SlotType) (bool, error)

	// ExistsAt reports a block at exactly the given moment.
	ExistsAt(ctx context.Context, at time.Time) (bool, error)

	// ListBetween returns blocks whose day lies in [fromDay, toDay], ordered by moment.
	ListBetween(ctx context.Context, fromDay, toDay string) ([]*TimeSlot, error)

	Save(ctx context.Context, slot *TimeSlot) error

	// DeleteForDay removes the block on day with the given slot type. It reports
	// whether a row was removed.
	DeleteForDay(ctx context.Context, day string, slot SlotType) (bool, error)
}
