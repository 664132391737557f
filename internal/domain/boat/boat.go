package boat

import (
	"fmt"
	"strings"
	"time"

	"github.com/rise-rentals/service-booking/internal/common/domain"
)

// BoatStatus is the operational state of a boat.
type BoatStatus string

const (
	StatusAvailable    BoatStatus = "available"
	StatusInRepair     BoatStatus = "in_repair"
	StatusOutOfService BoatStatus = "out_of_service"
)

func (s BoatStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusInRepair, StatusOutOfService:
		return true
	}
	return false
}

// ParseBoatStatus converts a string to a BoatStatus.
func ParseBoatStatus(s string) (BoatStatus, error) {
	status := BoatStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid boat status: %s", s)
	}
	return status, nil
}

// Boat is a rentable vessel. Only available boats count toward capacity.
type Boat struct {
	id        int64
	name      string
	status    BoatStatus
	deleted   bool
	createdAt time.Time
	updatedAt time.Time
}

// NewBoat creates an available boat.
func NewBoat(name string) (*Boat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("boat name is required")
	}
	now := time.Now().UTC()
	return &Boat{
		name:      name,
		status:    StatusAvailable,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBoat rebuilds a Boat from persistence data.
func ReconstructBoat(id int64, name string, status BoatStatus, deleted bool, createdAt, updatedAt time.Time) *Boat {
	return &Boat{
		id:        id,
		name:      name,
		status:    status,
		deleted:   deleted,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (b *Boat) ID() int64            { return b.id }
func (b *Boat) Name() string         { return b.name }
func (b *Boat) Status() BoatStatus   { return b.status }
func (b *Boat) IsDeleted() bool      { return b.deleted }
func (b *Boat) CreatedAt() time.Time { return b.createdAt }
func (b *Boat) UpdatedAt() time.Time { return b.updatedAt }

// IsBookable reports whether the boat can be attached to a new booking.
func (b *Boat) IsBookable() bool {
	return !b.deleted && b.status == StatusAvailable
}

func (b *Boat) AssignID(id int64) { b.id = id }

// ChangeStatus sets the operational status.
func (b *Boat) ChangeStatus(status BoatStatus) error {
	if !status.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid boat status: %s", status))
	}
	b.status = status
	b.updatedAt = time.Now().UTC()
	return nil
}

func (b *Boat) MarkDeleted() {
	b.deleted = true
	b.updatedAt = time.Now().UTC()
}
