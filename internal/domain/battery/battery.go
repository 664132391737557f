package battery

import (
	"fmt"
	"strings"
	"time"

	"github.com/rise-rentals/service-booking/internal/common/domain"
)

// BatteryStatus is the operational state of a battery.
type BatteryStatus string

const (
	StatusAvailable    BatteryStatus = "available"
	StatusReserve      BatteryStatus = "reserve"
	StatusOutOfService BatteryStatus = "out_of_service"
	StatusInRepair     BatteryStatus = "in_repair"
)

func (s BatteryStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusReserve, StatusOutOfService, StatusInRepair:
		return true
	}
	return false
}

func ParseBatteryStatus(s string) (BatteryStatus, error) {
	status := BatteryStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid battery status: %s", s)
	}
	return status, nil
}

// Battery is a rentable battery pack, optionally looked after by a user.
type Battery struct {
	id        int64
	name      string
	status    BatteryStatus
	ownerID   *int64
	deleted   bool
	createdAt time.Time
	updatedAt time.Time
}

func NewBattery(name string, ownerID *int64) (*Battery, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("battery name is required")
	}
	now := time.Now().UTC()
	return &Battery{
		name:      name,
		status:    StatusAvailable,
		ownerID:   ownerID,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBattery rebuilds a Battery from persistence data.
func ReconstructBattery(id int64, name string, status BatteryStatus, ownerID *int64, deleted bool, createdAt, updatedAt time.Time) *Battery {
	return &Battery{
		id:        id,
		name:      name,
		status:    status,
		ownerID:   ownerID,
		deleted:   deleted,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (b *Battery) ID() int64             { return b.id }
func (b *Battery) Name() string          { return b.name }
func (b *Battery) Status() BatteryStatus { return b.status }
func (b *Battery) OwnerID() *int64       { return b.ownerID }
func (b *Battery) IsDeleted() bool       { return b.deleted }
func (b *Battery) CreatedAt() time.Time  { return b.createdAt }
func (b *Battery) UpdatedAt() time.Time  { return b.updatedAt }

func (b *Battery) IsBookable() bool {
	return !b.deleted && b.status == StatusAvailable
}

func (b *Battery) AssignID(id int64) { b.id = id }

func (b *Battery) ChangeStatus(status BatteryStatus) error {
	if !status.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid battery status: %s", status))
	}
	b.status = status
	b.updatedAt = time.Now().UTC()
	return nil
}

func (b *Battery) MarkDeleted() {
	b.deleted = true
	b.updatedAt = time.Now().UTC()
}
