package battery

import "context"

// BatteryRepository defines the persistence contract for batteries.
type BatteryRepository interface {
	// FindByID retrieves a battery by ID, including soft-deleted rows.
	FindByID(ctx context.Context, id int64) (*Battery, error)
	List(ctx context.Context) ([]*Battery, error)
	Save(ctx context.Context, battery *Battery) error
	Update(ctx context.Context, battery *Battery) error
}
