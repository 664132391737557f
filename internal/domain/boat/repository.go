package boat

import "context"

// BoatRepository defines the persistence contract for boats.
type BoatRepository interface {
	// FindByID retrieves a boat by ID, including soft-deleted rows.
	FindByID(ctx context.Context, id int64) (*Boat, error)

	// ExistsByName reports a non-deleted boat with the given name.
	ExistsByName(ctx context.Context, name string) (bool, error)

	// List returns non-deleted boats ordered by name.
	List(ctx context.Context) ([]*Boat, error)

	// CountAvailable counts non-deleted boats with status available.
	CountAvailable(ctx context.Context) (int64, error)

	Save(ctx context.Context, boat *Boat) error
	Update(ctx context.Context, boat *Boat) error
}
