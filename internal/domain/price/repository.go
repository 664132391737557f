package price

import "context"

// PriceRepository defines the persistence contract for prices.
type PriceRepository interface {
	// FindByID retrieves a price by ID, including soft-deleted rows.
	FindByID(ctx context.Context, id int64) (*Price, error)

	// FindCurrent returns the most recently created non-deleted price.
	FindCurrent(ctx context.Context) (*Price, error)

	List(ctx context.Context) ([]*Price, error)
	Save(ctx context.Context, price *Price) error
	MarkDeleted(ctx context.Context, id int64) error
}
