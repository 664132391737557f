package user

import "context"

// UserRepository defines the persistence contract for users.
type UserRepository interface {
	// FindByID retrieves a user by ID, including soft-deleted rows.
	FindByID(ctx context.Context, id int64) (*User, error)
	Save(ctx context.Context, user *User) error
}
