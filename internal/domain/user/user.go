package user

import (
	"strings"
	"time"

	"github.com/rise-rentals/service-booking/internal/common/domain"
)

// User is the renter profile the booking service reads for admission and mail.
type User struct {
	id        int64
	email     string
	firstName string
	lastName  string
	phone     string
	role      string
	deleted   bool
	createdAt time.Time
}

func NewUser(email, firstName, lastName, phone, role string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("a valid email is required")
	}
	if role == "" {
		role = "user"
	}
	return &User{
		email:     email,
		firstName: firstName,
		lastName:  lastName,
		phone:     phone,
		role:      role,
		createdAt: time.Now().UTC(),
	}, nil
}

func ReconstructUser(id int64, email, firstName, lastName, phone, role string, deleted bool, createdAt time.Time) *User {
	return &User{
		id:        id,
		email:     email,
		firstName: firstName,
		lastName:  lastName,
		phone:     phone,
		role:      role,
		deleted:   deleted,
		createdAt: createdAt,
	}
}

func (u *User) ID() int64            { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) FirstName() string    { return u.firstName }
func (u *User) LastName() string     { return u.lastName }
func (u *User) Phone() string        { return u.phone }
func (u *User) Role() string         { return u.role }
func (u *User) IsDeleted() bool      { return u.deleted }
func (u *User) CreatedAt() time.Time { return u.createdAt }

func (u *User) AssignID(id int64) { u.id = id }
