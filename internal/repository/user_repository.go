package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/rise-rentals/service-booking/internal/common/domain"
	userDomain "github.com/rise-rentals/service-booking/internal/domain/user"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Email     string    `gorm:"not null;size:255;index"`
	FirstName string    `gorm:"size:100"`
	LastName  string    `gorm:"size:100"`
	Phone     string    `gorm:"size:30"`
	Role      string    `gorm:"not null;size:20;default:'user'"`
	IsDeleted bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// GormUserRepository is the GORM-based implementation of UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*userDomain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return userDomain.ReconstructUser(m.ID, m.Email, m.FirstName, m.LastName, m.Phone, m.Role, m.IsDeleted, m.CreatedAt), nil
}

func (r *GormUserRepository) Save(ctx context.Context, u *userDomain.User) error {
	m := &UserModel{
		ID:        u.ID(),
		Email:     u.Email(),
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
		Phone:     u.Phone(),
		Role:      u.Role(),
		IsDeleted: u.IsDeleted(),
		CreatedAt: u.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	u.AssignID(m.ID)
	return nil
}
