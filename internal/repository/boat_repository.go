package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/rise-rentals/service-booking/internal/common/domain"
	boatDomain "github.com/rise-rentals/service-booking/internal/domain/boat"
)

// BoatModel is the GORM model for the boats table.
type BoatModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"not null;size:100;index"`
	Status    string    `gorm:"not null;size:20"`
	IsDeleted bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (BoatModel) TableName() string {
	return "boats"
}

// GormBoatRepository is the GORM-based implementation of BoatRepository.
type GormBoatRepository struct {
	db *gorm.DB
}

func NewGormBoatRepository(db *gorm.DB) *GormBoatRepository {
	return &GormBoatRepository{db: db}
}

func (r *GormBoatRepository) FindByID(ctx context.Context, id int64) (*boatDomain.Boat, error) {
	var model BoatModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Boat", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find boat by ID: %w", err)
	}
	return toDomainBoat(&model), nil
}

func (r *GormBoatRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BoatModel{}).
		Where("is_deleted = ? AND LOWER(name) = LOWER(?)", false, name).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check boat name: %w", err)
	}
	return count > 0, nil
}

func (r *GormBoatRepository) List(ctx context.Context) ([]*boatDomain.Boat, error) {
	var models []BoatModel
	if err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("name ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list boats: %w", err)
	}
	boats := make([]*boatDomain.Boat, len(models))
	for i := range models {
		boats[i] = toDomainBoat(&models[i])
	}
	return boats, nil
}

// CountAvailable counts non-deleted boats that can be rented.
func (r *GormBoatRepository) CountAvailable(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BoatModel{}).
		Where("is_deleted = ? AND status = ?", false, string(boatDomain.StatusAvailable)).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count available boats: %w", err)
	}
	return count, nil
}

func (r *GormBoatRepository) Save(ctx context.Context, b *boatDomain.Boat) error {
	model := toBoatModel(b)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save boat: %w", err)
	}
	b.AssignID(model.ID)
	return nil
}

func (r *GormBoatRepository) Update(ctx context.Context, b *boatDomain.Boat) error {
	result := r.db.WithContext(ctx).
		Model(&BoatModel{}).
		Where("id = ?", b.ID()).
		Updates(map[string]interface{}{
			"name":       b.Name(),
			"status":     string(b.Status()),
			"is_deleted": b.IsDeleted(),
			"updated_at": b.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update boat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Boat", strconv.FormatInt(b.ID(), 10))
	}
	return nil
}

func toBoatModel(b *boatDomain.Boat) *BoatModel {
	return &BoatModel{
		ID:        b.ID(),
		Name:      b.Name(),
		Status:    string(b.Status()),
		IsDeleted: b.IsDeleted(),
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	}
}

func toDomainBoat(m *BoatModel) *boatDomain.Boat {
	return boatDomain.ReconstructBoat(m.ID, m.Name, boatDomain.BoatStatus(m.Status), m.IsDeleted, m.CreatedAt, m.UpdatedAt)
}
