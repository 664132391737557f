package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/rise-rentals/service-booking/internal/common/domain"
	batteryDomain "github.com/rise-rentals/service-booking/internal/domain/battery"
)

// BatteryModel is the GORM model for the batteries table.
type BatteryModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"not null;size:100"`
	Status    string    `gorm:"not null;size:20"`
	OwnerID   *int64    `gorm:"index"`
	IsDeleted bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (BatteryModel) TableName() string {
	return "batteries"
}

// GormBatteryRepository is the GORM-based implementation of BatteryRepository.
type GormBatteryRepository struct {
	db *gorm.DB
}

func NewGormBatteryRepository(db *gorm.DB) *GormBatteryRepository {
	return &GormBatteryRepository{db: db}
}

func (r *GormBatteryRepository) FindByID(ctx context.Context, id int64) (*batteryDomain.Battery, error) {
	var model BatteryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Battery", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find battery by ID: %w", err)
	}
	return toDomainBattery(&model), nil
}

func (r *GormBatteryRepository) List(ctx context.Context) ([]*batteryDomain.Battery, error) {
	var models []BatteryModel
	if err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("name ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list batteries: %w", err)
	}
	batteries := make([]*batteryDomain.Battery, len(models))
	for i := range models {
		batteries[i] = toDomainBattery(&models[i])
	}
	return batteries, nil
}

func (r *GormBatteryRepository) Save(ctx context.Context, b *batteryDomain.Battery) error {
	model := toBatteryModel(b)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save battery: %w", err)
	}
	b.AssignID(model.ID)
	return nil
}

func (r *GormBatteryRepository) Update(ctx context.Context, b *batteryDomain.Battery) error {
	result := r.db.WithContext(ctx).
		Model(&BatteryModel{}).
		Where("id = ?", b.ID()).
		Updates(map[string]interface{}{
			"name":       b.Name(),
			"status":     string(b.Status()),
			"owner_id":   b.OwnerID(),
			"is_deleted": b.IsDeleted(),
			"updated_at": b.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update battery: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Battery", strconv.FormatInt(b.ID(), 10))
	}
	return nil
}

func toBatteryModel(b *batteryDomain.Battery) *BatteryModel {
	return &BatteryModel{
		ID:        b.ID(),
		Name:      b.Name(),
		Status:    string(b.Status()),
		OwnerID:   b.OwnerID(),
		IsDeleted: b.IsDeleted(),
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	}
}

func toDomainBattery(m *BatteryModel) *batteryDomain.Battery {
	return batteryDomain.ReconstructBattery(
		m.ID,
		m.Name,
		batteryDomain.BatteryStatus(m.Status),
		m.OwnerID,
		m.IsDeleted,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
