package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/rise-rentals/service-booking/internal/common/domain"
	priceDomain "github.com/rise-rentals/service-booking/internal/domain/price"
)

// PriceModel is the GORM model for the prices table.
type PriceModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	AmountCents int64     `gorm:"not null"`
	Currency    string    `gorm:"not null;size:3;default:'EUR'"`
	IsDeleted   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

func (PriceModel) TableName() string {
	return "prices"
}

// GormPriceRepository is the GORM-based implementation of PriceRepository.
type GormPriceRepository struct {
	db *gorm.DB
}

func NewGormPriceRepository(db *gorm.DB) *GormPriceRepository {
	return &GormPriceRepository{db: db}
}

func (r *GormPriceRepository) FindByID(ctx context.Context, id int64) (*priceDomain.Price, error) {
	var model PriceModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Price", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find price by ID: %w", err)
	}
	return toDomainPrice(&model), nil
}

func (r *GormPriceRepository) FindCurrent(ctx context.Context) (*priceDomain.Price, error) {
	var model PriceModel
	if err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("created_at DESC, id DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Price", "current")
		}
		return nil, fmt.Errorf("failed to find current price: %w", err)
	}
	return toDomainPrice(&model), nil
}

func (r *GormPriceRepository) List(ctx context.Context) ([]*priceDomain.Price, error) {
	var models []PriceModel
	if err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("created_at DESC, id DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	prices := make([]*priceDomain.Price, len(models))
	for i := range models {
		prices[i] = toDomainPrice(&models[i])
	}
	return prices, nil
}

func (r *GormPriceRepository) Save(ctx context.Context, p *priceDomain.Price) error {
	model := &PriceModel{
		AmountCents: p.AmountCents(),
		Currency:    p.Currency(),
		CreatedAt:   p.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save price: %w", err)
	}
	p.AssignID(model.ID)
	return nil
}

func (r *GormPriceRepository) MarkDeleted(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&PriceModel{}).
		Where("id = ?", id).
		UpdateColumn("is_deleted", true)
	if result.Error != nil {
		return fmt.Errorf("failed to delete price: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Price", strconv.FormatInt(id, 10))
	}
	return nil
}

func toDomainPrice(m *PriceModel) *priceDomain.Price {
	return priceDomain.ReconstructPrice(m.ID, m.AmountCents, m.Currency, m.IsDeleted, m.CreatedAt)
}
