package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	timeslotDomain "github.com/rise-rentals/service-booking/internal/domain/timeslot"
)

// TimeSlotModel is the GORM model for the time_slots table.
type TimeSlotModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	BlockedAt time.Time `gorm:"not null;index"`
	Day       string    `gorm:"not null;size:10;index:idx_time_slots_day_slot"`
	Slot      string    `gorm:"not null;size:20;index:idx_time_slots_day_slot"`
	Reason    string    `gorm:"size:200"`
	CreatedBy int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (TimeSlotModel) TableName() string {
	return "time_slots"
}

// GormTimeSlotRepository is the GORM-based implementation of TimeSlotRepository.
type GormTimeSlotRepository struct {
	db *gorm.DB
}

func NewGormTimeSlotRepository(db *gorm.DB) *GormTimeSlotRepository {
	return &GormTimeSlotRepository{db: db}
}

func (r *GormTimeSlotRepository) ExistsForDay(ctx context.Context, day string, slot timeslotDomain.SlotType) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&TimeSlotModel{}).
		Where("day = ? AND slot = ?", day, string(slot)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check timeslot: %w", err)
	}
	return count > 0, nil
}

func (r *GormTimeSlotRepository) ExistsAt(ctx context.Context, at time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&TimeSlotModel{}).
		Where("blocked_at = ?", at.UTC()).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check blocked moment: %w", err)
	}
	return count > 0, nil
}

func (r *GormTimeSlotRepository) ListBetween(ctx context.Context, fromDay, toDay string) ([]*timeslotDomain.TimeSlot, error) {
	var models []TimeSlotModel
	if err := r.db.WithContext(ctx).
		Where("day >= ? AND day <= ?", fromDay, toDay).
		Order("blocked_at ASC, id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list timeslots: %w", err)
	}
	slots := make([]*timeslotDomain.TimeSlot, len(models))
	for i, m := range models {
		slots[i] = timeslotDomain.ReconstructTimeSlot(
			m.ID, m.BlockedAt, m.Day, timeslotDomain.SlotType(m.Slot), m.Reason, m.CreatedBy, m.CreatedAt,
		)
	}
	return slots, nil
}

func (r *GormTimeSlotRepository) Save(ctx context.Context, ts *timeslotDomain.TimeSlot) error {
	model := &TimeSlotModel{
		BlockedAt: ts.BlockedAt(),
		Day:       ts.Day(),
		Slot:      string(ts.Slot()),
		Reason:    ts.Reason(),
		CreatedBy: ts.CreatedBy(),
		CreatedAt: ts.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save timeslot: %w", err)
	}
	ts.AssignID(model.ID)
	return nil
}

// DeleteForDay physically removes the block; unblocking is the one hard delete.
func (r *GormTimeSlotRepository) DeleteForDay(ctx context.Context, day string, slot timeslotDomain.SlotType) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("day = ? AND slot = ?", day, string(slot)).
		Delete(&TimeSlotModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete timeslot: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
