package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/rise-rentals/service-booking/internal/common/domain"
	bookingDomain "github.com/rise-rentals/service-booking/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	RentalAt  time.Time `gorm:"not null;index"`
	RentalDay string    `gorm:"not null;size:10;index"`
	BoatID    *int64    `gorm:"index"`
	BatteryID *int64    `gorm:"index"`
	Status    string    `gorm:"not null;size:20;index"`
	UserID    int64     `gorm:"not null;index"`
	PriceID   int64     `gorm:"not null"`
	Remark    string    `gorm:"size:300"`
	IsDeleted bool      `gorm:"not null;default:false"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// live scopes a query to bookings that are not soft-deleted.
func (r *GormBookingRepository) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&BookingModel{}).Where("is_deleted = ?", false)
}

func excluding(q *gorm.DB, excludeID int64) *gorm.DB {
	if excludeID > 0 {
		return q.Where("id <> ?", excludeID)
	}
	return q
}

// FindByID retrieves a booking by its identifier, soft-deleted or not.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model), nil
}

func (r *GormBookingRepository) ExistsForUserAt(ctx context.Context, userID int64, rentalAt time.Time) (bool, error) {
	var count int64
	if err := r.live(ctx).
		Where("user_id = ? AND rental_at = ? AND status <> ?", userID, rentalAt.UTC(), string(bookingDomain.StatusCanceled)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user booking: %w", err)
	}
	return count > 0, nil
}

func (r *GormBookingRepository) CountActiveAt(ctx context.Context, rentalAt time.Time, excludeID int64) (int64, error) {
	var count int64
	q := r.live(ctx).Where("rental_at = ? AND status = ?", rentalAt.UTC(), string(bookingDomain.StatusActive))
	if err := excluding(q, excludeID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count active bookings: %w", err)
	}
	return count, nil
}

func (r *GormBookingRepository) CountBoatBookingsAt(ctx context.Context, boatID int64, rentalAt time.Time, excludeID int64) (int64, error) {
	var count int64
	q := r.live(ctx).Where("boat_id = ? AND rental_at = ? AND status <> ?", boatID, rentalAt.UTC(), string(bookingDomain.StatusCanceled))
	if err := excluding(q, excludeID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count boat bookings: %w", err)
	}
	return count, nil
}

func (r *GormBookingRepository) CountBatteryBookingsOnDay(ctx context.Context, batteryID int64, day string, excludeID int64) (int64, error) {
	var count int64
	q := r.live(ctx).Where("battery_id = ? AND rental_day = ? AND status <> ?", batteryID, day, string(bookingDomain.StatusCanceled))
	if err := excluding(q, excludeID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count battery bookings: %w", err)
	}
	return count, nil
}

func (r *GormBookingRepository) FindActiveBetween(ctx context.Context, from, to time.Time) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.live(ctx).
		Where("status = ? AND rental_at >= ? AND rental_at < ?", string(bookingDomain.StatusActive), from.UTC(), to.UTC()).
		Order("rental_at ASC, id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find active bookings: %w", err)
	}
	return toDomainBookings(models), nil
}

func (r *GormBookingRepository) FindCurrent(ctx context.Context, since time.Time) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.live(ctx).
		Where("status = ? AND rental_at >= ?", string(bookingDomain.StatusActive), since.UTC()).
		Order("rental_at ASC, id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find current bookings: %w", err)
	}
	return toDomainBookings(models), nil
}

// FindByUserID retrieves bookings for a specific user with pagination.
func (r *GormBookingRepository) FindByUserID(ctx context.Context, userID int64, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.live(ctx).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count user bookings: %w", err)
	}

	var models []BookingModel
	if err := r.live(ctx).
		Where("user_id = ?", userID).
		Order("rental_at ASC, id ASC").
		Offset(domain.Offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find user bookings: %w", err)
	}
	return toDomainBookings(models), total, nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.live(ctx).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	if err := r.live(ctx).
		Order("rental_at ASC, id ASC").
		Offset(domain.Offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toDomainBookings(models), total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.live(ctx).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking and assigns the generated ID.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	bk.AssignID(model.ID)
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// The caller has already incremented the version.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"rental_at":  model.RentalAt,
			"rental_day": model.RentalDay,
			"boat_id":    model.BoatID,
			"battery_id": model.BatteryID,
			"status":     model.Status,
			"price_id":   model.PriceID,
			"remark":     model.Remark,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// MarkDeleted flips the soft-delete flag and leaves every other column untouched.
func (r *GormBookingRepository) MarkDeleted(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ?", id).
		UpdateColumn("is_deleted", true)
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", strconv.FormatInt(id, 10))
	}
	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        bk.ID(),
		RentalAt:  bk.RentalAt(),
		RentalDay: bk.RentalDay(),
		BoatID:    bk.BoatID(),
		BatteryID: bk.BatteryID(),
		Status:    string(bk.Status()),
		UserID:    bk.UserID(),
		PriceID:   bk.PriceID(),
		Remark:    bk.Remark(),
		IsDeleted: bk.IsDeleted(),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(
		m.ID,
		m.RentalAt,
		m.BoatID,
		m.BatteryID,
		bookingDomain.BookingStatus(m.Status),
		m.UserID,
		m.PriceID,
		m.Remark,
		m.IsDeleted,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainBookings(models []BookingModel) []*bookingDomain.Booking {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toDomainBooking(&models[i])
	}
	return bookings
}
