package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/rise-rentals/service-booking/internal/application"
	"github.com/rise-rentals/service-booking/internal/common/domain"
	bookingDomain "github.com/rise-rentals/service-booking/internal/domain/booking"
)

// SQLSTATE codes Postgres reports when a transaction loses a conflict.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// NewRepositories binds every repository to db, which may be a transaction.
func NewRepositories(db *gorm.DB) application.Repositories {
	return application.Repositories{
		Bookings:  NewGormBookingRepository(db),
		Boats:     NewGormBoatRepository(db),
		Batteries: NewGormBatteryRepository(db),
		Prices:    NewGormPriceRepository(db),
		Users:     NewGormUserRepository(db),
		TimeSlots: NewGormTimeSlotRepository(db),
	}
}

// GormUnitOfWork runs use cases inside a GORM transaction.
type GormUnitOfWork struct {
	db           *gorm.DB
	serializable bool
}

// NewGormUnitOfWork creates a unit of work. With serializable set, transactions
// run at SERIALIZABLE isolation and lost conflicts surface as conflict errors.
func NewGormUnitOfWork(db *gorm.DB, serializable bool) *GormUnitOfWork {
	return &GormUnitOfWork{db: db, serializable: serializable}
}

func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos application.Repositories) error) error {
	var opts []*sql.TxOptions
	if u.serializable {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}

	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	}, opts...)
	return translateTxError(err)
}

func translateTxError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected:
			return domain.NewConflictError(bookingDomain.MsgConcurrentConflict)
		}
	}
	return err
}
