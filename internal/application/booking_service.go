package application

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rise-rentals/service-booking/internal/common/domain"
	bookingDomain "github.com/rise-rentals/service-booking/internal/domain/booking"
)

const tracerName = "github.com/rise-rentals/service-booking/internal/application"

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	RentalAt  time.Time `json:"rental_at" binding:"required"`
	BoatID    *int64    `json:"boat_id"`
	BatteryID *int64    `json:"battery_id"`
	UserID    int64     `json:"user_id"`
	PriceID   int64     `json:"price_id" binding:"required"`
	Remark    string    `json:"remark" binding:"max=200"`
}

// UpdateBookingRequest replaces the editable fields of a booking.
type UpdateBookingRequest struct {
	RentalAt  time.Time `json:"rental_at" binding:"required"`
	BoatID    *int64    `json:"boat_id"`
	BatteryID *int64    `json:"battery_id"`
	PriceID   int64     `json:"price_id" binding:"required"`
	Status    string    `json:"status" binding:"required"`
	Remark    string    `json:"remark" binding:"max=200"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repos        Repositories
	uow          UnitOfWork
	capacity     CapacityProvider
	notifier     BookingNotifier
	strictUpdate bool
	logger       *zap.Logger
	tracer       trace.Tracer
}

// BookingServiceOption configures optional BookingService behavior.
type BookingServiceOption func(*BookingService)

// WithCapacityProvider replaces the in-transaction boat count with p.
func WithCapacityProvider(p CapacityProvider) BookingServiceOption {
	return func(s *BookingService) { s.capacity = p }
}

// WithStrictUpdate makes UpdateBooking re-run the capacity, boat and battery checks.
func WithStrictUpdate(strict bool) BookingServiceOption {
	return func(s *BookingService) { s.strictUpdate = strict }
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repos Repositories,
	uow UnitOfWork,
	notifier BookingNotifier,
	logger *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	s := &BookingService{
		repos:    repos,
		uow:      uow,
		notifier: notifier,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BookingService) capacityIn(repos Repositories) capacityFunc {
	if s.capacity != nil {
		return s.capacity.AvailableBoatCount
	}
	return repos.Boats.CountAvailable
}

// CreateBooking admits a booking after checking, in order: duplicate user booking,
// blocked moment, global capacity, boat, battery, then user and price.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.CreateBooking")
	defer span.End()

	bk, err := bookingDomain.NewBooking(req.RentalAt, req.BoatID, req.BatteryID, req.UserID, req.PriceID, req.Remark)
	if err != nil {
		return nil, err
	}
	at := bk.RentalAt()
	span.SetAttributes(
		attribute.Int64("booking.user_id", req.UserID),
		attribute.String("booking.rental_at", at.Format(time.RFC3339)),
	)

	var email, firstName string
	err = s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		exists, err := repos.Bookings.ExistsForUserAt(ctx, bk.UserID(), at)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewConflictError(bookingDomain.MsgDuplicateBooking)
		}

		blocked, err := repos.TimeSlots.ExistsAt(ctx, at)
		if err != nil {
			return err
		}
		if blocked {
			return domain.NewConflictError(bookingDomain.MsgSlotBlocked)
		}

		if err := checkCapacity(ctx, repos, s.capacityIn(repos), at, 0); err != nil {
			return err
		}
		if id := bk.BoatID(); id != nil {
			if err := checkBoat(ctx, repos, *id, at, 0); err != nil {
				return err
			}
		}
		if id := bk.BatteryID(); id != nil {
			if err := checkBattery(ctx, repos, *id, at, 0); err != nil {
				return err
			}
		}

		u, err := findUser(ctx, repos, bk.UserID())
		if err != nil {
			return err
		}
		if _, err := findPrice(ctx, repos, bk.PriceID()); err != nil {
			return err
		}

		if err := repos.Bookings.Save(ctx, bk); err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		email, firstName = u.Email(), u.FirstName()
		return nil
	})
	if err != nil {
		s.recordRejection(span, err)
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", bk.ID()),
		zap.Int64("user_id", bk.UserID()),
		zap.Time("rental_at", at),
	)

	if s.notifier != nil {
		if err := s.notifier.SendBookingConfirmed(ctx, email, firstName, bk.ID(), at); err != nil {
			s.logger.Error("failed to send booking confirmed notification",
				zap.Int64("booking_id", bk.ID()),
				zap.Error(err),
			)
		}
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// UpdateBooking overwrites a booking's editable fields. A canceled status is
// handled by CancelBooking alone. It reports false when the booking is missing
// or soft-deleted.
func (s *BookingService) UpdateBooking(ctx context.Context, bookingID int64, req UpdateBookingRequest) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.UpdateBooking")
	defer span.End()
	span.SetAttributes(attribute.Int64("booking.id", bookingID))

	status, err := bookingDomain.ParseBookingStatus(req.Status)
	if err != nil {
		return false, domain.NewValidationError(err.Error())
	}
	if status == bookingDomain.StatusCanceled {
		return s.CancelBooking(ctx, bookingID)
	}
	if req.RentalAt.IsZero() {
		return false, domain.NewValidationError("rental date and time is required")
	}
	at := bookingDomain.NormalizeRentalMoment(req.RentalAt)

	updated := false
	err = s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		bk, err := repos.Bookings.FindByID(ctx, bookingID)
		if err != nil {
			if domain.IsNotFound(err) {
				return nil
			}
			return err
		}
		if bk.IsDeleted() {
			return nil
		}

		if req.BoatID != nil {
			if _, err := findBoat(ctx, repos, *req.BoatID); err != nil {
				return err
			}
		}
		if req.BatteryID != nil {
			if _, err := findBattery(ctx, repos, *req.BatteryID); err != nil {
				return err
			}
		}

		if s.strictUpdate {
			if err := s.recheck(ctx, repos, bookingID, at, status, req); err != nil {
				return err
			}
		}

		bk.Overwrite(at, req.BoatID, req.BatteryID, req.PriceID, status, req.Remark)
		bk.IncrementVersion()
		if err := repos.Bookings.Update(ctx, bk); err != nil {
			return err
		}
		updated = true
		return nil
	})
	if err != nil {
		s.recordRejection(span, err)
		return false, err
	}
	if updated {
		s.logger.Info("booking updated", zap.Int64("booking_id", bookingID))
	}
	return updated, nil
}

// recheck applies the capacity, boat and battery rules to the edited values,
// ignoring the booking being edited.
func (s *BookingService) recheck(ctx context.Context, repos Repositories, bookingID int64, at time.Time, status bookingDomain.BookingStatus, req UpdateBookingRequest) error {
	if status == bookingDomain.StatusActive {
		if err := checkCapacity(ctx, repos, s.capacityIn(repos), at, bookingID); err != nil {
			return err
		}
	}
	if req.BoatID != nil {
		if err := checkBoat(ctx, repos, *req.BoatID, at, bookingID); err != nil {
			return err
		}
	}
	if req.BatteryID != nil {
		if err := checkBattery(ctx, repos, *req.BatteryID, at, bookingID); err != nil {
			return err
		}
	}
	return nil
}

// CancelBooking cancels an active booking on behalf of an administrator.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64) (bool, error) {
	return s.cancel(ctx, bookingID, cancelOptions{})
}

// CancelBookingFor cancels a booking the actor is allowed to act on.
func (s *BookingService) CancelBookingFor(ctx context.Context, bookingID int64, actor Actor) (bool, error) {
	return s.cancel(ctx, bookingID, cancelOptions{authorize: ownedBy(actor)})
}

func (s *BookingService) cancel(ctx context.Context, bookingID int64, opts cancelOptions) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.CancelBooking")
	defer span.End()
	span.SetAttributes(attribute.Int64("booking.id", bookingID))

	var notice *cancelNotice
	err := s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		_, notice, err = cancelBooking(ctx, repos, bookingID, opts)
		return err
	})
	if err != nil {
		s.recordRejection(span, err)
		return false, err
	}

	s.logger.Info("booking canceled", zap.Int64("booking_id", bookingID))
	sendCancelNotices(ctx, s.notifier, s.logger, []*cancelNotice{notice})
	return true, nil
}

// CompleteBooking marks an active booking as completed (admin).
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID int64) (*BookingDTO, error) {
	var result BookingDTO
	err := s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		bk, err := s.findLive(ctx, repos, bookingID)
		if err != nil {
			return err
		}
		if err := bk.Complete(); err != nil {
			return err
		}
		bk.IncrementVersion()
		if err := repos.Bookings.Update(ctx, bk); err != nil {
			return err
		}
		result = toBookingDTO(bk)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("booking completed", zap.Int64("booking_id", bookingID))
	return &result, nil
}

// DeleteBooking soft-deletes a booking. It reports false when the booking does not exist.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID int64) (bool, error) {
	deleted := false
	err := s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		if _, err := repos.Bookings.FindByID(ctx, bookingID); err != nil {
			if domain.IsNotFound(err) {
				return nil
			}
			return err
		}
		if err := repos.Bookings.MarkDeleted(ctx, bookingID); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("booking deleted", zap.Int64("booking_id", bookingID))
	}
	return deleted, nil
}

// GetBooking returns a non-deleted booking.
func (s *BookingService) GetBooking(ctx context.Context, bookingID int64) (*BookingDTO, error) {
	bk, err := s.findLive(ctx, s.repos, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetBookingFor returns a booking the actor is allowed to see.
func (s *BookingService) GetBookingFor(ctx context.Context, bookingID int64, actor Actor) (*BookingDTO, error) {
	bk, err := s.findLive(ctx, s.repos, bookingID)
	if err != nil {
		return nil, err
	}
	if err := ownedBy(actor)(bk); err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

func (s *BookingService) findLive(ctx context.Context, repos Repositories, bookingID int64) (*bookingDomain.Booking, error) {
	bk, err := repos.Bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.IsDeleted() {
		return nil, domain.NewNotFoundError("Booking", idString(bookingID))
	}
	return bk, nil
}

// ListUserBookings returns a user's bookings ordered by rental moment.
func (s *BookingService) ListUserBookings(ctx context.Context, userID int64, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repos.Bookings.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// ListCurrentBookings returns active bookings from the start of today (UTC) onward.
func (s *BookingService) ListCurrentBookings(ctx context.Context) ([]BookingDTO, error) {
	since := time.Now().UTC().Truncate(24 * time.Hour)
	bookings, err := s.repos.Bookings.FindCurrent(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list current bookings: %w", err)
	}
	return toBookingDTOs(bookings), nil
}

// --- Admin methods ---

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repos.Bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repos.Bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

func (s *BookingService) recordRejection(span trace.Span, err error) {
	if code, ok := domain.CodeOf(err); ok {
		span.SetAttributes(attribute.String("booking.rejection", string(code)))
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
