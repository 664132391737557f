package application

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rise-rentals/service-booking/internal/common/domain"
	bookingDomain "github.com/rise-rentals/service-booking/internal/domain/booking"
	timeslotDomain "github.com/rise-rentals/service-booking/internal/domain/timeslot"
)

// BlockTimeSlotRequest describes a blackout to apply.
type BlockTimeSlotRequest struct {
	BlockedAt time.Time `json:"blocked_at" binding:"required"`
	Slot      string    `json:"slot" binding:"required"`
	Reason    string    `json:"reason" binding:"max=200"`
}

// TimeSlotService manages blocked timeslots.
type TimeSlotService struct {
	repos    Repositories
	uow      UnitOfWork
	notifier BookingNotifier
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewTimeSlotService(repos Repositories, uow UnitOfWork, notifier BookingNotifier, logger *zap.Logger) *TimeSlotService {
	return &TimeSlotService{
		repos:    repos,
		uow:      uow,
		notifier: notifier,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
}

// BlockTimeSlot blocks a slot and cancels the active bookings in the same hour of
// the same day. A second block for the same day and slot type is a no-op.
func (s *TimeSlotService) BlockTimeSlot(ctx context.Context, req BlockTimeSlotRequest, createdBy int64) (*BlockResultDTO, error) {
	ctx, span := s.tracer.Start(ctx, "TimeSlotService.BlockTimeSlot")
	defer span.End()

	slotType, err := timeslotDomain.ParseSlotType(req.Slot)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	block, err := timeslotDomain.NewTimeSlot(req.BlockedAt, slotType, req.Reason, createdBy)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("timeslot.day", block.Day()),
		attribute.String("timeslot.slot", string(slotType)),
	)

	result := &BlockResultDTO{CanceledBookings: []int64{}}
	var notices []*cancelNotice
	err = s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		exists, err := repos.TimeSlots.ExistsForDay(ctx, block.Day(), slotType)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		from, to := bookingDomain.HourWindow(block.BlockedAt())
		affected, err := repos.Bookings.FindActiveBetween(ctx, from, to)
		if err != nil {
			return err
		}
		for _, bk := range affected {
			canceled, notice, err := cancelBooking(ctx, repos, bk.ID(), cancelOptions{blockReason: block.Reason()})
			if err != nil {
				return fmt.Errorf("failed to cancel booking %d for block: %w", bk.ID(), err)
			}
			result.CanceledBookings = append(result.CanceledBookings, canceled.ID())
			notices = append(notices, notice)
		}

		if err := repos.TimeSlots.Save(ctx, block); err != nil {
			return fmt.Errorf("failed to save timeslot: %w", err)
		}
		result.Blocked = true
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if result.Blocked {
		s.logger.Info("timeslot blocked",
			zap.String("day", block.Day()),
			zap.String("slot", string(slotType)),
			zap.Int("canceled_bookings", len(result.CanceledBookings)),
		)
		sendCancelNotices(ctx, s.notifier, s.logger, notices)
	}
	return result, nil
}

// UnblockTimeSlot removes the block for day and slot. It reports false when no
// such block existed.
func (s *TimeSlotService) UnblockTimeSlot(ctx context.Context, day, slot string) (bool, error) {
	if _, err := bookingDomain.ParseDayKey(day); err != nil {
		return false, domain.NewValidationError("day must be formatted as YYYY-MM-DD")
	}
	slotType, err := timeslotDomain.ParseSlotType(slot)
	if err != nil {
		return false, domain.NewValidationError(err.Error())
	}

	removed, err := s.repos.TimeSlots.DeleteForDay(ctx, day, slotType)
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.Info("timeslot unblocked", zap.String("day", day), zap.String("slot", string(slotType)))
	}
	return removed, nil
}

// ListTimeSlots returns blocks between fromDay and toDay inclusive.
func (s *TimeSlotService) ListTimeSlots(ctx context.Context, fromDay, toDay string) ([]TimeSlotDTO, error) {
	from, err := bookingDomain.ParseDayKey(fromDay)
	if err != nil {
		return nil, domain.NewValidationError("from must be formatted as YYYY-MM-DD")
	}
	to, err := bookingDomain.ParseDayKey(toDay)
	if err != nil {
		return nil, domain.NewValidationError("to must be formatted as YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, domain.NewValidationError("to must not be before from")
	}

	slots, err := s.repos.TimeSlots.ListBetween(ctx, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeslots: %w", err)
	}
	dtos := make([]TimeSlotDTO, len(slots))
	for i, ts := range slots {
		dtos[i] = toTimeSlotDTO(ts)
	}
	return dtos, nil
}
