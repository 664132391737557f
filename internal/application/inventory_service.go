package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rise-rentals/service-booking/internal/common/domain"
	batteryDomain "github.com/rise-rentals/service-booking/internal/domain/battery"
	boatDomain "github.com/rise-rentals/service-booking/internal/domain/boat"
)

type CreateBoatRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type CreateBatteryRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	OwnerID *int64 `json:"owner_id"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// InventoryService manages boats and batteries and reports rental capacity.
type InventoryService struct {
	repos       Repositories
	uow         UnitOfWork
	capacity    CapacityProvider
	invalidator CapacityInvalidator
	logger      *zap.Logger
}

// NewInventoryService creates an InventoryService. capacity and invalidator may be nil.
func NewInventoryService(
	repos Repositories,
	uow UnitOfWork,
	capacity CapacityProvider,
	invalidator CapacityInvalidator,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		repos:       repos,
		uow:         uow,
		capacity:    capacity,
		invalidator: invalidator,
		logger:      logger,
	}
}

// AvailableBoatCount returns the number of non-deleted available boats.
func (s *InventoryService) AvailableBoatCount(ctx context.Context) (int64, error) {
	if s.capacity != nil {
		return s.capacity.AvailableBoatCount(ctx)
	}
	return s.repos.Boats.CountAvailable(ctx)
}

func (s *InventoryService) ListBoats(ctx context.Context) ([]BoatDTO, error) {
	boats, err := s.repos.Boats.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list boats: %w", err)
	}
	dtos := make([]BoatDTO, len(boats))
	for i, b := range boats {
		dtos[i] = toBoatDTO(b)
	}
	return dtos, nil
}

// CreateBoat adds an available boat. Names are unique among non-deleted boats.
func (s *InventoryService) CreateBoat(ctx context.Context, req CreateBoatRequest) (*BoatDTO, error) {
	b, err := boatDomain.NewBoat(req.Name)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		exists, err := repos.Boats.ExistsByName(ctx, b.Name())
		if err != nil {
			return err
		}
		if exists {
			return domain.NewConflictError(fmt.Sprintf("boat with name %s already exists", b.Name()))
		}
		return repos.Boats.Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.Info("boat created", zap.Int64("boat_id", b.ID()), zap.String("name", b.Name()))
	result := toBoatDTO(b)
	return &result, nil
}

func (s *InventoryService) UpdateBoatStatus(ctx context.Context, boatID int64, status string) (*BoatDTO, error) {
	parsed, err := boatDomain.ParseBoatStatus(status)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	var result BoatDTO
	err = s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		b, err := findBoat(ctx, repos, boatID)
		if err != nil {
			return err
		}
		if err := b.ChangeStatus(parsed); err != nil {
			return err
		}
		if err := repos.Boats.Update(ctx, b); err != nil {
			return err
		}
		result = toBoatDTO(b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.Info("boat status changed", zap.Int64("boat_id", boatID), zap.String("status", status))
	return &result, nil
}

func (s *InventoryService) DeleteBoat(ctx context.Context, boatID int64) error {
	err := s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		b, err := findBoat(ctx, repos, boatID)
		if err != nil {
			return err
		}
		b.MarkDeleted()
		return repos.Boats.Update(ctx, b)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	s.logger.Info("boat deleted", zap.Int64("boat_id", boatID))
	return nil
}

func (s *InventoryService) ListBatteries(ctx context.Context) ([]BatteryDTO, error) {
	batteries, err := s.repos.Batteries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list batteries: %w", err)
	}
	dtos := make([]BatteryDTO, len(batteries))
	for i, b := range batteries {
		dtos[i] = toBatteryDTO(b)
	}
	return dtos, nil
}

func (s *InventoryService) CreateBattery(ctx context.Context, req CreateBatteryRequest) (*BatteryDTO, error) {
	b, err := batteryDomain.NewBattery(req.Name, req.OwnerID)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		if req.OwnerID != nil {
			if _, err := findUser(ctx, repos, *req.OwnerID); err != nil {
				return err
			}
		}
		return repos.Batteries.Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("battery created", zap.Int64("battery_id", b.ID()), zap.String("name", b.Name()))
	result := toBatteryDTO(b)
	return &result, nil
}

func (s *InventoryService) UpdateBatteryStatus(ctx context.Context, batteryID int64, status string) (*BatteryDTO, error) {
	parsed, err := batteryDomain.ParseBatteryStatus(status)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	var result BatteryDTO
	err = s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		b, err := findBattery(ctx, repos, batteryID)
		if err != nil {
			return err
		}
		if err := b.ChangeStatus(parsed); err != nil {
			return err
		}
		if err := repos.Batteries.Update(ctx, b); err != nil {
			return err
		}
		result = toBatteryDTO(b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("battery status changed", zap.Int64("battery_id", batteryID), zap.String("status", status))
	return &result, nil
}

func (s *InventoryService) DeleteBattery(ctx context.Context, batteryID int64) error {
	err := s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		b, err := findBattery(ctx, repos, batteryID)
		if err != nil {
			return err
		}
		b.MarkDeleted()
		return repos.Batteries.Update(ctx, b)
	})
	if err != nil {
		return err
	}
	s.logger.Info("battery deleted", zap.Int64("battery_id", batteryID))
	return nil
}

// invalidate drops the cached capacity. A failure only delays the refresh
// until the cache entry expires.
func (s *InventoryService) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate capacity cache", zap.Error(err))
	}
}
