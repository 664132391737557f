package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	priceDomain "github.com/rise-rentals/service-booking/internal/domain/price"
)

type CreatePriceRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
}

// PriceService manages rental tariffs.
type PriceService struct {
	repos  Repositories
	logger *zap.Logger
}

func NewPriceService(repos Repositories, logger *zap.Logger) *PriceService {
	return &PriceService{repos: repos, logger: logger}
}

func (s *PriceService) CreatePrice(ctx context.Context, req CreatePriceRequest) (*PriceDTO, error) {
	p, err := priceDomain.NewPrice(req.AmountCents, req.Currency)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Prices.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save price: %w", err)
	}
	s.logger.Info("price created", zap.Int64("price_id", p.ID()), zap.Int64("amount_cents", p.AmountCents()))
	result := toPriceDTO(p)
	return &result, nil
}

// CurrentPrice returns the latest non-deleted price.
func (s *PriceService) CurrentPrice(ctx context.Context) (*PriceDTO, error) {
	p, err := s.repos.Prices.FindCurrent(ctx)
	if err != nil {
		return nil, err
	}
	result := toPriceDTO(p)
	return &result, nil
}

func (s *PriceService) ListPrices(ctx context.Context) ([]PriceDTO, error) {
	prices, err := s.repos.Prices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	dtos := make([]PriceDTO, len(prices))
	for i, p := range prices {
		dtos[i] = toPriceDTO(p)
	}
	return dtos, nil
}

// DeletePrice soft-deletes a price. Bookings keep referencing it.
func (s *PriceService) DeletePrice(ctx context.Context, priceID int64) error {
	if _, err := findPrice(ctx, s.repos, priceID); err != nil {
		return err
	}
	if err := s.repos.Prices.MarkDeleted(ctx, priceID); err != nil {
		return err
	}
	s.logger.Info("price deleted", zap.Int64("price_id", priceID))
	return nil
}
