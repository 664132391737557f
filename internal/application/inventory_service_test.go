package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rise-rentals/service-booking/internal/application"
	"github.com/rise-rentals/service-booking/internal/common/domain"
)

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

func TestInventory_BoatLifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	inv := &countingInvalidator{}
	svc := application.NewInventoryService(h.repos, h.uow, nil, inv, zap.NewNop())

	alpha, err := svc.CreateBoat(ctx, application.CreateBoatRequest{Name: "Alpha"})
	require.NoError(t, err)
	_, err = svc.CreateBoat(ctx, application.CreateBoatRequest{Name: "Bravo"})
	require.NoError(t, err)

	_, err = svc.CreateBoat(ctx, application.CreateBoatRequest{Name: "alpha"})
	assert.True(t, domain.IsConflict(err))

	count, err := svc.AvailableBoatCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = svc.UpdateBoatStatus(ctx, alpha.ID, "in_repair")
	require.NoError(t, err)
	_, err = svc.UpdateBoatStatus(ctx, alpha.ID, "sunk")
	assert.True(t, domain.IsValidation(err))

	count, err = svc.AvailableBoatCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.DeleteBoat(ctx, alpha.ID))
	assert.True(t, domain.IsNotFound(svc.DeleteBoat(ctx, alpha.ID)))

	// the name is free again once the boat is deleted
	_, err = svc.CreateBoat(ctx, application.CreateBoatRequest{Name: "Alpha"})
	require.NoError(t, err)

	boats, err := svc.ListBoats(ctx)
	require.NoError(t, err)
	assert.Len(t, boats, 2)
	assert.Equal(t, 5, inv.calls)
}

func TestInventory_AvailableBoatCountPrefersProvider(t *testing.T) {
	h := newHarness(t)
	svc := application.NewInventoryService(h.repos, h.uow, fixedCapacity(7), nil, zap.NewNop())

	count, err := svc.AvailableBoatCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestInventory_BatteryLifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	owned, err := h.inventory.CreateBattery(ctx, application.CreateBatteryRequest{Name: "Y", OwnerID: &h.userA})
	require.NoError(t, err)
	assert.Equal(t, "available", owned.Status)

	missingOwner := int64(9999)
	_, err = h.inventory.CreateBattery(ctx, application.CreateBatteryRequest{Name: "Z", OwnerID: &missingOwner})
	assert.True(t, domain.IsNotFound(err))

	updated, err := h.inventory.UpdateBatteryStatus(ctx, owned.ID, "reserve")
	require.NoError(t, err)
	assert.Equal(t, "reserve", updated.Status)

	require.NoError(t, h.inventory.DeleteBattery(ctx, owned.ID))
	batteries, err := h.inventory.ListBatteries(ctx)
	require.NoError(t, err)
	assert.Empty(t, batteries)
}

func TestPrices(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	created, err := h.prices.CreatePrice(ctx, application.CreatePriceRequest{AmountCents: 5000})
	require.NoError(t, err)
	assert.Equal(t, "EUR", created.Currency)

	current, err := h.prices.CurrentPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, current.ID)

	prices, err := h.prices.ListPrices(ctx)
	require.NoError(t, err)
	assert.Len(t, prices, 2)

	require.NoError(t, h.prices.DeletePrice(ctx, created.ID))
	current, err = h.prices.CurrentPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, h.priceID, current.ID)

	assert.True(t, domain.IsNotFound(h.prices.DeletePrice(ctx, created.ID)))

	_, err = h.prices.CreatePrice(ctx, application.CreatePriceRequest{AmountCents: -1})
	assert.True(t, domain.IsValidation(err))
}
