package calculate_price

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	siteRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/site"
	"github.com/m04kA/SMC-ParkingService/internal/service/pricing"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type mockSiteRepo struct{ mock.Mock }

func (m *mockSiteRepo) GetByID(ctx context.Context, id int64) (*domain.Site, error) {
	args := m.Called(ctx, id)
	site, _ := args.Get(0).(*domain.Site)
	return site, args.Error(1)
}

type mockPricingRepo struct{ mock.Mock }

func (m *mockPricingRepo) ListBySite(ctx context.Context, siteID int64, vehicleType *domain.VehicleType) ([]*domain.Pricing, error) {
	args := m.Called(ctx, siteID, vehicleType)
	pricings, _ := args.Get(0).([]*domain.Pricing)
	return pricings, args.Error(1)
}

type mockChargeRepo struct{ mock.Mock }

func (m *mockChargeRepo) GetByIDs(ctx context.Context, ids []int64) ([]*domain.OptionalCharge, error) {
	args := m.Called(ctx, ids)
	charges, _ := args.Get(0).([]*domain.OptionalCharge)
	return charges, args.Error(1)
}

var start = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newUseCase() (*UseCase, *mockSiteRepo, *mockPricingRepo, *mockChargeRepo) {
	sites := &mockSiteRepo{}
	pricings := &mockPricingRepo{}
	charges := &mockChargeRepo{}
	uc := NewUseCase(sites, pricings, charges, pricing.NewEngine(pricing.DefaultPolicy()), logger.NewNop())
	return uc, sites, pricings, charges
}

func carPricings() []*domain.Pricing {
	return []*domain.Pricing{
		{SiteID: 1, VehicleType: domain.VehicleCar, Tier: domain.TierUpTo2h, Price: decimal.RequireFromString("60")},
		{SiteID: 1, VehicleType: domain.VehicleCar, Tier: domain.TierFullDay, Price: decimal.RequireFromString("160")},
	}
}

func TestExecute_OneHourCar(t *testing.T) {
	uc, sites, pricings, charges := newUseCase()

	sites.On("GetByID", mock.Anything, int64(1)).Return(&domain.Site{ID: 1}, nil)
	pricings.On("ListBySite", mock.Anything, int64(1), mock.Anything).Return(carPricings(), nil)
	charges.On("GetByIDs", mock.Anything, []int64(nil)).Return([]*domain.OptionalCharge{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{
		SiteID:      1,
		VehicleType: domain.VehicleCar,
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "60.00", resp.BaseAmount.StringFixed(2))
	assert.Equal(t, "0.00", resp.OptionalAmount.StringFixed(2))
	assert.Equal(t, "60.00", resp.TotalAmount.StringFixed(2))
}

func TestExecute_ThirtyHoursWithCharge(t *testing.T) {
	uc, sites, pricings, charges := newUseCase()

	sites.On("GetByID", mock.Anything, int64(1)).Return(&domain.Site{ID: 1}, nil)
	pricings.On("ListBySite", mock.Anything, int64(1), mock.Anything).Return(carPricings(), nil)
	charges.On("GetByIDs", mock.Anything, []int64{9}).Return([]*domain.OptionalCharge{
		{ID: 9, Amount: decimal.RequireFromString("49.99"), IsActive: true},
	}, nil)

	resp, err := uc.Execute(context.Background(), &Request{
		SiteID:            1,
		VehicleType:       domain.VehicleCar,
		StartTime:         start,
		EndTime:           start.Add(30 * time.Hour),
		OptionalChargeIDs: []int64{9},
	})
	require.NoError(t, err)

	assert.Equal(t, "320.00", resp.BaseAmount.StringFixed(2))
	assert.Equal(t, "369.99", resp.TotalAmount.StringFixed(2))
	assert.Equal(t, 2, resp.Days)
}

func TestExecute_Errors(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		uc, _, _, _ := newUseCase()

		_, err := uc.Execute(context.Background(), &Request{SiteID: 1, VehicleType: "truck", StartTime: start, EndTime: start.Add(time.Hour)})
		assert.ErrorIs(t, err, ErrInvalidInput)

		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "vehicle_type", vErr.Field)

		_, err = uc.Execute(context.Background(), &Request{SiteID: 1, VehicleType: domain.VehicleCar, StartTime: start, EndTime: start})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("site not found", func(t *testing.T) {
		uc, sites, _, _ := newUseCase()
		sites.On("GetByID", mock.Anything, int64(2)).Return(nil, siteRepo.ErrSiteNotFound)

		_, err := uc.Execute(context.Background(), &Request{SiteID: 2, VehicleType: domain.VehicleCar, StartTime: start, EndTime: start.Add(time.Hour)})
		assert.ErrorIs(t, err, ErrSiteNotFound)
	})

	t.Run("tier not configured", func(t *testing.T) {
		uc, sites, pricings, charges := newUseCase()
		sites.On("GetByID", mock.Anything, int64(1)).Return(&domain.Site{ID: 1}, nil)
		pricings.On("ListBySite", mock.Anything, int64(1), mock.Anything).Return(carPricings(), nil)
		charges.On("GetByIDs", mock.Anything, mock.Anything).Return([]*domain.OptionalCharge{}, nil)

		_, err := uc.Execute(context.Background(), &Request{SiteID: 1, VehicleType: domain.VehicleCar, StartTime: start, EndTime: start.Add(3 * time.Hour)})
		assert.ErrorIs(t, err, ErrTierNotConfigured)
	})
}
