package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	chargeRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/charge"
	pricingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/pricing"
	siteRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/site"
	"github.com/m04kA/SMC-ParkingService/internal/service/catalog/models"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

type mockLocationRepo struct{ mock.Mock }

func (m *mockLocationRepo) GetOrCreate(ctx context.Context, loc *domain.Location) (*domain.Location, bool, error) {
	args := m.Called(ctx, loc)
	l, _ := args.Get(0).(*domain.Location)
	return l, args.Bool(1), args.Error(2)
}

type mockSiteRepo struct{ mock.Mock }

func (m *mockSiteRepo) Create(ctx context.Context, site *domain.Site) (*domain.Site, error) {
	args := m.Called(ctx, site)
	site.ID = 10
	return site, args.Error(0)
}

func (m *mockSiteRepo) GetByID(ctx context.Context, id int64) (*domain.Site, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Site)
	return s, args.Error(1)
}

func (m *mockSiteRepo) UpdateCapacity(ctx context.Context, id int64, slotsCar, slotsBike int) error {
	return m.Called(ctx, id, slotsCar, slotsBike).Error(0)
}

func (m *mockSiteRepo) Search(ctx context.Context, filter domain.SiteSearchFilter) ([]*domain.Site, error) {
	args := m.Called(ctx, filter)
	s, _ := args.Get(0).([]*domain.Site)
	return s, args.Error(1)
}

type mockPricingRepo struct{ mock.Mock }

func (m *mockPricingRepo) Create(ctx context.Context, p *domain.Pricing) (*domain.Pricing, error) {
	args := m.Called(ctx, p)
	p.ID = 7
	return p, args.Error(0)
}

func (m *mockPricingRepo) ListBySiteIDs(ctx context.Context, ids []int64) ([]*domain.Pricing, error) {
	args := m.Called(ctx, ids)
	p, _ := args.Get(0).([]*domain.Pricing)
	return p, args.Error(1)
}

type mockChargeRepo struct{ mock.Mock }

func (m *mockChargeRepo) Create(ctx context.Context, c *domain.OptionalCharge) (*domain.OptionalCharge, error) {
	args := m.Called(ctx, c)
	c.ID = 3
	return c, args.Error(0)
}

func (m *mockChargeRepo) ListActiveForSites(ctx context.Context, ids []int64) ([]*domain.OptionalCharge, error) {
	args := m.Called(ctx, ids)
	c, _ := args.Get(0).([]*domain.OptionalCharge)
	return c, args.Error(1)
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

func (inlineTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc       *Service
	locations *mockLocationRepo
	sites     *mockSiteRepo
	pricings  *mockPricingRepo
	charges   *mockChargeRepo
}

func newFixture() *fixture {
	f := &fixture{
		locations: &mockLocationRepo{},
		sites:     &mockSiteRepo{},
		pricings:  &mockPricingRepo{},
		charges:   &mockChargeRepo{},
	}
	f.svc = NewService(f.locations, f.sites, f.pricings, f.charges, inlineTx{}, logger.NewNop())
	return f
}

func TestSearchSites_EnrichesWithPricingAndCharges(t *testing.T) {
	f := newFixture()

	sites := []*domain.Site{
		{ID: 1, Name: "Mall", Location: &domain.Location{ID: 1, Name: "Koramangala"}},
		{ID: 2, Name: "Station", Location: &domain.Location{ID: 1, Name: "Koramangala"}},
	}
	f.sites.On("Search", mock.Anything, domain.SiteSearchFilter{Query: "kora", Pincode: "5600"}).Return(sites, nil)
	f.pricings.On("ListBySiteIDs", mock.Anything, []int64{1, 2}).Return([]*domain.Pricing{
		{ID: 1, SiteID: 1, VehicleType: domain.VehicleCar, Tier: domain.TierUpTo2h, Price: decimal.RequireFromString("60")},
	}, nil)
	f.charges.On("ListActiveForSites", mock.Anything, []int64{1, 2}).Return([]*domain.OptionalCharge{
		{ID: 5, SiteID: ptr.Ptr(int64(2)), Name: "Wash", Amount: decimal.RequireFromString("100"), IsActive: true},
		{ID: 6, Name: "EV", Amount: decimal.RequireFromString("49.5"), IsActive: true},
	}, nil)

	resp, err := f.svc.SearchSites(context.Background(), &models.SearchSitesRequest{Query: "kora", Pincode: "5600"})
	require.NoError(t, err)
	require.Len(t, resp.Sites, 2)

	assert.Len(t, resp.Sites[0].Pricings, 1)
	assert.Equal(t, "60.00", resp.Sites[0].Pricings[0].Price.String())
	assert.Len(t, resp.Sites[0].Charges, 1)
	assert.Len(t, resp.Sites[1].Charges, 2)
	assert.Empty(t, resp.Sites[1].Pricings)

	raw, err := json.Marshal(resp.Sites[1])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"amount":49.50`)
	assert.Contains(t, string(raw), `"pricings":[]`)
}

func TestSearchSites_Empty(t *testing.T) {
	f := newFixture()
	f.sites.On("Search", mock.Anything, domain.SiteSearchFilter{}).Return([]*domain.Site{}, nil)

	resp, err := f.svc.ListSites(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.Sites)
	f.pricings.AssertNotCalled(t, "ListBySiteIDs", mock.Anything, mock.Anything)
}

func TestCreateSite(t *testing.T) {
	f := newFixture()

	location := &domain.Location{ID: 4, Name: "Indiranagar"}
	f.locations.On("GetOrCreate", mock.Anything, mock.MatchedBy(func(l *domain.Location) bool {
		return l.Name == "Indiranagar" && l.Lat.Valid
	})).Return(location, true, nil)
	f.sites.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Site) bool {
		return s.LocationID == 4 && s.Name == "Metro Parking" && s.TotalSlotsCar == 40
	})).Return(nil)

	resp, err := f.svc.CreateSite(context.Background(), &models.CreateSiteRequest{
		SiteName:       "  Metro Parking ",
		LocationName:   "Indiranagar",
		Address:        "100 Feet Road",
		Lat:            ptr.Ptr(decimal.RequireFromString("12.9719")),
		Lng:            ptr.Ptr(decimal.RequireFromString("77.6412")),
		TotalSlotsCar:  40,
		TotalSlotsBike: 80,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "Indiranagar", resp.Location.Name)
	assert.Equal(t, "12.9719", resp.Lat.String())
}

func TestCreateSite_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateSite(context.Background(), &models.CreateSiteRequest{LocationName: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateSite(context.Background(), &models.CreateSiteRequest{
		SiteName: "a", LocationName: "b", Address: "c", Lat: ptr.Ptr(decimal.NewFromInt(91)),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreatePricing(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		f := newFixture()
		f.pricings.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.CreatePricing(context.Background(), &models.CreatePricingRequest{
			SiteID: 1, VehicleType: "bike", Tier: "full_day", Price: decimal.RequireFromString("40"),
		})
		require.NoError(t, err)
		assert.Equal(t, "40.00", resp.Price.String())
	})

	t.Run("duplicate", func(t *testing.T) {
		f := newFixture()
		f.pricings.On("Create", mock.Anything, mock.Anything).Return(pricingRepo.ErrDuplicatePricing)

		_, err := f.svc.CreatePricing(context.Background(), &models.CreatePricingRequest{
			SiteID: 1, VehicleType: "car", Tier: "0_2", Price: decimal.RequireFromString("60"),
		})
		assert.ErrorIs(t, err, ErrDuplicatePricing)
	})

	t.Run("site not found", func(t *testing.T) {
		f := newFixture()
		f.pricings.On("Create", mock.Anything, mock.Anything).Return(pricingRepo.ErrSiteNotFound)

		_, err := f.svc.CreatePricing(context.Background(), &models.CreatePricingRequest{
			SiteID: 99, VehicleType: "car", Tier: "0_2", Price: decimal.RequireFromString("60"),
		})
		assert.ErrorIs(t, err, ErrSiteNotFound)
	})

	t.Run("bad tier", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.CreatePricing(context.Background(), &models.CreatePricingRequest{
			SiteID: 1, VehicleType: "car", Tier: "weekly", Price: decimal.RequireFromString("60"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestCreateOptionalCharge(t *testing.T) {
	t.Run("active by default", func(t *testing.T) {
		f := newFixture()
		f.charges.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.OptionalCharge) bool {
			return c.IsActive && c.SiteID == nil
		})).Return(nil)

		resp, err := f.svc.CreateOptionalCharge(context.Background(), &models.CreateChargeRequest{
			Name: "EV charging", Amount: decimal.RequireFromString("75"),
		})
		require.NoError(t, err)
		assert.True(t, resp.IsActive)
		assert.Equal(t, int64(3), resp.ID)
	})

	t.Run("site not found", func(t *testing.T) {
		f := newFixture()
		f.charges.On("Create", mock.Anything, mock.Anything).Return(chargeRepo.ErrSiteNotFound)

		_, err := f.svc.CreateOptionalCharge(context.Background(), &models.CreateChargeRequest{
			SiteID: ptr.Ptr(int64(5)), Name: "Wash", Amount: decimal.RequireFromString("100"),
		})
		assert.ErrorIs(t, err, ErrSiteNotFound)
	})

	t.Run("too many decimals", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.CreateOptionalCharge(context.Background(), &models.CreateChargeRequest{
			Name: "Wash", Amount: decimal.RequireFromString("10.005"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestGetSite(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture()
		f.sites.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.Site{ID: 1, Name: "Mall", TotalSlotsCar: 10, Location: &domain.Location{ID: 1, Name: "Koramangala"}}, nil)
		f.pricings.On("ListBySiteIDs", mock.Anything, []int64{1}).Return([]*domain.Pricing{}, nil)
		f.charges.On("ListActiveForSites", mock.Anything, []int64{1}).Return([]*domain.OptionalCharge{}, nil)

		resp, err := f.svc.GetSite(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Mall", resp.Name)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.sites.On("GetByID", mock.Anything, int64(9)).Return(nil, siteRepo.ErrSiteNotFound)

		_, err := f.svc.GetSite(context.Background(), 9)
		assert.ErrorIs(t, err, ErrSiteNotFound)
	})
}

func TestUpdateSiteCapacity(t *testing.T) {
	t.Run("partial update keeps other value", func(t *testing.T) {
		f := newFixture()
		f.sites.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.Site{ID: 1, Name: "Mall", TotalSlotsCar: 10, TotalSlotsBike: 4}, nil)
		f.sites.On("UpdateCapacity", mock.Anything, int64(1), 25, 4).Return(nil)
		f.pricings.On("ListBySiteIDs", mock.Anything, []int64{1}).Return([]*domain.Pricing{}, nil)
		f.charges.On("ListActiveForSites", mock.Anything, []int64{1}).Return([]*domain.OptionalCharge{}, nil)

		resp, err := f.svc.UpdateSiteCapacity(context.Background(), 1, &models.UpdateCapacityRequest{TotalSlotsCar: ptr.Ptr(25)})
		require.NoError(t, err)
		assert.Equal(t, 25, resp.TotalSlotsCar)
		assert.Equal(t, 4, resp.TotalSlotsBike)
		f.sites.AssertExpectations(t)
	})

	t.Run("empty request", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.UpdateSiteCapacity(context.Background(), 1, &models.UpdateCapacityRequest{})
		assert.ErrorIs(t, err, ErrInvalidInput)
		f.sites.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("negative value", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.UpdateSiteCapacity(context.Background(), 1, &models.UpdateCapacityRequest{TotalSlotsBike: ptr.Ptr(-1)})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("site not found", func(t *testing.T) {
		f := newFixture()
		f.sites.On("GetByID", mock.Anything, int64(5)).Return(nil, siteRepo.ErrSiteNotFound)

		_, err := f.svc.UpdateSiteCapacity(context.Background(), 5, &models.UpdateCapacityRequest{TotalSlotsCar: ptr.Ptr(1)})
		assert.ErrorIs(t, err, ErrSiteNotFound)
	})
}
