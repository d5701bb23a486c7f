package create_pricing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ParkingService/internal/service/catalog"
	"github.com/m04kA/SMC-ParkingService/internal/service/catalog/models"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreatePricing(ctx context.Context, req *models.CreatePricingRequest) (*models.PricingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PricingResponse), args.Error(1)
}

const pricingBody = `{"site_id":3,"vehicle_type":"car","tier":"0_2","price":"60"}`

func TestHandler_Created(t *testing.T) {
	svc := new(MockCatalogService)
	h := NewHandler(svc, logger.NewNop())

	svc.On("CreatePricing", mock.Anything, mock.MatchedBy(func(r *models.CreatePricingRequest) bool {
		return r.SiteID == 3 && r.Tier == "0_2" && r.Price.Equal(decimal.NewFromInt(60))
	})).Return(&models.PricingResponse{ID: 11, SiteID: 3, VehicleType: "car", Tier: "0_2", Price: "60.00"}, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/pricing", strings.NewReader(pricingBody)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price":60.00`)
	svc.AssertExpectations(t)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid", fmt.Errorf("%w: bad tier", catalog.ErrInvalidInput), http.StatusBadRequest},
		{"site not found", catalog.ErrSiteNotFound, http.StatusNotFound},
		{"duplicate", catalog.ErrDuplicatePricing, http.StatusConflict},
		{"internal", catalog.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCatalogService)
			h := NewHandler(svc, logger.NewNop())
			svc.On("CreatePricing", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/pricing", strings.NewReader(pricingBody)))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
