package create_site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/catalog"
	"github.com/m04kA/SMC-ParkingService/internal/service/catalog/models"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateSite(ctx context.Context, req *models.CreateSiteRequest) (*models.SiteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SiteResponse), args.Error(1)
}

func doRequest(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/sites", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

const validBody = `{"site_name":"Phoenix Mall","location_name":"Whitefield","address":"ITPL Main Rd","pincode":"560066","lat":"12.9698","total_slots_car":40,"total_slots_bike":80}`

func TestHandler_Created(t *testing.T) {
	svc := new(MockCatalogService)
	h := NewHandler(svc, logger.NewNop())

	svc.On("CreateSite", mock.Anything, mock.MatchedBy(func(r *models.CreateSiteRequest) bool {
		return r.SiteName == "Phoenix Mall" &&
			r.LocationName == "Whitefield" &&
			r.Pincode != nil && *r.Pincode == "560066" &&
			r.Lat != nil && r.Lat.String() == "12.9698" &&
			r.Lng == nil &&
			r.TotalSlotsCar == 40 && r.TotalSlotsBike == 80
	})).Return(&models.SiteResponse{
		ID:             7,
		Name:           "Phoenix Mall",
		TotalSlotsCar:  40,
		TotalSlotsBike: 80,
		Pricings:       []models.PricingResponse{},
		Charges:        []models.ChargeResponse{},
	}, nil)

	rec := doRequest(h, validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.SiteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, 40, resp.TotalSlotsCar)
	svc.AssertExpectations(t)
}

func TestHandler_BadRequest(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		callsSvc bool
	}{
		{name: "malformed json", body: `{"site_name":`},
		{name: "unknown field", body: `{"site_name":"A","floors":3}`},
		{
			name:     "validation",
			body:     validBody,
			err:      fmt.Errorf("%w: %w", catalog.ErrInvalidInput, domain.NewValidationError("total_slots_car", "must not be negative")),
			callsSvc: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCatalogService)
			h := NewHandler(svc, logger.NewNop())
			if tt.callsSvc {
				svc.On("CreateSite", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			rec := doRequest(h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			if !tt.callsSvc {
				svc.AssertNotCalled(t, "CreateSite", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestHandler_InternalError(t *testing.T) {
	svc := new(MockCatalogService)
	h := NewHandler(svc, logger.NewNop())
	svc.On("CreateSite", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	rec := doRequest(h, validBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
