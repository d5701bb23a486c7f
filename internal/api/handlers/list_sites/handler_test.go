package list_sites

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/service/catalog/models"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListSites(ctx context.Context) (*models.SiteListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SiteListResponse), args.Error(1)
}

func doRequest(h *Handler) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/sites", nil))
	return rec
}

func TestHandler_Success(t *testing.T) {
	svc := new(MockCatalogService)
	h := NewHandler(svc, logger.NewNop())

	svc.On("ListSites", mock.Anything).Return(&models.SiteListResponse{
		Sites: []models.SiteResponse{
			{ID: 1, Name: "Phoenix Mall", Pricings: []models.PricingResponse{}, Charges: []models.ChargeResponse{}},
			{ID: 2, Name: "Orion", Pricings: []models.PricingResponse{}, Charges: []models.ChargeResponse{}},
		},
	}, nil)

	rec := doRequest(h)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp models.SiteListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Sites, 2)
	assert.Equal(t, "Orion", resp.Sites[1].Name)
}

func TestHandler_Empty(t *testing.T) {
	svc := new(MockCatalogService)
	h := NewHandler(svc, logger.NewNop())
	svc.On("ListSites", mock.Anything).Return(&models.SiteListResponse{Sites: []models.SiteResponse{}}, nil)

	rec := doRequest(h)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sites":[]}`, rec.Body.String())
}

func TestHandler_InternalError(t *testing.T) {
	svc := new(MockCatalogService)
	h := NewHandler(svc, logger.NewNop())
	svc.On("ListSites", mock.Anything).Return(nil, errors.New("db down"))

	rec := doRequest(h)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
