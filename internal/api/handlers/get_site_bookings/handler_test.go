package get_site_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ParkingService/internal/service/bookings"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) GetSiteBookings(ctx context.Context, req *models.GetSiteBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingListResponse), args.Error(1)
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/admin/sites/{siteId}/bookings", h.Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_Success(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	svc := new(MockBookingService)
	h := NewHandler(svc, loc, logger.NewNop())

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, loc)
	status := "paid"
	svc.On("GetSiteBookings", mock.Anything, &models.GetSiteBookingsRequest{SiteID: 5, Status: &status, Date: &day}).
		Return(&models.BookingListResponse{Bookings: []*models.BookingResponse{{ID: "b1", Status: "paid"}}}, nil)

	rec := serve(h, "/api/v1/admin/sites/5/bookings?status=paid&date=2025-03-01")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"b1"`)
	svc.AssertExpectations(t)
}

func TestHandler_InvalidParams(t *testing.T) {
	svc := new(MockBookingService)
	h := NewHandler(svc, time.UTC, logger.NewNop())

	for _, target := range []string{
		"/api/v1/admin/sites/abc/bookings",
		"/api/v1/admin/sites/1/bookings?date=01.03.2025",
	} {
		rec := serve(h, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	svc.AssertNotCalled(t, "GetSiteBookings", mock.Anything, mock.Anything)
}

func TestHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"invalid status", bookings.ErrInvalidInput, http.StatusBadRequest},
		{"internal", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBookingService)
			h := NewHandler(svc, time.UTC, logger.NewNop())
			svc.On("GetSiteBookings", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(h, "/api/v1/admin/sites/1/bookings?status=refunded")
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
