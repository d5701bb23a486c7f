package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	createBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ParkingService/pkg/jwtauth"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*createBooking.Response), args.Error(1)
}

func doRequest(h *Handler, ctx context.Context, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/book/", strings.NewReader(body))
	if ctx != nil {
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

const validBody = `{"site_id":1,"vehicle_type":"car","start_time":"2026-03-01T10:00:00","end_time":"2026-03-01T11:00:00"}`

func TestHandler_Success(t *testing.T) {
	uc := new(MockUseCase)
	h := NewHandler(uc, time.UTC, logger.NewNop())

	bookingID := uuid.New()
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *createBooking.Request) bool {
		return r.SiteID == 1 &&
			r.VehicleType == domain.VehicleCar &&
			r.StartTime.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)) &&
			r.UserID != nil && *r.UserID == "user-7"
	})).Return(&createBooking.Response{
		BookingID:   bookingID,
		OrderID:     "order_1",
		AmountMinor: 6000,
		Currency:    "INR",
		KeyID:       "rzp_test",
		TotalAmount: decimal.RequireFromString("60"),
	}, nil)

	claims := &jwtauth.Claims{}
	claims.Subject = "user-7"
	ctx := middleware.WithClaims(context.Background(), claims)

	rec := doRequest(h, ctx, validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, bookingID.String(), resp["booking_id"])
	assert.Equal(t, "order_1", resp["razorpay_order_id"])
	assert.Equal(t, float64(6000), resp["amount"])
	assert.Equal(t, "rzp_test", resp["razorpay_key"])
	assert.Contains(t, rec.Body.String(), `"total_amount":60.00`)
	uc.AssertExpectations(t)
}

func TestHandler_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"site_id":`},
		{name: "unknown field", body: `{"site_id":1,"foo":1}`},
		{name: "bad timestamp", body: `{"site_id":1,"vehicle_type":"car","start_time":"yesterday","end_time":"2026-03-01T11:00:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockUseCase)
			h := NewHandler(uc, time.UTC, logger.NewNop())

			rec := doRequest(h, nil, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input", fmt.Errorf("%w: %w", createBooking.ErrInvalidInput, domain.NewValidationError("end_time", "must be after start_time")), http.StatusBadRequest},
		{"site not found", createBooking.ErrSiteNotFound, http.StatusNotFound},
		{"price changed", createBooking.ErrPriceChanged, http.StatusConflict},
		{"tier not configured", createBooking.ErrTierNotConfigured, http.StatusUnprocessableEntity},
		{"unknown charge", createBooking.ErrUnknownOptionalCharge, http.StatusUnprocessableEntity},
		{"nothing to pay", createBooking.ErrNothingToPay, http.StatusUnprocessableEntity},
		{"gateway", createBooking.ErrPaymentGateway, http.StatusBadGateway},
		{"internal", createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockUseCase)
			h := NewHandler(uc, time.UTC, logger.NewNop())
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := doRequest(h, nil, validBody)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_ValidationMessageNamesField(t *testing.T) {
	uc := new(MockUseCase)
	h := NewHandler(uc, time.UTC, logger.NewNop())
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: %w", createBooking.ErrInvalidInput, domain.NewValidationError("end_time", "must be after start_time")))

	rec := doRequest(h, nil, validBody)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "end_time: must be after start_time", resp["message"])
}
