package cancel_booking

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
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

func (m *MockBookingService) Cancel(ctx context.Context, id uuid.UUID, requester models.Requester, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	args := m.Called(ctx, id, requester, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingResponse), args.Error(1)
}

func serve(h *Handler, id string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/"+id+"/cancel", body)
	req = mux.SetURLVars(req, map[string]string{"bookingId": id})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_WithReason(t *testing.T) {
	svc := new(MockBookingService)
	h := NewHandler(svc, logger.NewNop())

	id := uuid.New()
	svc.On("Cancel", mock.Anything, id, models.Requester{}, &models.CancelBookingRequest{Reason: "plans changed"}).
		Return(&models.BookingResponse{ID: id.String(), Status: "cancelled"}, nil)

	rec := serve(h, id.String(), strings.NewReader(`{"reason":"plans changed"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
	svc.AssertExpectations(t)
}

func TestHandler_EmptyBody(t *testing.T) {
	svc := new(MockBookingService)
	h := NewHandler(svc, logger.NewNop())

	id := uuid.New()
	svc.On("Cancel", mock.Anything, id, models.Requester{}, &models.CancelBookingRequest{}).
		Return(&models.BookingResponse{ID: id.String(), Status: "cancelled"}, nil)

	rec := serve(h, id.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input", bookings.ErrInvalidInput, http.StatusBadRequest},
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"access denied", bookings.ErrAccessDenied, http.StatusForbidden},
		{"cannot cancel", bookings.ErrCannotCancel, http.StatusConflict},
		{"internal", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBookingService)
			h := NewHandler(svc, logger.NewNop())
			svc.On("Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(h, uuid.NewString(), strings.NewReader(`{}`))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
