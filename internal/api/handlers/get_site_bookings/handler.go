package get_site_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	service  BookingService
	location *time.Location
	logger   Logger
}

func NewHandler(service BookingService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/admin/sites/{siteId}/bookings
// Query params: status, date (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	siteIDStr := mux.Vars(r)["siteId"]

	serviceReq, err := ToServiceRequest(
		siteIDStr,
		r.URL.Query().Get("status"),
		r.URL.Query().Get("date"),
		h.location,
	)
	if err != nil {
		h.logger.Warn("GET /admin/sites/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetSiteBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /admin/sites/{id}/bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.ValidationMessage(err, msgInvalidParams))

		default:
			h.logger.Error("GET /admin/sites/{id}/bookings - Failed to get bookings: site_id=%d, error=%v",
				serviceReq.SiteID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/sites/{id}/bookings - Bookings retrieved successfully: site_id=%d, count=%d",
		serviceReq.SiteID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
