package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ParkingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-ParkingService/pkg/types"
)

const (
	msgInvalidSiteID    = "некорректный ID парковки"
	msgMissingTime      = "start_time и end_time обязательны"
	msgInvalidStartTime = "некорректный start_time"
	msgInvalidEndTime   = "некорректный end_time"
	msgInvalidInput     = "некорректные параметры запроса"
	msgSiteNotFound     = "парковка не найдена"
)

type Handler struct {
	useCase  GetAvailableSlotsUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/sites/{siteId}/availability
// Query params: vehicle_type (required), start_time, end_time (required, ISO-8601)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем siteId из URL
	vars := mux.Vars(r)
	siteID, err := strconv.ParseInt(vars["siteId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /sites/{id}/availability - Invalid site ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSiteID)
		return
	}

	query := r.URL.Query()
	startStr, endStr := query.Get("start_time"), query.Get("end_time")
	if startStr == "" || endStr == "" {
		h.logger.Warn("GET /sites/{id}/availability - Missing time window: site_id=%d", siteID)
		handlers.RespondBadRequest(w, msgMissingTime)
		return
	}

	start, err := types.ParseTimestamp(startStr, h.location)
	if err != nil {
		h.logger.Warn("GET /sites/{id}/availability - Invalid start_time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}
	end, err := types.ParseTimestamp(endStr, h.location)
	if err != nil {
		h.logger.Warn("GET /sites/{id}/availability - Invalid end_time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEndTime)
		return
	}

	useCaseReq := &getAvailableSlots.Request{
		SiteID:      siteID,
		VehicleType: domain.VehicleType(query.Get("vehicle_type")),
		StartTime:   start,
		EndTime:     end,
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /sites/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.ValidationMessage(err, msgInvalidInput))

		case errors.Is(err, getAvailableSlots.ErrSiteNotFound):
			h.logger.Warn("GET /sites/{id}/availability - Site not found: site_id=%d", siteID)
			handlers.RespondNotFound(w, msgSiteNotFound)

		default:
			h.logger.Error("GET /sites/{id}/availability - Failed to get availability: site_id=%d, error=%v", siteID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
