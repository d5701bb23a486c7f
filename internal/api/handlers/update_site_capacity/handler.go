package update_site_capacity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/catalog"
	"github.com/m04kA/SMC-ParkingService/internal/service/catalog/models"
)

const (
	msgInvalidSiteID      = "некорректный ID парковки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSiteNotFound       = "парковка не найдена"
	msgInvalidData        = "некорректное количество мест"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/sites/{siteId}/capacity
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	siteID, err := strconv.ParseInt(mux.Vars(r)["siteId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /admin/sites/{id}/capacity - Invalid site ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSiteID)
		return
	}

	var req models.UpdateCapacityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/sites/{id}/capacity - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateSiteCapacity(r.Context(), siteID, &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrSiteNotFound):
			h.logger.Warn("PATCH /admin/sites/{id}/capacity - Site not found: site_id=%d", siteID)
			handlers.RespondNotFound(w, msgSiteNotFound)

		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/sites/{id}/capacity - Invalid data: site_id=%d, error=%v", siteID, err)
			handlers.RespondBadRequest(w, handlers.ValidationMessage(err, msgInvalidData))

		default:
			h.logger.Error("PATCH /admin/sites/{id}/capacity - Failed to update site: site_id=%d, error=%v",
				siteID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/sites/{id}/capacity - Capacity updated successfully: site_id=%d, car=%d, bike=%d",
		siteID, result.TotalSlotsCar, result.TotalSlotsBike)
	handlers.RespondJSON(w, http.StatusOK, result)
}
