package create_charge

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/catalog"
	"github.com/m04kA/SMC-ParkingService/internal/service/catalog/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные услуги"
	msgSiteNotFound       = "парковка не найдена"
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

// Handle POST /api/v1/admin/charges
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateChargeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/charges - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	charge, err := h.service.CreateOptionalCharge(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("POST /admin/charges - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.ValidationMessage(err, msgInvalidInput))

		case errors.Is(err, catalog.ErrSiteNotFound):
			h.logger.Warn("POST /admin/charges - Site not found")
			handlers.RespondNotFound(w, msgSiteNotFound)

		default:
			h.logger.Error("POST /admin/charges - Failed to create charge: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/charges - Charge created: charge_id=%d", charge.ID)
	handlers.RespondJSON(w, http.StatusCreated, charge)
}
