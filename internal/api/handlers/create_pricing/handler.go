package create_pricing

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/catalog"
	"github.com/m04kA/SMC-ParkingService/internal/service/catalog/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные тарифа"
	msgSiteNotFound       = "парковка не найдена"
	msgDuplicate          = "цена для этой ступени уже задана"
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

// Handle POST /api/v1/admin/pricing
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePricingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/pricing - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	pricing, err := h.service.CreatePricing(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("POST /admin/pricing - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.ValidationMessage(err, msgInvalidInput))

		case errors.Is(err, catalog.ErrSiteNotFound):
			h.logger.Warn("POST /admin/pricing - Site not found: site_id=%d", req.SiteID)
			handlers.RespondNotFound(w, msgSiteNotFound)

		case errors.Is(err, catalog.ErrDuplicatePricing):
			h.logger.Warn("POST /admin/pricing - Duplicate pricing: site_id=%d, vehicle_type=%s, tier=%s",
				req.SiteID, req.VehicleType, req.Tier)
			handlers.RespondConflict(w, msgDuplicate)

		default:
			h.logger.Error("POST /admin/pricing - Failed to create pricing: site_id=%d, error=%v", req.SiteID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/pricing - Pricing created: pricing_id=%d, site_id=%d", pricing.ID, pricing.SiteID)
	handlers.RespondJSON(w, http.StatusCreated, pricing)
}
