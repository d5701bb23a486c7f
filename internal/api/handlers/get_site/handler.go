package get_site

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/catalog"
)

const (
	msgInvalidSiteID = "некорректный ID парковки"
	msgSiteNotFound  = "парковка не найдена"
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

// Handle GET /api/v1/admin/sites/{siteId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	siteID, err := strconv.ParseInt(mux.Vars(r)["siteId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /admin/sites/{id} - Invalid site ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSiteID)
		return
	}

	site, err := h.service.GetSite(r.Context(), siteID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrSiteNotFound):
			h.logger.Warn("GET /admin/sites/{id} - Site not found: site_id=%d", siteID)
			handlers.RespondNotFound(w, msgSiteNotFound)

		default:
			h.logger.Error("GET /admin/sites/{id} - Failed to get site: site_id=%d, error=%v", siteID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/sites/{id} - Site retrieved successfully: site_id=%d", siteID)
	handlers.RespondJSON(w, http.StatusOK, site)
}
