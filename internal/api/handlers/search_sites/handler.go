package search_sites

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/catalog"
	"github.com/m04kA/SMC-ParkingService/internal/service/catalog/models"
)

const (
	msgInvalidQuery = "некорректные параметры поиска"
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

// Handle GET /api/v1/sites/search?q=&pincode=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &models.SearchSitesRequest{
		Query:   query.Get("q"),
		Pincode: query.Get("pincode"),
	}

	result, err := h.service.SearchSites(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("GET /sites/search - Invalid query: %v", err)
			handlers.RespondBadRequest(w, handlers.ValidationMessage(err, msgInvalidQuery))

		default:
			h.logger.Error("GET /sites/search - Failed to search sites: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
