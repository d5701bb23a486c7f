package calculate_price

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	calculatePrice "github.com/m04kA/SMC-ParkingService/internal/usecase/calculate_price"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные параметры расчета"
	msgSiteNotFound       = "парковка не найдена"
	msgTierNotConfigured  = "для выбранной длительности нет тарифа"
	msgUnknownCharge      = "неизвестная или неактивная дополнительная услуга"
)

type Handler struct {
	useCase  CalculatePriceUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CalculatePriceUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/price/calculate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PriceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /price/calculate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(h.location)
	if err != nil {
		h.logger.Warn("POST /price/calculate - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err, msgInvalidInput))
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, calculatePrice.ErrInvalidInput):
			h.logger.Warn("POST /price/calculate - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.ValidationMessage(err, msgInvalidInput))

		case errors.Is(err, calculatePrice.ErrSiteNotFound):
			h.logger.Warn("POST /price/calculate - Site not found: site_id=%d", req.SiteID)
			handlers.RespondNotFound(w, msgSiteNotFound)

		case errors.Is(err, calculatePrice.ErrTierNotConfigured):
			h.logger.Warn("POST /price/calculate - Tier not configured: site_id=%d", req.SiteID)
			handlers.RespondUnprocessable(w, msgTierNotConfigured)

		case errors.Is(err, calculatePrice.ErrUnknownOptionalCharge):
			h.logger.Warn("POST /price/calculate - Unknown optional charge: site_id=%d", req.SiteID)
			handlers.RespondUnprocessable(w, msgUnknownCharge)

		default:
			h.logger.Error("POST /price/calculate - Failed to calculate price: site_id=%d, error=%v", req.SiteID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
