package create_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные параметры бронирования"
	msgSiteNotFound       = "парковка не найдена"
	msgTierNotConfigured  = "для выбранной длительности нет тарифа"
	msgUnknownCharge      = "неизвестная или неактивная дополнительная услуга"
	msgNothingToPay       = "сумма к оплате равна нулю"
	msgPriceChanged       = "цена изменилась, пересчитайте стоимость"
	msgPaymentGateway     = "платежный шлюз недоступен, повторите позже"
)

type Handler struct {
	useCase  CreateBookingUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateBookingUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/book/
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /book - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом временных меток)
	useCaseReq, err := req.ToUseCaseRequest(h.location, middleware.GetUserID(r.Context()))
	if err != nil {
		h.logger.Warn("POST /book - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err, msgInvalidInput))
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /book - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.ValidationMessage(err, msgInvalidInput))

		case errors.Is(err, createBooking.ErrSiteNotFound):
			h.logger.Warn("POST /book - Site not found: site_id=%d", req.SiteID)
			handlers.RespondNotFound(w, msgSiteNotFound)

		case errors.Is(err, createBooking.ErrPriceChanged):
			h.logger.Warn("POST /book - Price changed: site_id=%d, %v", req.SiteID, err)
			handlers.RespondConflict(w, msgPriceChanged)

		case errors.Is(err, createBooking.ErrTierNotConfigured):
			h.logger.Warn("POST /book - Tier not configured: site_id=%d", req.SiteID)
			handlers.RespondUnprocessable(w, msgTierNotConfigured)

		case errors.Is(err, createBooking.ErrUnknownOptionalCharge):
			h.logger.Warn("POST /book - Unknown optional charge: site_id=%d", req.SiteID)
			handlers.RespondUnprocessable(w, msgUnknownCharge)

		case errors.Is(err, createBooking.ErrNothingToPay):
			h.logger.Warn("POST /book - Nothing to pay: site_id=%d", req.SiteID)
			handlers.RespondUnprocessable(w, msgNothingToPay)

		case errors.Is(err, createBooking.ErrPaymentGateway):
			h.logger.Error("POST /book - Payment gateway failed: site_id=%d, error=%v", req.SiteID, err)
			handlers.RespondBadGateway(w, msgPaymentGateway)

		default:
			h.logger.Error("POST /book - Failed to create booking: site_id=%d, error=%v", req.SiteID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /book - Booking created successfully: booking_id=%s, order_id=%s",
		result.BookingID, result.OrderID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
