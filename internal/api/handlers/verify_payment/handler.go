package verify_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	verifyPayment "github.com/m04kA/SMC-ParkingService/internal/usecase/verify_payment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные платежа"
	msgNotFound           = "бронирование не найдено"
	msgNotPending         = "бронирование не ожидает оплаты"
	msgAlreadyFinalized   = "бронирование уже оплачено другим платежом"
	msgOrderMismatch      = "заказ не соответствует бронированию"
	msgSignatureInvalid   = "неверная подпись платежа"
)

type Handler struct {
	useCase VerifyPaymentUseCase
	logger  Logger
}

func NewHandler(useCase VerifyPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payment/verify/
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payment/verify - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /payment/verify - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err, msgInvalidInput))
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, verifyPayment.ErrInvalidInput):
			h.logger.Warn("POST /payment/verify - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.ValidationMessage(err, msgInvalidInput))

		case errors.Is(err, verifyPayment.ErrBookingNotFound):
			h.logger.Warn("POST /payment/verify - Booking not found: booking_id=%s", req.BookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, verifyPayment.ErrSignatureInvalid):
			h.logger.Warn("POST /payment/verify - Signature rejected: booking_id=%s, order_id=%s",
				req.BookingID, req.RazorpayOrderID)
			handlers.RespondBadRequest(w, msgSignatureInvalid)

		case errors.Is(err, verifyPayment.ErrOrderMismatch):
			h.logger.Warn("POST /payment/verify - Order mismatch: booking_id=%s, order_id=%s",
				req.BookingID, req.RazorpayOrderID)
			handlers.RespondBadRequest(w, msgOrderMismatch)

		case errors.Is(err, verifyPayment.ErrAlreadyFinalized):
			h.logger.Warn("POST /payment/verify - Already paid by another payment: booking_id=%s", req.BookingID)
			handlers.RespondConflict(w, msgAlreadyFinalized)

		case errors.Is(err, verifyPayment.ErrBookingNotPending):
			h.logger.Warn("POST /payment/verify - Booking not pending: booking_id=%s", req.BookingID)
			handlers.RespondConflict(w, msgNotPending)

		default:
			h.logger.Error("POST /payment/verify - Failed to verify payment: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payment/verify - Payment verified: booking_id=%s, payment_id=%s, already_paid=%t",
		result.BookingID, result.PaymentID, result.AlreadyPaid)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
