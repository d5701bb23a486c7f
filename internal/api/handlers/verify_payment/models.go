package verify_payment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	verifyPayment "github.com/m04kA/SMC-ParkingService/internal/usecase/verify_payment"
)

// VerifyPaymentRequest поля, которые checkout Razorpay возвращает клиенту
type VerifyPaymentRequest struct {
	BookingID         string `json:"booking_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// VerifyPaymentResponse HTTP response model
type VerifyPaymentResponse struct {
	BookingID   string    `json:"booking_id"`
	Status      string    `json:"status"`
	PaymentID   string    `json:"razorpay_payment_id"`
	PaidAt      time.Time `json:"paid_at"`
	AlreadyPaid bool      `json:"already_paid"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *VerifyPaymentRequest) ToUseCaseRequest() (*verifyPayment.Request, error) {
	bookingID, err := uuid.Parse(r.BookingID)
	if err != nil {
		return nil, domain.NewValidationError("booking_id", "must be a valid UUID")
	}

	return &verifyPayment.Request{
		BookingID: bookingID,
		OrderID:   r.RazorpayOrderID,
		PaymentID: r.RazorpayPaymentID,
		Signature: r.RazorpaySignature,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *verifyPayment.Response) *VerifyPaymentResponse {
	return &VerifyPaymentResponse{
		BookingID:   resp.BookingID.String(),
		Status:      resp.Status,
		PaymentID:   resp.PaymentID,
		PaidAt:      resp.PaidAt,
		AlreadyPaid: resp.AlreadyPaid,
	}
}
