package verify_payment

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const maxGatewayIDLength = 64

func validateRequest(req *Request) error {
	if req.BookingID == uuid.Nil {
		return invalid("booking_id", "is required")
	}
	if req.OrderID == "" {
		return invalid("razorpay_order_id", "is required")
	}
	if req.PaymentID == "" {
		return invalid("razorpay_payment_id", "is required")
	}
	if req.Signature == "" {
		return invalid("razorpay_signature", "is required")
	}
	if len(req.OrderID) > maxGatewayIDLength {
		return invalid("razorpay_order_id", "is too long")
	}
	if len(req.PaymentID) > maxGatewayIDLength {
		return invalid("razorpay_payment_id", "is too long")
	}
	return nil
}

func invalid(field, message string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError(field, message))
}
