package create_booking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	createBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ParkingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SiteID          int64            `json:"site_id"`
	VehicleType     string           `json:"vehicle_type"`
	StartTime       string           `json:"start_time"`
	EndTime         string           `json:"end_time"`
	OptionalCharges []int64          `json:"optional_charges,omitempty"`
	QuotedTotal     *decimal.Decimal `json:"quoted_total,omitempty"` // сумма из /price/calculate
}

// BookingResponse данные для checkout Razorpay
type BookingResponse struct {
	BookingID       string      `json:"booking_id"`
	RazorpayOrderID string      `json:"razorpay_order_id"`
	Amount          int64       `json:"amount"` // в пайсах
	Currency        string      `json:"currency"`
	RazorpayKey     string      `json:"razorpay_key"`
	TotalAmount     json.Number `json:"total_amount"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(loc *time.Location, userID *string) (*createBooking.Request, error) {
	start, err := types.ParseTimestamp(r.StartTime, loc)
	if err != nil {
		return nil, domain.NewValidationError("start_time", fmt.Sprintf("invalid timestamp %q", r.StartTime))
	}
	end, err := types.ParseTimestamp(r.EndTime, loc)
	if err != nil {
		return nil, domain.NewValidationError("end_time", fmt.Sprintf("invalid timestamp %q", r.EndTime))
	}

	return &createBooking.Request{
		SiteID:            r.SiteID,
		VehicleType:       domain.VehicleType(r.VehicleType),
		StartTime:         start,
		EndTime:           end,
		OptionalChargeIDs: r.OptionalCharges,
		UserID:            userID,
		QuotedTotal:       r.QuotedTotal,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		BookingID:       resp.BookingID.String(),
		RazorpayOrderID: resp.OrderID,
		Amount:          resp.AmountMinor,
		Currency:        resp.Currency,
		RazorpayKey:     resp.KeyID,
		TotalAmount:     json.Number(resp.TotalAmount.StringFixed(domain.AmountDecimalExp)),
	}
}
