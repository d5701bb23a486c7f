package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Requester кто выполняет запрос
type Requester struct {
	UserID  *string // nil для анонимного клиента
	IsAdmin bool
}

// CanAccess проверяет доступ к бронированию
// Админ видит все, бронирование с пользователем доступно только ему
func (r Requester) CanAccess(b *domain.Booking) bool {
	if r.IsAdmin || b.UserID == nil {
		return true
	}
	return r.UserID != nil && b.IsOwnedBy(*r.UserID)
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// GetUserBookingsRequest фильтр истории бронирований пользователя
type GetUserBookingsRequest struct {
	UserID string
	Status *string
}

// GetSiteBookingsRequest фильтр бронирований площадки для админа
type GetSiteBookingsRequest struct {
	SiteID int64
	Status *string
	Date   *time.Time // начало суток в часовом поясе площадки
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 string      `json:"id"`
	UserID             *string     `json:"user_id,omitempty"`
	SiteID             int64       `json:"site_id"`
	VehicleType        string      `json:"vehicle_type"`
	StartTime          time.Time   `json:"start_time"`
	EndTime            time.Time   `json:"end_time"`
	DurationMinutes    int         `json:"duration_minutes"`
	BaseAmount         json.Number `json:"base_amount"`
	OptionalAmount     json.Number `json:"optional_amount"`
	TotalAmount        json.Number `json:"total_amount"`
	OptionalCharges    []int64     `json:"optional_charges"`
	Status             string      `json:"status"`
	RazorpayOrderID    *string     `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID  *string     `json:"razorpay_payment_id,omitempty"`
	CancellationReason *string     `json:"cancellation_reason,omitempty"`
	PaidAt             *time.Time  `json:"paid_at,omitempty"`
	CancelledAt        *time.Time  `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// Amount сумма для JSON: число с двумя знаками после запятой
func Amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(domain.AmountDecimalExp))
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	charges := b.OptionalChargeIDs
	if charges == nil {
		charges = []int64{}
	}

	return &BookingResponse{
		ID:                 b.ID.String(),
		UserID:             b.UserID,
		SiteID:             b.SiteID,
		VehicleType:        string(b.VehicleType),
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		DurationMinutes:    b.DurationMinutes,
		BaseAmount:         Amount(b.BaseAmount),
		OptionalAmount:     Amount(b.OptionalAmount),
		TotalAmount:        Amount(b.TotalAmount),
		OptionalCharges:    charges,
		Status:             string(b.Status),
		RazorpayOrderID:    b.RazorpayOrderID,
		RazorpayPaymentID:  b.RazorpayPaymentID,
		CancellationReason: b.CancellationReason,
		PaidAt:             b.PaidAt,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}
