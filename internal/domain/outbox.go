package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OutboxStatus string

const (
	OutboxStatusNew        OutboxStatus = "new"
	OutboxStatusProcessing OutboxStatus = "processing"
	OutboxStatusProcessed  OutboxStatus = "processed"
	OutboxStatusFailed     OutboxStatus = "failed"
)

// Event types (routing keys)
const (
	EventBookingPaid = "booking.paid"
)

// OutboxEvent событие, ожидающее публикации в брокер
type OutboxEvent struct {
	ID        uuid.UUID
	EventType string
	Payload   []byte
	Status    OutboxStatus
	Attempts  int
	LastError *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingPaidPayload полезная нагрузка события booking.paid
type BookingPaidPayload struct {
	BookingID         uuid.UUID       `json:"booking_id"`
	UserID            *string         `json:"user_id,omitempty"`
	SiteID            int64           `json:"site_id"`
	VehicleType       VehicleType     `json:"vehicle_type"`
	StartTime         time.Time       `json:"start_time"`
	EndTime           time.Time       `json:"end_time"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	RazorpayOrderID   string          `json:"razorpay_order_id"`
	RazorpayPaymentID string          `json:"razorpay_payment_id"`
	PaidAt            time.Time       `json:"paid_at"`
}
