package verify_payment

import (
	"time"

	"github.com/google/uuid"
)

// Request данные checkout, которые клиент получил от шлюза
type Request struct {
	BookingID uuid.UUID
	OrderID   string
	PaymentID string
	Signature string
}

// Response результат подтверждения оплаты
type Response struct {
	BookingID   uuid.UUID
	Status      string
	PaymentID   string
	PaidAt      time.Time
	AlreadyPaid bool // повторное подтверждение того же платежа
}
