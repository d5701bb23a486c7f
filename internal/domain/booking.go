package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusPaid      BookingStatus = "paid"
	StatusCancelled BookingStatus = "cancelled"
	StatusExpired   BookingStatus = "expired"
)

// Booking represents a parking slot reservation
// paid, cancelled и expired - терминальные статусы, оплаченное бронирование неизменяемо
type Booking struct {
	ID          uuid.UUID
	UserID      *string // subject bearer-токена, nil для анонимного бронирования
	SiteID      int64
	VehicleType VehicleType
	StartTime   time.Time
	EndTime     time.Time

	DurationMinutes int
	BaseAmount      decimal.Decimal
	OptionalAmount  decimal.Decimal
	TotalAmount     decimal.Decimal

	// OptionalChargeIDs опции, вошедшие в цену
	OptionalChargeIDs []int64

	Status BookingStatus

	RazorpayOrderID   *string
	RazorpayPaymentID *string
	RazorpaySignature *string

	CancellationReason *string
	PaidAt             *time.Time
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusPaid || b.Status == StatusCancelled || b.Status == StatusExpired
}

// CanBePaid returns true if the booking is waiting for payment
func (b *Booking) CanBePaid() bool {
	return b.Status == StatusPending
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending
}

// CanExpire returns true if the booking was created before the deadline and is still unpaid
func (b *Booking) CanExpire(deadline time.Time) bool {
	return b.Status == StatusPending && b.CreatedAt.Before(deadline)
}

// HasOrder returns true once the gateway order id is attached
func (b *Booking) HasOrder() bool {
	return b.RazorpayOrderID != nil && *b.RazorpayOrderID != ""
}

// IsPaidWith returns true if the booking was paid by the given gateway payment
func (b *Booking) IsPaidWith(paymentID string) bool {
	return b.Status == StatusPaid && b.RazorpayPaymentID != nil && *b.RazorpayPaymentID == paymentID
}

// IsOwnedBy проверяет доступ пользователя к бронированию
// Анонимное бронирование доступно любому, кто знает его ID
func (b *Booking) IsOwnedBy(userID string) bool {
	return b.UserID == nil || *b.UserID == userID
}

// AmountMinor сумма к оплате в минимальных единицах валюты (пайсы)
func (b *Booking) AmountMinor() int64 {
	return ToMinorUnits(b.TotalAmount)
}

// ToMinorUnits round(amount × 100)
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// BookingsFilter фильтр списка бронирований
// nil-поля не ограничивают выборку
type BookingsFilter struct {
	UserID    *string
	SiteID    *int64
	Status    *BookingStatus
	StartFrom *time.Time // start_time >= StartFrom
	StartTo   *time.Time // start_time < StartTo
	Limit     int
}
