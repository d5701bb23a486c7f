package create_booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	SiteID            int64
	VehicleType       domain.VehicleType
	StartTime         time.Time
	EndTime           time.Time
	OptionalChargeIDs []int64
	UserID            *string          // subject токена, nil для анонимного клиента
	QuotedTotal       *decimal.Decimal // сумма, которую видел клиент (опционально)
}

// Response данные для оплаты на клиенте
type Response struct {
	BookingID   uuid.UUID
	OrderID     string
	AmountMinor int64 // сумма в пайсах
	Currency    string
	KeyID       string // публичный ключ шлюза для checkout
	TotalAmount decimal.Decimal
}
