package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/razorpay"
	"github.com/m04kA/SMC-ParkingService/internal/service/pricing"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	AttachOrder(ctx context.Context, id uuid.UUID, orderID string) error
	Cancel(ctx context.Context, id uuid.UUID, reason string, cancelledAt time.Time) error
}

// SiteRepository интерфейс репозитория парковок
type SiteRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Site, error)
}

// PricingRepository интерфейс репозитория тарифов
type PricingRepository interface {
	ListBySite(ctx context.Context, siteID int64, vehicleType *domain.VehicleType) ([]*domain.Pricing, error)
}

// ChargeRepository интерфейс репозитория дополнительных услуг
type ChargeRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.OptionalCharge, error)
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error)
	KeyID() string
}

// PriceEngine расчет стоимости
type PriceEngine interface {
	Calculate(in pricing.Input) (*pricing.Breakdown, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics доменные счетчики
type Metrics interface {
	IncBookingsCreated(vehicleType string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
