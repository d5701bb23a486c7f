package calculate_price

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/pricing"
)

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

// PriceEngine расчет стоимости
type PriceEngine interface {
	Calculate(in pricing.Input) (*pricing.Breakdown, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
