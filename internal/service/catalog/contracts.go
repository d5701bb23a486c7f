package catalog

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	GetOrCreate(ctx context.Context, loc *domain.Location) (*domain.Location, bool, error)
}

// SiteRepository интерфейс репозитория парковок
type SiteRepository interface {
	Create(ctx context.Context, site *domain.Site) (*domain.Site, error)
	GetByID(ctx context.Context, id int64) (*domain.Site, error)
	Search(ctx context.Context, filter domain.SiteSearchFilter) ([]*domain.Site, error)
	UpdateCapacity(ctx context.Context, id int64, slotsCar, slotsBike int) error
}

// PricingRepository интерфейс репозитория тарифов
type PricingRepository interface {
	Create(ctx context.Context, p *domain.Pricing) (*domain.Pricing, error)
	ListBySiteIDs(ctx context.Context, siteIDs []int64) ([]*domain.Pricing, error)
}

// ChargeRepository интерфейс репозитория дополнительных услуг
type ChargeRepository interface {
	Create(ctx context.Context, c *domain.OptionalCharge) (*domain.OptionalCharge, error)
	ListActiveForSites(ctx context.Context, siteIDs []int64) ([]*domain.OptionalCharge, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
