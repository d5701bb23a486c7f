package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ListActiveOverlapping pending и paid бронирования, пересекающие [start, end)
	ListActiveOverlapping(ctx context.Context, siteID int64, vehicleType domain.VehicleType, start, end time.Time) ([]*domain.Booking, error)
}

// SiteRepository интерфейс репозитория парковок
type SiteRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Site, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
