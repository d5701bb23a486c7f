package expire_bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/razorpay"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]*domain.Booking, error)
	Expire(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// OrderFetcher чтение статуса заказа в платежном шлюзе
type OrderFetcher interface {
	FetchOrder(ctx context.Context, orderID string) (*razorpay.Order, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics доменные счетчики
type Metrics interface {
	AddBookingsExpired(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
