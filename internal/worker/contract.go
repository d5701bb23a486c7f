package worker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	expireBookings "github.com/m04kA/SMC-ParkingService/internal/usecase/expire_bookings"
)

type ExpireBookingsUseCase interface {
	Execute(ctx context.Context, req *expireBookings.Request) (*expireBookings.Response, error)
}

// Locker не дает нескольким инстансам выполнять один и тот же проход
type Locker interface {
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type OutboxRepository interface {
	FetchBatch(ctx context.Context, limit int, staleAfter time.Duration) ([]*domain.OutboxEvent, error)
	MarkProcessed(ctx context.Context, ids []uuid.UUID) error
	MarkFailed(ctx context.Context, ids []uuid.UUID, maxAttempts int, lastError string) error
}

type Publisher interface {
	Publish(ctx context.Context, key, messageID string, body []byte) error
}

type Metrics interface {
	IncOutboxEvents(result string)
}

type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
