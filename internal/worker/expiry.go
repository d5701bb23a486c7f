package worker

import (
	"context"
	"time"

	expireBookings "github.com/m04kA/SMC-ParkingService/internal/usecase/expire_bookings"
)

// ExpiryWorker периодически переводит неоплаченные бронирования в expired
type ExpiryWorker struct {
	useCase      ExpireBookingsUseCase
	lock         Locker
	interval     time.Duration
	sweepTimeout time.Duration
	clock        TimeProvider
	logger       Logger
}

// NewExpiryWorker sweepTimeout должен быть меньше TTL блокировки, иначе второй инстанс начнет проход параллельно
func NewExpiryWorker(useCase ExpireBookingsUseCase, lock Locker, interval, sweepTimeout time.Duration, logger Logger) *ExpiryWorker {
	return &ExpiryWorker{
		useCase:      useCase,
		lock:         lock,
		interval:     interval,
		sweepTimeout: sweepTimeout,
		clock:        realTimeProvider{},
		logger:       logger,
	}
}

// Run блокируется до отмены ctx
func (w *ExpiryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Expiry worker started (interval: %s)", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Expiry worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce один проход под блокировкой
func (w *ExpiryWorker) RunOnce(ctx context.Context) {
	acquired, err := w.lock.TryAcquire(ctx)
	if err != nil {
		w.logger.Error("Expiry worker - failed to acquire lock: %v", err)
		return
	}
	if !acquired {
		return
	}
	defer func() {
		// ctx может быть уже отменен, снимаем блокировку отдельным контекстом
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.lock.Release(releaseCtx); err != nil {
			w.logger.Warn("Expiry worker - failed to release lock: %v", err)
		}
	}()

	sweepCtx, cancel := context.WithTimeout(ctx, w.sweepTimeout)
	defer cancel()

	resp, err := w.useCase.Execute(sweepCtx, &expireBookings.Request{Now: w.clock.Now()})
	if err != nil {
		w.logger.Error("Expiry worker - sweep failed: %v", err)
		return
	}

	if resp.Expired > 0 || resp.FetchFailed > 0 {
		w.logger.Info("Expiry worker - scanned=%d, expired=%d, skipped_paid=%d, fetch_failed=%d",
			resp.Scanned, resp.Expired, resp.SkippedPaid, resp.FetchFailed)
	}
}
