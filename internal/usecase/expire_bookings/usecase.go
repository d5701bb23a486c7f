package expire_bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/razorpay"
)

// UseCase перевод неоплаченных бронирований в expired по истечении окна оплаты
type UseCase struct {
	bookingRepo   BookingRepository
	orders        OrderFetcher
	txManager     TransactionManager
	metrics       Metrics
	logger        Logger
	paymentWindow time.Duration
	batchSize     int
}

func NewUseCase(
	bookingRepo BookingRepository,
	orders OrderFetcher,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	paymentWindow time.Duration,
	batchSize int,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		orders:        orders,
		txManager:     txManager,
		metrics:       metrics,
		logger:        logger,
		paymentWindow: paymentWindow,
		batchSize:     batchSize,
	}
}

// Execute обрабатывает одну пачку просроченных бронирований
// Статусы заказов сверяются со шлюзом без открытой транзакции,
// Expire обновляет только те строки, что все еще pending
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	deadline := req.Now.Add(-uc.paymentWindow)
	resp := &Response{}

	// 1. Кандидаты на истечение (без блокировок)
	stale, err := uc.bookingRepo.ListStalePending(ctx, deadline, uc.batchSize)
	if err != nil {
		uc.logger.Error("ExpireBookings: failed to list stale bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list stale bookings: %v", ErrInternal, err)
	}

	resp.Scanned = len(stale)
	if len(stale) == 0 {
		return resp, nil
	}

	// 2. Бронирования с заказом сверяем со шлюзом
	ids := make([]uuid.UUID, 0, len(stale))
	for _, b := range stale {
		if !b.CanExpire(deadline) {
			continue
		}
		if b.HasOrder() {
			skip, err := uc.isOrderPaid(ctx, b)
			if err != nil {
				resp.FetchFailed++
				continue
			}
			if skip {
				resp.SkippedPaid++
				continue
			}
		}
		ids = append(ids, b.ID)
	}

	if len(ids) == 0 {
		uc.logSweep(resp)
		return resp, nil
	}

	// 3. Короткое условное обновление pending -> expired
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		expired, err := uc.bookingRepo.Expire(txCtx, ids)
		if err != nil {
			return err
		}
		resp.Expired = int(expired)
		return nil
	})
	if err != nil {
		uc.logger.Error("ExpireBookings: failed to expire bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to expire bookings: %v", ErrInternal, err)
	}

	uc.metrics.AddBookingsExpired(resp.Expired)
	uc.logSweep(resp)
	return resp, nil
}

func (uc *UseCase) logSweep(resp *Response) {
	uc.logger.Info("ExpireBookings: scanned=%d, expired=%d, skipped_paid=%d, fetch_failed=%d",
		resp.Scanned, resp.Expired, resp.SkippedPaid, resp.FetchFailed)
}

// isOrderPaid true, если шлюз считает заказ оплаченным
// Неизвестный шлюзу заказ оплачен быть не может
func (uc *UseCase) isOrderPaid(ctx context.Context, b *domain.Booking) (bool, error) {
	order, err := uc.orders.FetchOrder(ctx, *b.RazorpayOrderID)
	if err != nil {
		if errors.Is(err, razorpay.ErrOrderNotFound) {
			return false, nil
		}
		uc.logger.Warn("ExpireBookings: failed to fetch order=%s for booking=%s: %v", *b.RazorpayOrderID, b.ID, err)
		return false, err
	}

	if order.IsPaid() {
		uc.logger.Warn("ExpireBookings: booking=%s has paid order=%s but no verification, skipping", b.ID, order.ID)
		return true, nil
	}
	return false, nil
}
