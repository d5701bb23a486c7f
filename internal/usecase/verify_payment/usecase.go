package verify_payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
)

// Результаты для метрики payments_verified
const (
	resultPaid        = "paid"
	resultAlreadyPaid = "already_paid"
	resultRejected    = "rejected"
)

// UseCase подтверждение оплаты бронирования
// Идемпотентен: повтор с тем же payment id возвращает прежний успех без записи нового события
type UseCase struct {
	bookingRepo  BookingRepository
	outboxRepo   OutboxRepository
	verifier     SignatureVerifier
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

func NewUseCase(
	bookingRepo BookingRepository,
	outboxRepo OutboxRepository,
	verifier SignatureVerifier,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		outboxRepo:   outboxRepo,
		verifier:     verifier,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute проверяет подпись и переводит бронирование в paid
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("VerifyPayment: booking=%s, order=%s, payment=%s", req.BookingID, req.OrderID, req.PaymentID)

	// 1. Валидация
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("VerifyPayment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование
	booking, err := uc.getBooking(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Проверяем статус
	if resp, err := uc.checkStatus(booking, req); resp != nil || err != nil {
		return resp, err
	}

	// 4. Order id должен совпадать с сохраненным
	if !booking.HasOrder() || *booking.RazorpayOrderID != req.OrderID {
		uc.logger.Warn("VerifyPayment: order mismatch for booking=%s: got %s", req.BookingID, req.OrderID)
		uc.metrics.IncPaymentsVerified(resultRejected)
		return nil, ErrOrderMismatch
	}

	// 5. Проверяем подпись
	if err := uc.verifier.VerifyPaymentSignature(req.OrderID, req.PaymentID, req.Signature); err != nil {
		uc.logger.Warn("VerifyPayment: signature check failed for booking=%s: %v", req.BookingID, err)
		uc.metrics.IncPaymentsVerified(resultRejected)
		return nil, ErrSignatureInvalid
	}

	// 6. pending -> paid и событие booking.paid в одной транзакции
	paidAt := uc.timeProvider.Now()
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.MarkPaid(txCtx, booking.ID, req.OrderID, req.PaymentID, req.Signature, paidAt); err != nil {
			return err
		}

		event, err := newBookingPaidEvent(booking, req, paidAt)
		if err != nil {
			return err
		}

		return uc.outboxRepo.Create(txCtx, event)
	})

	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			// 6.1. Проиграли гонку: перечитываем и применяем правила статуса
			uc.logger.Warn("VerifyPayment: booking=%s changed concurrently, re-reading", req.BookingID)
			return uc.resolveConflict(ctx, req)
		}
		uc.logger.Error("VerifyPayment: failed to mark booking=%s paid: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to mark paid: %v", ErrInternal, err)
	}

	uc.metrics.IncPaymentsVerified(resultPaid)
	uc.logger.Info("VerifyPayment: booking=%s paid with payment=%s", req.BookingID, req.PaymentID)

	return &Response{
		BookingID: booking.ID,
		Status:    string(domain.StatusPaid),
		PaymentID: req.PaymentID,
		PaidAt:    paidAt,
	}, nil
}

func (uc *UseCase) getBooking(ctx context.Context, req *Request) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("VerifyPayment: booking=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("VerifyPayment: failed to get booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

// checkStatus возвращает ответ для уже оплаченного тем же платежом бронирования
// или ошибку для терминальных статусов. (nil, nil) - бронирование ждет оплаты.
func (uc *UseCase) checkStatus(booking *domain.Booking, req *Request) (*Response, error) {
	if booking.CanBePaid() {
		return nil, nil
	}

	if booking.IsPaidWith(req.PaymentID) {
		uc.logger.Info("VerifyPayment: booking=%s already paid with payment=%s", req.BookingID, req.PaymentID)
		uc.metrics.IncPaymentsVerified(resultAlreadyPaid)

		resp := &Response{
			BookingID:   booking.ID,
			Status:      string(booking.Status),
			PaymentID:   req.PaymentID,
			AlreadyPaid: true,
		}
		if booking.PaidAt != nil {
			resp.PaidAt = *booking.PaidAt
		}
		return resp, nil
	}

	if booking.Status == domain.StatusPaid {
		uc.logger.Warn("VerifyPayment: booking=%s already paid by another payment", req.BookingID)
		uc.metrics.IncPaymentsVerified(resultRejected)
		return nil, ErrAlreadyFinalized
	}

	uc.logger.Warn("VerifyPayment: booking=%s is %s", req.BookingID, booking.Status)
	uc.metrics.IncPaymentsVerified(resultRejected)
	return nil, fmt.Errorf("%w: status %s", ErrBookingNotPending, booking.Status)
}

func (uc *UseCase) resolveConflict(ctx context.Context, req *Request) (*Response, error) {
	booking, err := uc.getBooking(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := uc.checkStatus(booking, req)
	if resp != nil || err != nil {
		return resp, err
	}

	// все еще pending: условие обновления не прошло из-за order id
	uc.metrics.IncPaymentsVerified(resultRejected)
	return nil, ErrOrderMismatch
}

func newBookingPaidEvent(booking *domain.Booking, req *Request, paidAt time.Time) (*domain.OutboxEvent, error) {
	payload, err := json.Marshal(domain.BookingPaidPayload{
		BookingID:         booking.ID,
		UserID:            booking.UserID,
		SiteID:            booking.SiteID,
		VehicleType:       booking.VehicleType,
		StartTime:         booking.StartTime,
		EndTime:           booking.EndTime,
		TotalAmount:       booking.TotalAmount,
		RazorpayOrderID:   req.OrderID,
		RazorpayPaymentID: req.PaymentID,
		PaidAt:            paidAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal booking.paid payload: %w", err)
	}

	return &domain.OutboxEvent{
		EventType: domain.EventBookingPaid,
		Payload:   payload,
		Status:    domain.OutboxStatusNew,
	}, nil
}
