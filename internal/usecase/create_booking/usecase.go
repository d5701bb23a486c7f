package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/razorpay"
	siteRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/site"
	"github.com/m04kA/SMC-ParkingService/internal/service/pricing"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

// UseCase use case для создания бронирования
// Сначала фиксируется намерение (pending без заказа), затем создается заказ в шлюзе.
// При ошибке шлюза бронирование отменяется, при ошибке привязки заказа его добивает чистильщик.
type UseCase struct {
	bookingRepo    BookingRepository
	siteRepo       SiteRepository
	pricingRepo    PricingRepository
	chargeRepo     ChargeRepository
	gateway        PaymentGateway
	engine         PriceEngine
	txManager      TransactionManager
	metrics        Metrics
	timeProvider   TimeProvider
	logger         Logger
	currency       string
	quoteTolerance decimal.Decimal
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	siteRepo SiteRepository,
	pricingRepo PricingRepository,
	chargeRepo ChargeRepository,
	gateway PaymentGateway,
	engine PriceEngine,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	currency string,
	quoteTolerance decimal.Decimal,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		siteRepo:       siteRepo,
		pricingRepo:    pricingRepo,
		chargeRepo:     chargeRepo,
		gateway:        gateway,
		engine:         engine,
		txManager:      txManager,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
		currency:       currency,
		quoteTolerance: quoteTolerance,
	}
}

// Execute выполняет use case создания бронирования
// Цена пересчитывается внутри сериализуемой транзакции, поэтому списывается цена на момент коммита
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: site=%d, vehicle=%s, start=%s, end=%s, charges=%v",
		req.SiteID, req.VehicleType, req.StartTime.Format("2006-01-02T15:04:05Z07:00"),
		req.EndTime.Format("2006-01-02T15:04:05Z07:00"), req.OptionalChargeIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	booking := &domain.Booking{
		ID:          uuid.New(),
		UserID:      req.UserID,
		SiteID:      req.SiteID,
		VehicleType: req.VehicleType,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      domain.StatusPending,
	}

	// 2. Фиксируем намерение в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Парковка должна существовать
		if _, err := uc.siteRepo.GetByID(txCtx, req.SiteID); err != nil {
			if errors.Is(err, siteRepo.ErrSiteNotFound) {
				uc.logger.Warn("CreateBooking: site id=%d not found", req.SiteID)
				return ErrSiteNotFound
			}
			uc.logger.Error("CreateBooking: failed to get site id=%d: %v", req.SiteID, err)
			return fmt.Errorf("%w: failed to get site: %w", ErrInternal, err)
		}

		// 2.2. Актуальные тарифы и опции
		pricings, err := uc.pricingRepo.ListBySite(txCtx, req.SiteID, ptr.Ptr(req.VehicleType))
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list pricings for site id=%d: %v", req.SiteID, err)
			return fmt.Errorf("%w: failed to list pricings: %w", ErrInternal, err)
		}

		charges, err := uc.chargeRepo.GetByIDs(txCtx, req.OptionalChargeIDs)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get optional charges %v: %v", req.OptionalChargeIDs, err)
			return fmt.Errorf("%w: failed to get optional charges: %w", ErrInternal, err)
		}

		// 2.3. Расчет стоимости
		breakdown, err := uc.engine.Calculate(pricing.Input{
			SiteID:            req.SiteID,
			VehicleType:       req.VehicleType,
			Start:             req.StartTime,
			End:               req.EndTime,
			Pricings:          pricings,
			Charges:           charges,
			OptionalChargeIDs: req.OptionalChargeIDs,
		})
		if err != nil {
			return uc.mapEngineError(req, err)
		}

		// 2.4. Сверяем с ценой, которую видел клиент
		if req.QuotedTotal != nil && breakdown.TotalAmount.Sub(*req.QuotedTotal).Abs().GreaterThan(uc.quoteTolerance) {
			uc.logger.Warn("CreateBooking: price changed for site=%d: quoted=%s, actual=%s",
				req.SiteID, req.QuotedTotal.StringFixed(2), breakdown.TotalAmount.StringFixed(2))
			return fmt.Errorf("%w: quoted %s, actual %s", ErrPriceChanged,
				req.QuotedTotal.StringFixed(2), breakdown.TotalAmount.StringFixed(2))
		}

		if domain.ToMinorUnits(breakdown.TotalAmount) <= 0 {
			uc.logger.Warn("CreateBooking: zero total for site=%d, vehicle=%s", req.SiteID, req.VehicleType)
			return ErrNothingToPay
		}

		booking.DurationMinutes = breakdown.DurationMinutes
		booking.BaseAmount = breakdown.BaseAmount
		booking.OptionalAmount = breakdown.OptionalAmount
		booking.TotalAmount = breakdown.TotalAmount
		booking.OptionalChargeIDs = breakdown.AppliedChargeIDs

		// 2.5. Сохраняем pending-бронирование без заказа
		if _, err := uc.bookingRepo.Create(txCtx, booking); err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if isUseCaseError(err) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: booking id=%s created as pending, total=%s",
		booking.ID, booking.TotalAmount.StringFixed(2))

	// 3. Создаем заказ в платежном шлюзе (вне транзакции)
	order, err := uc.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		AmountMinor: booking.AmountMinor(),
		Currency:    uc.currency,
		Receipt:     booking.ID.String(),
		AutoCapture: true,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create gateway order for booking id=%s: %v", booking.ID, err)

		// 3.1. Компенсация: отменяем намерение
		if cancelErr := uc.bookingRepo.Cancel(ctx, booking.ID, domain.ReasonPaymentOrderFailed, uc.timeProvider.Now()); cancelErr != nil {
			uc.logger.Error("CreateBooking: failed to cancel booking id=%s after gateway error: %v", booking.ID, cancelErr)
		}

		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	// 4. Привязываем заказ к бронированию
	if err := uc.bookingRepo.AttachOrder(ctx, booking.ID, order.ID); err != nil {
		uc.logger.Error("CreateBooking: failed to attach order=%s to booking id=%s: %v", order.ID, booking.ID, err)
		return nil, fmt.Errorf("%w: failed to attach order: %v", ErrInternal, err)
	}

	uc.metrics.IncBookingsCreated(string(booking.VehicleType))

	uc.logger.Info("CreateBooking: booking id=%s attached to order=%s, amount=%d %s",
		booking.ID, order.ID, booking.AmountMinor(), uc.currency)

	return &Response{
		BookingID:   booking.ID,
		OrderID:     order.ID,
		AmountMinor: booking.AmountMinor(),
		Currency:    uc.currency,
		KeyID:       uc.gateway.KeyID(),
		TotalAmount: booking.TotalAmount,
	}, nil
}

func (uc *UseCase) mapEngineError(req *Request, err error) error {
	switch {
	case errors.Is(err, pricing.ErrTierNotConfigured):
		uc.logger.Warn("CreateBooking: %v (site=%d)", err, req.SiteID)
		return fmt.Errorf("%w: %v", ErrTierNotConfigured, err)
	case errors.Is(err, pricing.ErrUnknownOptionalCharge):
		uc.logger.Warn("CreateBooking: %v (site=%d)", err, req.SiteID)
		return fmt.Errorf("%w: %v", ErrUnknownOptionalCharge, err)
	case errors.Is(err, pricing.ErrInvalidTimeRange):
		return invalid("end_time", "must be after start_time")
	default:
		uc.logger.Error("CreateBooking: engine failed for site=%d: %v", req.SiteID, err)
		return fmt.Errorf("%w: price calculation failed: %v", ErrInternal, err)
	}
}

func isUseCaseError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrSiteNotFound) ||
		errors.Is(err, ErrTierNotConfigured) ||
		errors.Is(err, ErrUnknownOptionalCharge) ||
		errors.Is(err, ErrPriceChanged) ||
		errors.Is(err, ErrNothingToPay) ||
		errors.Is(err, ErrInternal)
}
