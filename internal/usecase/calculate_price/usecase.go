package calculate_price

import (
	"context"
	"errors"
	"fmt"

	siteRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/site"
	"github.com/m04kA/SMC-ParkingService/internal/service/pricing"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

// UseCase расчет стоимости парковки без создания бронирования
type UseCase struct {
	siteRepo    SiteRepository
	pricingRepo PricingRepository
	chargeRepo  ChargeRepository
	engine      PriceEngine
	logger      Logger
}

func NewUseCase(
	siteRepo SiteRepository,
	pricingRepo PricingRepository,
	chargeRepo ChargeRepository,
	engine PriceEngine,
	logger Logger,
) *UseCase {
	return &UseCase{
		siteRepo:    siteRepo,
		pricingRepo: pricingRepo,
		chargeRepo:  chargeRepo,
		engine:      engine,
		logger:      logger,
	}
}

// Execute считает стоимость по текущему каталогу
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CalculatePrice: site=%d, vehicle=%s, start=%s, end=%s, charges=%v",
		req.SiteID, req.VehicleType, req.StartTime.Format("2006-01-02T15:04:05Z07:00"),
		req.EndTime.Format("2006-01-02T15:04:05Z07:00"), req.OptionalChargeIDs)

	// 1. Валидация
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CalculatePrice: validation failed: %v", err)
		return nil, err
	}

	// 2. Парковка должна существовать
	if _, err := uc.siteRepo.GetByID(ctx, req.SiteID); err != nil {
		if errors.Is(err, siteRepo.ErrSiteNotFound) {
			uc.logger.Warn("CalculatePrice: site id=%d not found", req.SiteID)
			return nil, ErrSiteNotFound
		}
		uc.logger.Error("CalculatePrice: failed to get site id=%d: %v", req.SiteID, err)
		return nil, fmt.Errorf("%w: failed to get site: %v", ErrInternal, err)
	}

	// 3. Тарифы и опции
	pricings, err := uc.pricingRepo.ListBySite(ctx, req.SiteID, ptr.Ptr(req.VehicleType))
	if err != nil {
		uc.logger.Error("CalculatePrice: failed to list pricings for site id=%d: %v", req.SiteID, err)
		return nil, fmt.Errorf("%w: failed to list pricings: %v", ErrInternal, err)
	}

	charges, err := uc.chargeRepo.GetByIDs(ctx, req.OptionalChargeIDs)
	if err != nil {
		uc.logger.Error("CalculatePrice: failed to get optional charges %v: %v", req.OptionalChargeIDs, err)
		return nil, fmt.Errorf("%w: failed to get optional charges: %v", ErrInternal, err)
	}

	// 4. Расчет
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
		return nil, uc.mapEngineError(req, err)
	}

	uc.logger.Info("CalculatePrice: site=%d, vehicle=%s, minutes=%d, tier=%s, total=%s",
		req.SiteID, req.VehicleType, breakdown.DurationMinutes, breakdown.Tier, breakdown.TotalAmount.StringFixed(2))

	return &Response{
		SiteID:           req.SiteID,
		VehicleType:      req.VehicleType,
		DurationMinutes:  breakdown.DurationMinutes,
		Tier:             breakdown.Tier,
		Days:             breakdown.Days,
		BaseAmount:       breakdown.BaseAmount,
		OptionalAmount:   breakdown.OptionalAmount,
		TotalAmount:      breakdown.TotalAmount,
		AppliedChargeIDs: breakdown.AppliedChargeIDs,
	}, nil
}

func (uc *UseCase) mapEngineError(req *Request, err error) error {
	switch {
	case errors.Is(err, pricing.ErrTierNotConfigured):
		uc.logger.Warn("CalculatePrice: %v (site=%d)", err, req.SiteID)
		return fmt.Errorf("%w: %v", ErrTierNotConfigured, err)
	case errors.Is(err, pricing.ErrUnknownOptionalCharge):
		uc.logger.Warn("CalculatePrice: %v (site=%d)", err, req.SiteID)
		return fmt.Errorf("%w: %v", ErrUnknownOptionalCharge, err)
	case errors.Is(err, pricing.ErrInvalidTimeRange):
		return invalid("end_time", "must be after start_time")
	default:
		uc.logger.Error("CalculatePrice: engine failed for site=%d: %v", req.SiteID, err)
		return fmt.Errorf("%w: price calculation failed: %v", ErrInternal, err)
	}
}
