package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	siteRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/site"
)

// UseCase use case для получения свободных мест на парковке
type UseCase struct {
	bookingRepo BookingRepository
	siteRepo    SiteRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	siteRepo SiteRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		siteRepo:    siteRepo,
		logger:      logger,
	}
}

// Execute считает занятость по часам: вместимость минус активные бронирования
// Ожидающие оплаты бронирования занимают место до истечения окна оплаты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: site=%d, vehicle=%s, start=%s, end=%s",
		req.SiteID, req.VehicleType, req.StartTime.Format("2006-01-02T15:04:05Z07:00"),
		req.EndTime.Format("2006-01-02T15:04:05Z07:00"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем парковку
	site, err := uc.siteRepo.GetByID(ctx, req.SiteID)
	if err != nil {
		if errors.Is(err, siteRepo.ErrSiteNotFound) {
			uc.logger.Warn("GetAvailableSlots: site id=%d not found", req.SiteID)
			return nil, ErrSiteNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get site id=%d: %v", req.SiteID, err)
		return nil, fmt.Errorf("%w: failed to get site: %v", ErrInternal, err)
	}

	total := site.Capacity(req.VehicleType)

	// 3. Активные бронирования, пересекающие окно
	bookings, err := uc.bookingRepo.ListActiveOverlapping(ctx, req.SiteID, req.VehicleType, req.StartTime, req.EndTime)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 4. Занятость по интервалам
	slots := generateSlots(req.StartTime, req.EndTime)
	available := calculateAvailableSpots(slots, bookings, total)

	uc.logger.Info("GetAvailableSlots: site=%d, vehicle=%s, total=%d, available=%d, bookings=%d",
		req.SiteID, req.VehicleType, total, available, len(bookings))

	return &Response{
		SiteID:         req.SiteID,
		VehicleType:    req.VehicleType,
		TotalSpots:     total,
		AvailableSpots: available,
		Slots:          slots,
	}, nil
}
