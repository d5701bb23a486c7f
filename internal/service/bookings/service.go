package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID вместе с выбранными опциями
// Бронирование пользователя видит только он сам или админ
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, requester models.Requester) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !requester.CanAccess(booking) {
		s.logger.Warn("GetByID: access denied to booking id=%s", id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет ожидающее оплаты бронирование
// Оплаченное или просроченное бронирование отменить нельзя
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, requester models.Requester, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s", id)

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = domain.ReasonCancelledByUser
	}
	if len(reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput,
			domain.NewValidationError("reason", fmt.Sprintf("must be at most %d characters", domain.MaxCancellationReasonLength)))
	}

	// 1. Получаем бронирование
	booking, err := s.getBooking(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	// 2. Проверяем права
	if !requester.CanAccess(booking) {
		s.logger.Warn("Cancel: access denied to booking id=%s", id)
		return nil, ErrAccessDenied
	}

	// 3. Проверяем статус
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", id, booking.Status)
		return nil, fmt.Errorf("%w: status %s", ErrCannotCancel, booking.Status)
	}

	// 4. Условное обновление pending -> cancelled
	cancelledAt := s.timeProvider.Now()
	if err := s.bookingRepo.Cancel(ctx, id, reason, cancelledAt); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Cancel: booking id=%s changed status concurrently", id)
			return nil, ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusCancelled
	booking.CancellationReason = &reason
	booking.CancelledAt = &cancelledAt

	s.logger.Info("Cancel: successfully cancelled booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings история бронирований пользователя с опциональным фильтром по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s", req.UserID)

	status, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	userID := req.UserID
	return s.list(ctx, "GetUserBookings", domain.BookingsFilter{
		UserID: &userID,
		Status: status,
		Limit:  domain.MaxUserBookingsPage,
	})
}

// GetSiteBookings бронирования площадки, опционально за одни сутки
func (s *Service) GetSiteBookings(ctx context.Context, req *models.GetSiteBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetSiteBookings: fetching bookings for site_id=%d", req.SiteID)

	if req.SiteID <= 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("site_id", "must be positive"))
	}

	status, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	siteID := req.SiteID
	filter := domain.BookingsFilter{
		SiteID: &siteID,
		Status: status,
		Limit:  domain.MaxSiteBookingsPage,
	}
	if req.Date != nil {
		from := *req.Date
		to := from.AddDate(0, 0, 1)
		filter.StartFrom = &from
		filter.StartTo = &to
	}

	return s.list(ctx, "GetSiteBookings", filter)
}

func (s *Service) list(ctx context.Context, op string, filter domain.BookingsFilter) (*models.BookingListResponse, error) {
	list, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("%s: repository error: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	resp := &models.BookingListResponse{Bookings: make([]*models.BookingResponse, 0, len(list))}
	for _, b := range list {
		resp.Bookings = append(resp.Bookings, models.FromDomainBooking(b))
	}
	return resp, nil
}

func parseStatus(raw *string) (*domain.BookingStatus, error) {
	if raw == nil {
		return nil, nil
	}
	st := domain.BookingStatus(*raw)
	if !isKnownStatus(st) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput,
			domain.NewValidationError("status", fmt.Sprintf("unknown status %q", *raw)))
	}
	return &st, nil
}

func isKnownStatus(st domain.BookingStatus) bool {
	switch st {
	case domain.StatusPending, domain.StatusPaid, domain.StatusCancelled, domain.StatusExpired:
		return true
	}
	return false
}

func (s *Service) getBooking(ctx context.Context, op string, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}
