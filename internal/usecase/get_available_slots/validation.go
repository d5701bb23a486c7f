package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SiteID <= 0 {
		return invalid("site_id", "must be a positive integer")
	}
	if !req.VehicleType.IsValid() {
		return invalid("vehicle_type", "must be car or bike")
	}
	if req.StartTime.IsZero() {
		return invalid("start_time", "is required")
	}
	if req.EndTime.IsZero() {
		return invalid("end_time", "is required")
	}
	if !req.EndTime.After(req.StartTime) {
		return invalid("end_time", "must be after start_time")
	}
	if req.EndTime.Sub(req.StartTime) > domain.MaxAvailabilityWindowDays*24*time.Hour {
		return invalid("end_time", fmt.Sprintf("window cannot be longer than %d days", domain.MaxAvailabilityWindowDays))
	}
	return nil
}

func invalid(field, message string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError(field, message))
}
