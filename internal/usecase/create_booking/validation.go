package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

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
	if req.EndTime.Sub(req.StartTime) > domain.MaxBookingDurationDays*24*time.Hour {
		return invalid("end_time", fmt.Sprintf("booking cannot be longer than %d days", domain.MaxBookingDurationDays))
	}
	if len(req.OptionalChargeIDs) > domain.MaxOptionalCharges {
		return invalid("optional_charges", fmt.Sprintf("at most %d charges allowed", domain.MaxOptionalCharges))
	}
	for _, id := range req.OptionalChargeIDs {
		if id <= 0 {
			return invalid("optional_charges", "ids must be positive integers")
		}
	}
	if req.QuotedTotal != nil && req.QuotedTotal.IsNegative() {
		return invalid("quoted_total", "must not be negative")
	}
	return nil
}

func invalid(field, message string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError(field, message))
}
