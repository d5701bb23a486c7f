package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/catalog/models"
)

var (
	maxLat = decimal.NewFromInt(90)
	maxLng = decimal.NewFromInt(180)

	maxPricingPrice = decimal.RequireFromString(domain.MaxPricingPrice)
	maxChargeAmount = decimal.RequireFromString(domain.MaxChargeAmount)
)

func validateSearch(req *models.SearchSitesRequest) error {
	if len(req.Query) > domain.MaxSearchQueryLength {
		return invalid("q", fmt.Sprintf("must be at most %d characters", domain.MaxSearchQueryLength))
	}
	if len(req.Pincode) > domain.MaxPincodeLength {
		return invalid("pincode", fmt.Sprintf("must be at most %d characters", domain.MaxPincodeLength))
	}
	return nil
}

func validateCreateSite(req *models.CreateSiteRequest) error {
	req.SiteName = strings.TrimSpace(req.SiteName)
	req.LocationName = strings.TrimSpace(req.LocationName)
	req.Address = strings.TrimSpace(req.Address)

	if req.SiteName == "" {
		return invalid("site_name", "is required")
	}
	if len(req.SiteName) > domain.MaxSiteNameLength {
		return invalid("site_name", fmt.Sprintf("must be at most %d characters", domain.MaxSiteNameLength))
	}
	if req.LocationName == "" {
		return invalid("location_name", "is required")
	}
	if len(req.LocationName) > domain.MaxLocationNameLength {
		return invalid("location_name", fmt.Sprintf("must be at most %d characters", domain.MaxLocationNameLength))
	}
	if req.Pincode != nil && len(*req.Pincode) > domain.MaxPincodeLength {
		return invalid("pincode", fmt.Sprintf("must be at most %d characters", domain.MaxPincodeLength))
	}
	if req.Lat != nil && req.Lat.Abs().GreaterThan(maxLat) {
		return invalid("lat", "must be between -90 and 90")
	}
	if req.Lng != nil && req.Lng.Abs().GreaterThan(maxLng) {
		return invalid("lng", "must be between -180 and 180")
	}
	if req.TotalSlotsCar < 0 {
		return invalid("total_slots_car", "must not be negative")
	}
	if req.TotalSlotsBike < 0 {
		return invalid("total_slots_bike", "must not be negative")
	}
	return nil
}

func validateUpdateCapacity(req *models.UpdateCapacityRequest) error {
	if req.TotalSlotsCar == nil && req.TotalSlotsBike == nil {
		return invalid("total_slots_car", "at least one of total_slots_car, total_slots_bike is required")
	}
	if req.TotalSlotsCar != nil && *req.TotalSlotsCar < 0 {
		return invalid("total_slots_car", "must not be negative")
	}
	if req.TotalSlotsBike != nil && *req.TotalSlotsBike < 0 {
		return invalid("total_slots_bike", "must not be negative")
	}
	return nil
}

func validateCreatePricing(req *models.CreatePricingRequest) error {
	if req.SiteID <= 0 {
		return invalid("site_id", "must be a positive integer")
	}
	if !domain.VehicleType(req.VehicleType).IsValid() {
		return invalid("vehicle_type", "must be car or bike")
	}
	if !domain.Tier(req.Tier).IsValid() {
		return invalid("tier", "must be one of 0_2, 2_4, full_day, monthly")
	}
	if req.Price.IsNegative() {
		return invalid("price", "must not be negative")
	}
	if req.Price.GreaterThan(maxPricingPrice) {
		return invalid("price", "is too large")
	}
	if !req.Price.Equal(req.Price.Round(domain.AmountDecimalExp)) {
		return invalid("price", "must have at most 2 decimal places")
	}
	return nil
}

func validateCreateCharge(req *models.CreateChargeRequest) error {
	req.Name = strings.TrimSpace(req.Name)

	if req.SiteID != nil && *req.SiteID <= 0 {
		return invalid("site_id", "must be a positive integer")
	}
	if req.Name == "" {
		return invalid("name", "is required")
	}
	if len(req.Name) > domain.MaxChargeNameLength {
		return invalid("name", fmt.Sprintf("must be at most %d characters", domain.MaxChargeNameLength))
	}
	if req.Amount.IsNegative() {
		return invalid("amount", "must not be negative")
	}
	if req.Amount.GreaterThan(maxChargeAmount) {
		return invalid("amount", "is too large")
	}
	if !req.Amount.Equal(req.Amount.Round(domain.AmountDecimalExp)) {
		return invalid("amount", "must have at most 2 decimal places")
	}
	return nil
}

func invalid(field, message string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError(field, message))
}
