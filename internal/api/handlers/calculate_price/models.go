package calculate_price

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	calculatePrice "github.com/m04kA/SMC-ParkingService/internal/usecase/calculate_price"
	"github.com/m04kA/SMC-ParkingService/pkg/types"
)

// PriceRequest HTTP request model
type PriceRequest struct {
	SiteID          int64   `json:"site_id"`
	VehicleType     string  `json:"vehicle_type"`
	StartTime       string  `json:"start_time"` // ISO-8601, смещение необязательно
	EndTime         string  `json:"end_time"`
	OptionalCharges []int64 `json:"optional_charges,omitempty"`
}

// PriceResponse HTTP response model
type PriceResponse struct {
	SiteID          int64       `json:"site_id"`
	VehicleType     string      `json:"vehicle_type"`
	DurationMinutes int         `json:"duration_minutes"`
	Tier            string      `json:"tier"`
	Days            int         `json:"days,omitempty"`
	BaseAmount      json.Number `json:"base_amount"`
	OptionalAmount  json.Number `json:"optional_amount"`
	TotalAmount     json.Number `json:"total_amount"`
	AppliedCharges  []int64     `json:"applied_charges"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PriceRequest) ToUseCaseRequest(loc *time.Location) (*calculatePrice.Request, error) {
	start, err := types.ParseTimestamp(r.StartTime, loc)
	if err != nil {
		return nil, domain.NewValidationError("start_time", fmt.Sprintf("invalid timestamp %q", r.StartTime))
	}
	end, err := types.ParseTimestamp(r.EndTime, loc)
	if err != nil {
		return nil, domain.NewValidationError("end_time", fmt.Sprintf("invalid timestamp %q", r.EndTime))
	}

	return &calculatePrice.Request{
		SiteID:            r.SiteID,
		VehicleType:       domain.VehicleType(r.VehicleType),
		StartTime:         start,
		EndTime:           end,
		OptionalChargeIDs: r.OptionalCharges,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *calculatePrice.Response) *PriceResponse {
	applied := resp.AppliedChargeIDs
	if applied == nil {
		applied = []int64{}
	}

	return &PriceResponse{
		SiteID:          resp.SiteID,
		VehicleType:     string(resp.VehicleType),
		DurationMinutes: resp.DurationMinutes,
		Tier:            string(resp.Tier),
		Days:            resp.Days,
		BaseAmount:      json.Number(resp.BaseAmount.StringFixed(domain.AmountDecimalExp)),
		OptionalAmount:  json.Number(resp.OptionalAmount.StringFixed(domain.AmountDecimalExp)),
		TotalAmount:     json.Number(resp.TotalAmount.StringFixed(domain.AmountDecimalExp)),
		AppliedCharges:  applied,
	}
}
