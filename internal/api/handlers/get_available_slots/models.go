package get_available_slots

import (
	"time"

	getAvailableSlots "github.com/m04kA/SMC-ParkingService/internal/usecase/get_available_slots"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	SiteID         int64          `json:"site_id"`
	VehicleType    string         `json:"vehicle_type"`
	TotalSpots     int            `json:"total_spots"`
	AvailableSpots int            `json:"available_spots"`
	Slots          []SlotResponse `json:"slots"`
}

type SlotResponse struct {
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	AvailableSpots int       `json:"available_spots"`
	TotalSpots     int       `json:"total_spots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			AvailableSpots: s.AvailableSpots,
			TotalSpots:     s.TotalSpots,
		})
	}

	return &AvailabilityResponse{
		SiteID:         resp.SiteID,
		VehicleType:    string(resp.VehicleType),
		TotalSpots:     resp.TotalSpots,
		AvailableSpots: resp.AvailableSpots,
		Slots:          slots,
	}
}
