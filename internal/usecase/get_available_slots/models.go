package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request окно, для которого считается занятость
type Request struct {
	SiteID      int64
	VehicleType domain.VehicleType
	StartTime   time.Time
	EndTime     time.Time
}

// Response занятость парковки по часовым интервалам
type Response struct {
	SiteID      int64
	VehicleType domain.VehicleType
	TotalSpots  int
	// AvailableSpots минимум свободных мест за все окно
	AvailableSpots int
	Slots          []Slot
}

// Slot интервал окна (последний может быть короче часа)
type Slot struct {
	StartTime      time.Time
	EndTime        time.Time
	AvailableSpots int
	TotalSpots     int
}
