package calculate_price

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модель запроса расчета стоимости
type Request struct {
	SiteID            int64
	VehicleType       domain.VehicleType
	StartTime         time.Time
	EndTime           time.Time
	OptionalChargeIDs []int64
}

// Response разбивка стоимости
type Response struct {
	SiteID           int64
	VehicleType      domain.VehicleType
	DurationMinutes  int
	Tier             domain.Tier
	Days             int
	BaseAmount       decimal.Decimal
	OptionalAmount   decimal.Decimal
	TotalAmount      decimal.Decimal
	AppliedChargeIDs []int64
}
