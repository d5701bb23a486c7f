package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VehicleType тип транспортного средства
type VehicleType string

const (
	VehicleCar  VehicleType = "car"
	VehicleBike VehicleType = "bike"
)

func (v VehicleType) IsValid() bool {
	return v == VehicleCar || v == VehicleBike
}

// Tier тарифная ступень
type Tier string

const (
	TierUpTo2h  Tier = "0_2"
	TierUpTo4h  Tier = "2_4"
	TierFullDay Tier = "full_day"
	TierMonthly Tier = "monthly"
)

func (t Tier) IsValid() bool {
	switch t {
	case TierUpTo2h, TierUpTo4h, TierFullDay, TierMonthly:
		return true
	}
	return false
}

// Location город/район, к которому относятся парковки
type Location struct {
	ID        int64
	Name      string
	Pincode   *string
	Lat       decimal.NullDecimal
	Lng       decimal.NullDecimal
	CreatedAt time.Time
}

// Site парковка
type Site struct {
	ID             int64
	Name           string
	LocationID     int64
	Location       *Location
	Address        string
	Pincode        *string
	Lat            decimal.NullDecimal
	Lng            decimal.NullDecimal
	TotalSlotsCar  int
	TotalSlotsBike int
	CreatedAt      time.Time

	Pricings []*Pricing
	Charges  []*OptionalCharge
}

// Capacity число мест для типа ТС
func (s *Site) Capacity(vt VehicleType) int {
	switch vt {
	case VehicleCar:
		return s.TotalSlotsCar
	case VehicleBike:
		return s.TotalSlotsBike
	}
	return 0
}

// Pricing цена ступени для типа ТС на парковке
type Pricing struct {
	ID          int64
	SiteID      int64
	VehicleType VehicleType
	Tier        Tier
	Price       decimal.Decimal
}

// OptionalCharge дополнительная услуга (мойка, зарядка и т.п.)
// SiteID == nil - опция действует на всех парковках
type OptionalCharge struct {
	ID        int64
	SiteID    *int64
	Name      string
	Amount    decimal.Decimal
	IsActive  bool
	CreatedAt time.Time
}

// AppliesTo returns true if the charge can be added to a booking on the site
func (c *OptionalCharge) AppliesTo(siteID int64) bool {
	return c.SiteID == nil || *c.SiteID == siteID
}

// SiteSearchFilter фильтр поиска парковок
type SiteSearchFilter struct {
	Query   string // подстрока имени парковки или локации
	Pincode string // подстрока pincode локации
	Limit   int
}
