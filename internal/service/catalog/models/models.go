package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модели

// SearchSitesRequest параметры поиска парковок
type SearchSitesRequest struct {
	Query   string
	Pincode string
}

// CreateSiteRequest запрос на создание парковки
// Локация ищется по имени и создается при отсутствии
type CreateSiteRequest struct {
	SiteName       string           `json:"site_name"`
	LocationName   string           `json:"location_name"`
	Address        string           `json:"address"`
	Pincode        *string          `json:"pincode,omitempty"`
	Lat            *decimal.Decimal `json:"lat,omitempty"`
	Lng            *decimal.Decimal `json:"lng,omitempty"`
	TotalSlotsCar  int              `json:"total_slots_car"`
	TotalSlotsBike int              `json:"total_slots_bike"`
}

// UpdateCapacityRequest частичное обновление количества мест
// nil-поле оставляет текущее значение
type UpdateCapacityRequest struct {
	TotalSlotsCar  *int `json:"total_slots_car,omitempty"`
	TotalSlotsBike *int `json:"total_slots_bike,omitempty"`
}

// CreatePricingRequest запрос на создание цены ступени
type CreatePricingRequest struct {
	SiteID      int64           `json:"site_id"`
	VehicleType string          `json:"vehicle_type"`
	Tier        string          `json:"tier"`
	Price       decimal.Decimal `json:"price"`
}

// CreateChargeRequest запрос на создание дополнительной услуги
// SiteID == nil - услуга для всех парковок
type CreateChargeRequest struct {
	SiteID   *int64          `json:"site_id,omitempty"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	IsActive *bool           `json:"is_active,omitempty"`
}

// Response модели

type LocationResponse struct {
	ID      int64        `json:"id"`
	Name    string       `json:"name"`
	Pincode *string      `json:"pincode,omitempty"`
	Lat     *json.Number `json:"lat,omitempty"`
	Lng     *json.Number `json:"lng,omitempty"`
}

type PricingResponse struct {
	ID          int64       `json:"id"`
	SiteID      int64       `json:"site_id"`
	VehicleType string      `json:"vehicle_type"`
	Tier        string      `json:"tier"`
	Price       json.Number `json:"price"`
}

type ChargeResponse struct {
	ID       int64       `json:"id"`
	SiteID   *int64      `json:"site_id"`
	Name     string      `json:"name"`
	Amount   json.Number `json:"amount"`
	IsActive bool        `json:"is_active"`
}

// SiteResponse парковка с локацией, ценами и активными опциями
type SiteResponse struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Address        string            `json:"address"`
	Pincode        *string           `json:"pincode,omitempty"`
	Lat            *json.Number      `json:"lat,omitempty"`
	Lng            *json.Number      `json:"lng,omitempty"`
	TotalSlotsCar  int               `json:"total_slots_car"`
	TotalSlotsBike int               `json:"total_slots_bike"`
	Location       *LocationResponse `json:"location,omitempty"`
	Pricings       []PricingResponse `json:"pricings"`
	Charges        []ChargeResponse  `json:"charges"`
	CreatedAt      time.Time         `json:"created_at"`
}

type SiteListResponse struct {
	Sites []SiteResponse `json:"sites"`
}

// Методы конвертации

func amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(domain.AmountDecimalExp))
}

func coordinate(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	n := json.Number(d.Decimal.String())
	return &n
}

func FromDomainLocation(l *domain.Location) *LocationResponse {
	if l == nil {
		return nil
	}
	return &LocationResponse{
		ID:      l.ID,
		Name:    l.Name,
		Pincode: l.Pincode,
		Lat:     coordinate(l.Lat),
		Lng:     coordinate(l.Lng),
	}
}

func FromDomainPricing(p *domain.Pricing) PricingResponse {
	return PricingResponse{
		ID:          p.ID,
		SiteID:      p.SiteID,
		VehicleType: string(p.VehicleType),
		Tier:        string(p.Tier),
		Price:       amount(p.Price),
	}
}

func FromDomainCharge(c *domain.OptionalCharge) ChargeResponse {
	return ChargeResponse{
		ID:       c.ID,
		SiteID:   c.SiteID,
		Name:     c.Name,
		Amount:   amount(c.Amount),
		IsActive: c.IsActive,
	}
}

// FromDomainSite конвертирует парковку вместе с Pricings и Charges
func FromDomainSite(s *domain.Site) SiteResponse {
	resp := SiteResponse{
		ID:             s.ID,
		Name:           s.Name,
		Address:        s.Address,
		Pincode:        s.Pincode,
		Lat:            coordinate(s.Lat),
		Lng:            coordinate(s.Lng),
		TotalSlotsCar:  s.TotalSlotsCar,
		TotalSlotsBike: s.TotalSlotsBike,
		Location:       FromDomainLocation(s.Location),
		Pricings:       make([]PricingResponse, 0, len(s.Pricings)),
		Charges:        make([]ChargeResponse, 0, len(s.Charges)),
		CreatedAt:      s.CreatedAt,
	}
	for _, p := range s.Pricings {
		resp.Pricings = append(resp.Pricings, FromDomainPricing(p))
	}
	for _, c := range s.Charges {
		resp.Charges = append(resp.Charges, FromDomainCharge(c))
	}
	return resp
}

func FromDomainSiteList(sites []*domain.Site) *SiteListResponse {
	resp := &SiteListResponse{Sites: make([]SiteResponse, 0, len(sites))}
	for _, s := range sites {
		resp.Sites = append(resp.Sites, FromDomainSite(s))
	}
	return resp
}
