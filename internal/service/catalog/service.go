package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	chargeRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/charge"
	pricingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/pricing"
	siteRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/site"
	"github.com/m04kA/SMC-ParkingService/internal/service/catalog/models"
)

// Service каталог парковок: локации, парковки, цены и дополнительные услуги
type Service struct {
	locationRepo LocationRepository
	siteRepo     SiteRepository
	pricingRepo  PricingRepository
	chargeRepo   ChargeRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	locationRepo LocationRepository,
	siteRepo SiteRepository,
	pricingRepo PricingRepository,
	chargeRepo ChargeRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		locationRepo: locationRepo,
		siteRepo:     siteRepo,
		pricingRepo:  pricingRepo,
		chargeRepo:   chargeRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// SearchSites ищет парковки по имени (парковки или локации) и pincode
func (s *Service) SearchSites(ctx context.Context, req *models.SearchSitesRequest) (*models.SiteListResponse, error) {
	s.logger.Info("SearchSites: q=%q, pincode=%q", req.Query, req.Pincode)

	if err := validateSearch(req); err != nil {
		s.logger.Warn("SearchSites: validation failed: %v", err)
		return nil, err
	}

	return s.listSites(ctx, "SearchSites", domain.SiteSearchFilter{Query: req.Query, Pincode: req.Pincode})
}

// ListSites возвращает все парковки
func (s *Service) ListSites(ctx context.Context) (*models.SiteListResponse, error) {
	s.logger.Info("ListSites: listing all sites")
	return s.listSites(ctx, "ListSites", domain.SiteSearchFilter{})
}

func (s *Service) listSites(ctx context.Context, op string, filter domain.SiteSearchFilter) (*models.SiteListResponse, error) {
	var sites []*domain.Site

	// Парковки, цены и опции читаются из одного снимка
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		sites, err = s.siteRepo.Search(txCtx, filter)
		if err != nil {
			return err
		}
		return s.enrich(txCtx, sites)
	})
	if err != nil {
		s.logger.Error("%s: failed to list sites: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: found %d sites", op, len(sites))
	return models.FromDomainSiteList(sites), nil
}

// enrich подгружает цены и активные опции пачкой для всех парковок
func (s *Service) enrich(ctx context.Context, sites []*domain.Site) error {
	if len(sites) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(sites))
	byID := make(map[int64]*domain.Site, len(sites))
	for _, site := range sites {
		ids = append(ids, site.ID)
		byID[site.ID] = site
		site.Pricings = []*domain.Pricing{}
		site.Charges = []*domain.OptionalCharge{}
	}

	pricings, err := s.pricingRepo.ListBySiteIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range pricings {
		if site, ok := byID[p.SiteID]; ok {
			site.Pricings = append(site.Pricings, p)
		}
	}

	charges, err := s.chargeRepo.ListActiveForSites(ctx, ids)
	if err != nil {
		return err
	}
	for _, c := range charges {
		for _, site := range sites {
			if c.AppliesTo(site.ID) {
				site.Charges = append(site.Charges, c)
			}
		}
	}

	return nil
}

// CreateSite создает парковку, локация создается по имени при отсутствии
// Обе вставки выполняются в одной транзакции
func (s *Service) CreateSite(ctx context.Context, req *models.CreateSiteRequest) (*models.SiteResponse, error) {
	s.logger.Info("CreateSite: site=%q, location=%q", req.SiteName, req.LocationName)

	if err := validateCreateSite(req); err != nil {
		s.logger.Warn("CreateSite: validation failed: %v", err)
		return nil, err
	}

	var site *domain.Site
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Локация
		location, created, err := s.locationRepo.GetOrCreate(txCtx, &domain.Location{
			Name:    req.LocationName,
			Pincode: req.Pincode,
			Lat:     nullDecimal(req.Lat),
			Lng:     nullDecimal(req.Lng),
		})
		if err != nil {
			return fmt.Errorf("get or create location: %w", err)
		}
		if created {
			s.logger.Info("CreateSite: created location id=%d name=%q", location.ID, location.Name)
		}

		// 2. Парковка
		site, err = s.siteRepo.Create(txCtx, &domain.Site{
			Name:           req.SiteName,
			LocationID:     location.ID,
			Address:        req.Address,
			Pincode:        req.Pincode,
			Lat:            nullDecimal(req.Lat),
			Lng:            nullDecimal(req.Lng),
			TotalSlotsCar:  req.TotalSlotsCar,
			TotalSlotsBike: req.TotalSlotsBike,
		})
		if err != nil {
			return fmt.Errorf("create site: %w", err)
		}
		site.Location = location

		return nil
	})
	if err != nil {
		s.logger.Error("CreateSite: %v", err)
		return nil, fmt.Errorf("%w: CreateSite - %v", ErrInternal, err)
	}

	site.Pricings = []*domain.Pricing{}
	site.Charges = []*domain.OptionalCharge{}

	s.logger.Info("CreateSite: created site id=%d in location id=%d", site.ID, site.LocationID)
	resp := models.FromDomainSite(site)
	return &resp, nil
}

// GetSite получает парковку с ценами и активными опциями
func (s *Service) GetSite(ctx context.Context, id int64) (*models.SiteResponse, error) {
	s.logger.Info("GetSite: fetching site id=%d", id)

	site, err := s.getSite(ctx, "GetSite", id)
	if err != nil {
		return nil, err
	}

	if err := s.enrich(ctx, []*domain.Site{site}); err != nil {
		s.logger.Error("GetSite: failed to load pricing for site id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetSite - enrich: %v", ErrInternal, err)
	}

	resp := models.FromDomainSite(site)
	return &resp, nil
}

// UpdateSiteCapacity меняет количество мест на парковке
// Уже созданные бронирования не пересматриваются
func (s *Service) UpdateSiteCapacity(ctx context.Context, id int64, req *models.UpdateCapacityRequest) (*models.SiteResponse, error) {
	s.logger.Info("UpdateSiteCapacity: site id=%d", id)

	if err := validateUpdateCapacity(req); err != nil {
		s.logger.Warn("UpdateSiteCapacity: validation failed: %v", err)
		return nil, err
	}

	var site *domain.Site
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Текущие значения
		var err error
		site, err = s.getSite(txCtx, "UpdateSiteCapacity", id)
		if err != nil {
			return err
		}

		// 2. Применяем только переданные поля
		if req.TotalSlotsCar != nil {
			site.TotalSlotsCar = *req.TotalSlotsCar
		}
		if req.TotalSlotsBike != nil {
			site.TotalSlotsBike = *req.TotalSlotsBike
		}

		if err := s.siteRepo.UpdateCapacity(txCtx, id, site.TotalSlotsCar, site.TotalSlotsBike); err != nil {
			if errors.Is(err, siteRepo.ErrSiteNotFound) {
				return ErrSiteNotFound
			}
			return fmt.Errorf("%w: UpdateSiteCapacity - update: %v", ErrInternal, err)
		}

		return s.enrich(txCtx, []*domain.Site{site})
	})
	if err != nil {
		if errors.Is(err, ErrSiteNotFound) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("UpdateSiteCapacity: %v", err)
		return nil, fmt.Errorf("%w: UpdateSiteCapacity - %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSiteCapacity: site id=%d now has car=%d bike=%d", id, site.TotalSlotsCar, site.TotalSlotsBike)
	resp := models.FromDomainSite(site)
	return &resp, nil
}

func (s *Service) getSite(ctx context.Context, op string, id int64) (*domain.Site, error) {
	site, err := s.siteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, siteRepo.ErrSiteNotFound) {
			s.logger.Warn("%s: site id=%d not found", op, id)
			return nil, ErrSiteNotFound
		}
		s.logger.Error("%s: repository error for site id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return site, nil
}

// CreatePricing добавляет цену ступени для типа ТС на парковке
func (s *Service) CreatePricing(ctx context.Context, req *models.CreatePricingRequest) (*models.PricingResponse, error) {
	s.logger.Info("CreatePricing: site=%d, vehicle=%s, tier=%s, price=%s",
		req.SiteID, req.VehicleType, req.Tier, req.Price.String())

	if err := validateCreatePricing(req); err != nil {
		s.logger.Warn("CreatePricing: validation failed: %v", err)
		return nil, err
	}

	pricing, err := s.pricingRepo.Create(ctx, &domain.Pricing{
		SiteID:      req.SiteID,
		VehicleType: domain.VehicleType(req.VehicleType),
		Tier:        domain.Tier(req.Tier),
		Price:       req.Price.Round(domain.AmountDecimalExp),
	})
	if err != nil {
		switch {
		case errors.Is(err, pricingRepo.ErrDuplicatePricing):
			s.logger.Warn("CreatePricing: duplicate for site=%d, vehicle=%s, tier=%s", req.SiteID, req.VehicleType, req.Tier)
			return nil, ErrDuplicatePricing
		case errors.Is(err, pricingRepo.ErrSiteNotFound):
			s.logger.Warn("CreatePricing: site id=%d not found", req.SiteID)
			return nil, ErrSiteNotFound
		}
		s.logger.Error("CreatePricing: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreatePricing - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreatePricing: created pricing id=%d", pricing.ID)
	resp := models.FromDomainPricing(pricing)
	return &resp, nil
}

// CreateOptionalCharge добавляет дополнительную услугу (по умолчанию активную)
func (s *Service) CreateOptionalCharge(ctx context.Context, req *models.CreateChargeRequest) (*models.ChargeResponse, error) {
	s.logger.Info("CreateOptionalCharge: site=%v, name=%q, amount=%s", req.SiteID, req.Name, req.Amount.String())

	if err := validateCreateCharge(req); err != nil {
		s.logger.Warn("CreateOptionalCharge: validation failed: %v", err)
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	charge, err := s.chargeRepo.Create(ctx, &domain.OptionalCharge{
		SiteID:   req.SiteID,
		Name:     req.Name,
		Amount:   req.Amount,
		IsActive: isActive,
	})
	if err != nil {
		if errors.Is(err, chargeRepo.ErrSiteNotFound) {
			s.logger.Warn("CreateOptionalCharge: site id=%v not found", req.SiteID)
			return nil, ErrSiteNotFound
		}
		s.logger.Error("CreateOptionalCharge: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateOptionalCharge - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateOptionalCharge: created charge id=%d", charge.ID)
	resp := models.FromDomainCharge(charge)
	return &resp, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
