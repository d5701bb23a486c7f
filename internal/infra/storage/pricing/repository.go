package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// Repository репозиторий тарифов парковок
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет цену ступени
// Уникальность (site_id, vehicle_type, tier) обеспечивается индексом в БД
func (r *Repository) Create(ctx context.Context, p *domain.Pricing) (*domain.Pricing, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("pricings").
		Columns("site_id", "vehicle_type", "tier", "price").
		Values(p.SiteID, p.VehicleType, p.Tier, p.Price).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch string(pqErr.Code) {
			case uniqueViolationCode:
				return nil, fmt.Errorf("%w: site=%d vehicle=%s tier=%s", ErrDuplicatePricing, p.SiteID, p.VehicleType, p.Tier)
			case foreignKeyViolationCode:
				return nil, fmt.Errorf("%w: site=%d", ErrSiteNotFound, p.SiteID)
			}
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return p, nil
}

// ListBySite возвращает цены парковки
// vehicleType == nil - для всех типов ТС
func (r *Repository) ListBySite(ctx context.Context, siteID int64, vehicleType *domain.VehicleType) ([]*domain.Pricing, error) {
	where := squirrel.Eq{"site_id": siteID}
	if vehicleType != nil {
		where["vehicle_type"] = *vehicleType
	}
	return r.list(ctx, "ListBySite", where)
}

// ListBySiteIDs возвращает цены нескольких парковок одним запросом
func (r *Repository) ListBySiteIDs(ctx context.Context, siteIDs []int64) ([]*domain.Pricing, error) {
	if len(siteIDs) == 0 {
		return []*domain.Pricing{}, nil
	}
	return r.list(ctx, "ListBySiteIDs", squirrel.Eq{"site_id": siteIDs})
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Eq) ([]*domain.Pricing, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "site_id", "vehicle_type", "tier", "price").
		From("pricings").
		Where(where).
		OrderBy("site_id ASC", "vehicle_type ASC", "tier ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	pricings := make([]*domain.Pricing, 0)
	for rows.Next() {
		var p domain.Pricing
		if err := rows.Scan(&p.ID, &p.SiteID, &p.VehicleType, &p.Tier, &p.Price); err != nil {
			return nil, fmt.Errorf("%w: %s - scan pricing: %w", ErrScanRow, op, err)
		}
		pricings = append(pricings, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return pricings, nil
}
