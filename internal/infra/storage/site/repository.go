package site

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

const (
	foreignKeyViolationCode = "23503"

	// DefaultSearchLimit ограничение выдачи поиска, если лимит не задан
	DefaultSearchLimit = 100
)

var siteColumns = []string{
	"s.id",
	"s.name",
	"s.location_id",
	"s.address",
	"s.pincode",
	"s.lat",
	"s.lng",
	"s.total_slots_car",
	"s.total_slots_bike",
	"s.created_at",
	"l.id",
	"l.name",
	"l.pincode",
	"l.lat",
	"l.lng",
	"l.created_at",
}

// Repository репозиторий парковок
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает парковку в существующей локации
func (r *Repository) Create(ctx context.Context, site *domain.Site) (*domain.Site, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("sites").
		Columns(
			"name",
			"location_id",
			"address",
			"pincode",
			"lat",
			"lng",
			"total_slots_car",
			"total_slots_bike",
		).
		Values(
			site.Name,
			site.LocationID,
			site.Address,
			site.Pincode,
			site.Lat,
			site.Lng,
			site.TotalSlotsCar,
			site.TotalSlotsBike,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&site.ID, &site.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolationCode {
			return nil, fmt.Errorf("%w: location_id=%d", ErrLocationNotFound, site.LocationID)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return site, nil
}

// GetByID получает парковку с локацией
// Внутри транзакции строка парковки блокируется на чтение (FOR SHARE),
// чтобы расчет цены и вставка бронирования видели согласованный каталог
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Site, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := r.baseSelect().Where(squirrel.Eq{"s.id": id})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR SHARE OF s")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	site, err := scanSite(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSiteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan site: %w", ErrScanRow, err)
	}

	return site, nil
}

// UpdateCapacity обновляет количество мест для машин и мотоциклов
func (r *Repository) UpdateCapacity(ctx context.Context, id int64, slotsCar, slotsBike int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("sites").
		Set("total_slots_car", slotsCar).
		Set("total_slots_bike", slotsBike).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateCapacity - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateCapacity - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateCapacity - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSiteNotFound
	}

	return nil
}

// Search ищет парковки по подстроке имени парковки или локации и по pincode локации
// Пустой фильтр возвращает все парковки
func (r *Repository) Search(ctx context.Context, filter domain.SiteSearchFilter) ([]*domain.Site, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := r.baseSelect()

	if filter.Query != "" {
		pattern := "%" + escapeLike(filter.Query) + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"s.name": pattern},
			squirrel.ILike{"l.name": pattern},
		})
	}
	if filter.Pincode != "" {
		builder = builder.Where(squirrel.ILike{"l.pincode": "%" + escapeLike(filter.Pincode) + "%"})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query, args, err := builder.OrderBy("s.id ASC").Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Search - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Search - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	sites := make([]*domain.Site, 0)
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: Search - scan site: %w", ErrScanRow, err)
		}
		sites = append(sites, site)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Search - rows error: %w", ErrScanRow, err)
	}

	return sites, nil
}

func (r *Repository) baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(siteColumns...).
		From("sites s").
		Join("locations l ON l.id = s.location_id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSite(row rowScanner) (*domain.Site, error) {
	var s domain.Site
	var l domain.Location

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.LocationID,
		&s.Address,
		&s.Pincode,
		&s.Lat,
		&s.Lng,
		&s.TotalSlotsCar,
		&s.TotalSlotsBike,
		&s.CreatedAt,
		&l.ID,
		&l.Name,
		&l.Pincode,
		&l.Lat,
		&l.Lng,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Location = &l
	return &s, nil
}

// escapeLike экранирует спецсимволы шаблона LIKE
func escapeLike(s string) string {
	r := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			r = append(r, '\\')
		}
		r = append(r, c)
	}
	return string(r)
}
