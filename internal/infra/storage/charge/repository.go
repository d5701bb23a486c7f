package charge

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

const foreignKeyViolationCode = "23503"

var (
	ErrSiteNotFound = errors.New("charge.repository: site not found")
	ErrBuildQuery   = errors.New("charge.repository: failed to build query")
	ErrExecQuery    = errors.New("charge.repository: failed to execute query")
	ErrScanRow      = errors.New("charge.repository: failed to scan row")
)

var chargeColumns = []string{"id", "site_id", "name", "amount", "is_active", "created_at"}

// Repository репозиторий дополнительных услуг
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, c *domain.OptionalCharge) (*domain.OptionalCharge, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("optional_charges").
		Columns("site_id", "name", "amount", "is_active").
		Values(c.SiteID, c.Name, c.Amount, c.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolationCode {
			return nil, ErrSiteNotFound
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return c, nil
}

// GetByIDs возвращает опции по ID (активные и неактивные)
// Отсутствующие ID просто не попадают в результат
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.OptionalCharge, error) {
	if len(ids) == 0 {
		return []*domain.OptionalCharge{}, nil
	}
	return r.list(ctx, "GetByIDs", squirrel.Eq{"id": ids})
}

// ListActiveForSites возвращает активные опции парковок и глобальные опции (site_id IS NULL)
func (r *Repository) ListActiveForSites(ctx context.Context, siteIDs []int64) ([]*domain.OptionalCharge, error) {
	return r.list(ctx, "ListActiveForSites", squirrel.And{
		squirrel.Eq{"is_active": true},
		squirrel.Or{
			squirrel.Eq{"site_id": siteIDs},
			squirrel.Eq{"site_id": nil},
		},
	})
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.OptionalCharge, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(chargeColumns...).
		From("optional_charges").
		Where(where).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	charges := make([]*domain.OptionalCharge, 0)
	for rows.Next() {
		var c domain.OptionalCharge
		if err := rows.Scan(&c.ID, &c.SiteID, &c.Name, &c.Amount, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %s - scan charge: %w", ErrScanRow, op, err)
		}
		charges = append(charges, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return charges, nil
}
