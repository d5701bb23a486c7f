package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

var (
	ErrLocationNotFound = errors.New("location.repository: location not found")
	ErrBuildQuery       = errors.New("location.repository: failed to build query")
	ErrExecQuery        = errors.New("location.repository: failed to execute query")
)

type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetOrCreate возвращает локацию с таким именем или создает новую
// Второе значение - true, если локация была создана
func (r *Repository) GetOrCreate(ctx context.Context, loc *domain.Location) (*domain.Location, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("locations").
		Columns("name", "pincode", "lat", "lng").
		Values(loc.Name, loc.Pincode, loc.Lat, loc.Lng).
		Suffix("ON CONFLICT (name) DO NOTHING RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, false, fmt.Errorf("%w: GetOrCreate - build insert query: %v", ErrBuildQuery, err)
	}

	created := *loc
	err = executor.QueryRowContext(ctx, query, args...).Scan(&created.ID, &created.CreatedAt)
	if err == nil {
		return &created, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("%w: GetOrCreate - execute insert: %w", ErrExecQuery, err)
	}

	existing, err := r.GetByName(ctx, loc.Name)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetByName получает локацию по точному имени
func (r *Repository) GetByName(ctx context.Context, name string) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "pincode", "lat", "lng", "created_at").
		From("locations").
		Where(squirrel.Eq{"name": name}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByName - build select query: %v", ErrBuildQuery, err)
	}

	var loc domain.Location
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&loc.ID,
		&loc.Name,
		&loc.Pincode,
		&loc.Lat,
		&loc.Lng,
		&loc.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByName - scan location: %w", ErrExecQuery, err)
	}

	return &loc, nil
}
