package pricing

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	newPricing := func() *domain.Pricing {
		return &domain.Pricing{SiteID: 1, VehicleType: domain.VehicleCar, Tier: domain.TierUpTo2h, Price: decimal.RequireFromString("60")}
	}

	mock.ExpectQuery(`INSERT INTO pricings \(site_id,vehicle_type,tier,price\) VALUES \(\$1,\$2,\$3,\$4\) RETURNING id`).
		WithArgs(int64(1), "car", "0_2", "60").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	p, err := repo.Create(context.Background(), newPricing())
	require.NoError(t, err)
	assert.Equal(t, int64(11), p.ID)

	mock.ExpectQuery(`INSERT INTO pricings`).WillReturnError(&pq.Error{Code: "23505"})
	_, err = repo.Create(context.Background(), newPricing())
	assert.ErrorIs(t, err, ErrDuplicatePricing)

	mock.ExpectQuery(`INSERT INTO pricings`).WillReturnError(&pq.Error{Code: "23503"})
	_, err = repo.Create(context.Background(), newPricing())
	assert.ErrorIs(t, err, ErrSiteNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListBySite_FiltersVehicleType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, site_id, vehicle_type, tier, price FROM pricings WHERE site_id = \$1 AND vehicle_type = \$2`).
		WithArgs(int64(1), "bike").
		WillReturnRows(sqlmock.NewRows([]string{"id", "site_id", "vehicle_type", "tier", "price"}).
			AddRow(int64(3), int64(1), "bike", "0_2", "20.00"))

	got, err := NewRepository(db).ListBySite(context.Background(), 1, ptr.Ptr(domain.VehicleBike))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.TierUpTo2h, got[0].Tier)
	assert.Equal(t, "20", got[0].Price.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
