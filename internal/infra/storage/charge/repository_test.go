package charge

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, site_id, name, amount, is_active, created_at FROM optional_charges WHERE id IN \(\$1,\$2\) ORDER BY id ASC`).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows(chargeColumns).
			AddRow(int64(1), int64(7), "Car wash", "150.00", true, now).
			AddRow(int64(2), nil, "EV charging", "99.50", false, now))

	charges, err := repo.GetByIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	require.Len(t, charges, 2)

	assert.Equal(t, int64(7), *charges[0].SiteID)
	assert.True(t, charges[0].IsActive)
	assert.Nil(t, charges[1].SiteID)
	assert.Equal(t, "99.5", charges[1].Amount.String())

	empty, err := repo.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListActiveForSites(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM optional_charges WHERE \(is_active = \$1 AND \(site_id IN \(\$2,\$3\) OR site_id IS NULL\)\)`).
		WithArgs(true, int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows(chargeColumns))

	charges, err := NewRepository(db).ListActiveForSites(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Empty(t, charges)
	assert.NoError(t, mock.ExpectationsWereMet())
}
