package pricing

import "errors"

var (
	// ErrDuplicatePricing возвращается при повторной цене для (site, vehicle_type, tier)
	ErrDuplicatePricing = errors.New("pricing.repository: pricing for site, vehicle type and tier already exists")

	// ErrSiteNotFound возвращается при вставке цены для несуществующей парковки
	ErrSiteNotFound = errors.New("pricing.repository: site not found")

	ErrBuildQuery = errors.New("pricing.repository: failed to build query")
	ErrExecQuery  = errors.New("pricing.repository: failed to execute query")
	ErrScanRow    = errors.New("pricing.repository: failed to scan row")
)
