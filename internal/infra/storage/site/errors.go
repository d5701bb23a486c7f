package site

import "errors"

var (
	// ErrSiteNotFound возвращается, когда парковка не найдена
	ErrSiteNotFound = errors.New("site.repository: site not found")

	// ErrLocationNotFound возвращается при вставке парковки с несуществующей локацией
	ErrLocationNotFound = errors.New("site.repository: location not found")

	ErrBuildQuery = errors.New("site.repository: failed to build query")
	ErrExecQuery  = errors.New("site.repository: failed to execute query")
	ErrScanRow    = errors.New("site.repository: failed to scan row")
)
