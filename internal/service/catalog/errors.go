package catalog

import "errors"

var (
	// ErrSiteNotFound возвращается, когда парковка не найдена
	ErrSiteNotFound = errors.New("catalog.service: site not found")

	// ErrDuplicatePricing возвращается при повторной цене для (site, vehicle_type, tier)
	ErrDuplicatePricing = errors.New("catalog.service: pricing already exists")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("catalog.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog.service: internal error")
)
