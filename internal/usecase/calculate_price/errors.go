package calculate_price

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("calculate_price: invalid input data")

	// ErrSiteNotFound возвращается, когда парковка не найдена
	ErrSiteNotFound = errors.New("calculate_price: site not found")

	// ErrTierNotConfigured возвращается, когда у парковки нет цены для нужной ступени
	ErrTierNotConfigured = errors.New("calculate_price: tier price is not configured")

	// ErrUnknownOptionalCharge возвращается для неизвестной опции (при строгой политике)
	ErrUnknownOptionalCharge = errors.New("calculate_price: unknown or inactive optional charge")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("calculate_price: internal error")
)
