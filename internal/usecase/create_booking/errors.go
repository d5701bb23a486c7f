package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrSiteNotFound возвращается, когда парковка не найдена
	ErrSiteNotFound = errors.New("create_booking: site not found")

	// ErrTierNotConfigured возвращается, когда у парковки нет цены для нужной ступени
	ErrTierNotConfigured = errors.New("create_booking: tier price is not configured")

	// ErrUnknownOptionalCharge возвращается для неизвестной опции (при строгой политике)
	ErrUnknownOptionalCharge = errors.New("create_booking: unknown or inactive optional charge")

	// ErrPriceChanged возвращается, когда цена на момент коммита разошлась с показанной клиенту
	ErrPriceChanged = errors.New("create_booking: price has changed since quote")

	// ErrNothingToPay возвращается, когда итоговая сумма равна нулю
	ErrNothingToPay = errors.New("create_booking: total amount is zero")

	// ErrPaymentGateway возвращается, когда не удалось создать заказ в платежном шлюзе
	ErrPaymentGateway = errors.New("create_booking: payment gateway error")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
