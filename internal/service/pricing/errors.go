package pricing

import "errors"

var (
	// ErrInvalidTimeRange возвращается, когда end_time не позже start_time
	ErrInvalidTimeRange = errors.New("pricing.engine: end time must be after start time")

	// ErrTierNotConfigured возвращается, когда для выбранной ступени нет цены (политика error)
	ErrTierNotConfigured = errors.New("pricing.engine: tier price is not configured")

	// ErrUnknownOptionalCharge возвращается для неизвестной или неактивной опции (политика error)
	ErrUnknownOptionalCharge = errors.New("pricing.engine: unknown or inactive optional charge")

	// ErrInvalidPolicy возвращается при неизвестном значении политики
	ErrInvalidPolicy = errors.New("pricing.engine: invalid policy")
)
