package domain

// Business validation constants
const (
	MaxCancellationReasonLength = 500
	MaxSiteNameLength           = 255
	MaxLocationNameLength       = 255
	MaxChargeNameLength         = 100
	MaxPincodeLength            = 20
	MaxSearchQueryLength        = 100

	// MaxBookingDurationDays ограничение длительности одного бронирования
	MaxBookingDurationDays = 366
	// MaxOptionalCharges сколько опций можно выбрать в одном бронировании
	MaxOptionalCharges = 20

	// MaxUserBookingsPage сколько бронирований отдается в истории пользователя
	MaxUserBookingsPage = 100
	// MaxAvailabilityWindowDays длина окна при запросе занятости
	MaxAvailabilityWindowDays = 7
	// MaxSiteBookingsPage сколько бронирований отдается админу по площадке
	MaxSiteBookingsPage = 500
)

// DateFormat формат даты в query параметрах
const DateFormat = "2006-01-02"

// Cancellation reasons set by the service itself
const (
	ReasonPaymentOrderFailed = "payment order creation failed"
	ReasonCancelledByUser    = "cancelled by user"
)

// Price limits (NUMERIC(10,2) и NUMERIC(8,2))
const (
	MaxPricingPrice  = "99999999.99"
	MaxChargeAmount  = "999999.99"
	AmountDecimalExp = 2
)
