package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrStatusConflict возвращается, когда условное обновление не затронуло строк:
	// бронирование уже не в ожидаемом статусе или не совпал order id
	ErrStatusConflict = errors.New("booking.repository: booking status conflict")

	// ErrOrderAlreadyUsed возвращается при повторном использовании order id другим бронированием
	ErrOrderAlreadyUsed = errors.New("booking.repository: gateway order id already used")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
