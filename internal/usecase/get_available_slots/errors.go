package get_available_slots

import "errors"

var (
	// ErrSiteNotFound возвращается, когда парковка не найдена
	ErrSiteNotFound = errors.New("get_available_slots: site not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
