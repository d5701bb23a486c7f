package verify_payment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("verify_payment: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("verify_payment: booking not found")

	// ErrBookingNotPending возвращается для отмененного или просроченного бронирования
	ErrBookingNotPending = errors.New("verify_payment: booking is not pending")

	// ErrAlreadyFinalized возвращается, когда бронирование оплачено другим платежом
	ErrAlreadyFinalized = errors.New("verify_payment: booking already paid by another payment")

	// ErrOrderMismatch возвращается, когда order id не совпадает с сохраненным
	ErrOrderMismatch = errors.New("verify_payment: order id does not match booking")

	// ErrSignatureInvalid возвращается, когда подпись платежа не прошла проверку
	ErrSignatureInvalid = errors.New("verify_payment: payment signature verification failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("verify_payment: internal error")
)
