package razorpay

import "errors"

var (
	// ErrSignatureMismatch возвращается, когда подпись платежа не совпала
	ErrSignatureMismatch = errors.New("razorpay client: payment signature verification failed")

	// ErrOrderNotFound возвращается, когда шлюз не знает такой заказ
	ErrOrderNotFound = errors.New("razorpay client: order not found")

	// ErrGateway возвращается при ошибке запроса к шлюзу (сеть, 5xx, таймаут)
	ErrGateway = errors.New("razorpay client: gateway request failed")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза
	ErrInvalidResponse = errors.New("razorpay client: invalid response")

	// ErrInvalidRequest возвращается при некорректных параметрах заказа
	ErrInvalidRequest = errors.New("razorpay client: invalid order request")
)
