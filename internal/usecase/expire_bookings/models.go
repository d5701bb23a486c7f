package expire_bookings

import "time"

// Request параметры одного прохода чистильщика
type Request struct {
	Now time.Time
}

// Response итог прохода
type Response struct {
	Scanned     int // найдено просроченных pending
	Expired     int // переведено в expired
	SkippedPaid int // заказ в шлюзе оплачен, ждем подтверждения клиента
	FetchFailed int // не удалось узнать статус заказа, повторим в следующий раз
}
