package razorpay

// Статусы заказа Razorpay
const (
	OrderStatusCreated   = "created"
	OrderStatusAttempted = "attempted"
	OrderStatusPaid      = "paid"
)

// OrderRequest параметры создания заказа
type OrderRequest struct {
	AmountMinor int64  // сумма в минимальных единицах (пайсы)
	Currency    string // ISO-код валюты, например INR
	Receipt     string // идентификатор на нашей стороне (ID бронирования)
	AutoCapture bool
}

// Order заказ платежного шлюза
type Order struct {
	ID          string
	AmountMinor int64
	AmountPaid  int64
	Currency    string
	Receipt     string
	Status      string
}

// IsPaid returns true if the gateway reports the order as paid
func (o *Order) IsPaid() bool {
	return o.Status == OrderStatusPaid
}
