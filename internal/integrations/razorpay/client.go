package razorpay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	rzp "github.com/razorpay/razorpay-go"
	rzperrors "github.com/razorpay/razorpay-go/errors"
	"github.com/razorpay/razorpay-go/utils"
)

// OrderAPI ресурс заказов SDK (resources.Order)
type OrderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Fetch(orderID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client адаптер платежного шлюза Razorpay
type Client struct {
	orders    OrderAPI
	keyID     string
	keySecret string
	timeout   time.Duration
	log       Logger
}

// NewClient создает клиент на базе официального SDK
func NewClient(keyID, keySecret string, timeout time.Duration, log Logger) *Client {
	sdk := rzp.NewClient(keyID, keySecret)
	return NewClientWithOrders(sdk.Order, keyID, keySecret, timeout, log)
}

// NewClientWithOrders создает клиент с произвольной реализацией API заказов
func NewClientWithOrders(orders OrderAPI, keyID, keySecret string, timeout time.Duration, log Logger) *Client {
	return &Client{
		orders:    orders,
		keyID:     keyID,
		keySecret: keySecret,
		timeout:   timeout,
		log:       log,
	}
}

// KeyID публичный ключ, который клиент передает в checkout
func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder создает заказ на сумму в минимальных единицах валюты
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if req.AmountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidRequest, req.AmountMinor)
	}
	if req.Currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrInvalidRequest)
	}

	capture := 0
	if req.AutoCapture {
		capture = 1
	}
	data := map[string]interface{}{
		"amount":          req.AmountMinor,
		"currency":        req.Currency,
		"receipt":         req.Receipt,
		"payment_capture": capture,
	}

	resp, err := c.call(ctx, func() (map[string]interface{}, error) {
		return c.orders.Create(data, nil)
	})
	if err != nil {
		c.log.Error("Razorpay: create order failed: receipt=%s, amount=%d: %v", req.Receipt, req.AmountMinor, err)
		return nil, fmt.Errorf("%w: create order: %v", ErrGateway, err)
	}

	order, err := parseOrder(resp)
	if err != nil {
		return nil, err
	}

	c.log.Info("Razorpay: order created: order_id=%s, receipt=%s, amount=%d %s",
		order.ID, req.Receipt, req.AmountMinor, req.Currency)

	return order, nil
}

// FetchOrder получает текущее состояние заказа
func (c *Client) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	resp, err := c.call(ctx, func() (map[string]interface{}, error) {
		return c.orders.Fetch(orderID, nil, nil)
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: order_id=%s", ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("%w: fetch order %s: %v", ErrGateway, orderID, err)
	}

	return parseOrder(resp)
}

// VerifyPaymentSignature проверяет HMAC-SHA256 подпись "order_id|payment_id" секретом ключа
func (c *Client) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return ErrSignatureMismatch
	}
	if !utils.VerifyWebhookSignature(orderID+"|"+paymentID, signature, c.keySecret) {
		return ErrSignatureMismatch
	}
	return nil
}

// call выполняет синхронный вызов SDK с учетом дедлайна контекста
// SDK не принимает context, поэтому вызов выполняется в отдельной горутине
func (c *Client) call(ctx context.Context, fn func() (map[string]interface{}, error)) (map[string]interface{}, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	type result struct {
		resp map[string]interface{}
		err  error
	}
	done := make(chan result, 1)

	go func() {
		resp, err := fn()
		done <- result{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.resp, r.err
	}
}

func parseOrder(resp map[string]interface{}) (*Order, error) {
	id, _ := resp["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: order id is missing", ErrInvalidResponse)
	}

	order := &Order{ID: id}
	order.Status, _ = resp["status"].(string)
	order.Currency, _ = resp["currency"].(string)
	order.Receipt, _ = resp["receipt"].(string)
	order.AmountMinor = toInt64(resp["amount"])
	order.AmountPaid = toInt64(resp["amount_paid"])

	return order, nil
}

// toInt64 JSON-числа SDK приходят как float64
func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

// orderNotFoundDescription описание ошибки шлюза для неизвестного id.
// SDK не отдает ни HTTP статус, ни код ошибки, остается только текст.
const orderNotFoundDescription = "The id provided does not exist"

// isNotFound любая другая ошибка считается сбоем шлюза: бронирование останется pending до следующего прохода
func isNotFound(err error) bool {
	var badRequest *rzperrors.BadRequestError
	if !errors.As(err, &badRequest) {
		return false
	}
	return strings.TrimSpace(badRequest.Message) == orderNotFoundDescription
}
