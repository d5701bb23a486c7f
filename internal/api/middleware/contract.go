package middleware

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/pkg/jwtauth"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// HTTPMetrics метрики HTTP запросов
type HTTPMetrics interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
	IncInFlight()
	DecInFlight()
}

// IdempotencyMetrics счетчик повторно отданных ответов
type IdempotencyMetrics interface {
	IncIdempotentReplays()
}

// TokenParser разбор bearer-токена
type TokenParser interface {
	Parse(token string) (*jwtauth.Claims, error)
}
