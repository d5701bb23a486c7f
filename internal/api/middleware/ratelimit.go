package middleware

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
)

const (
	rateLimitPrefix = "rate_limiter:public"
	msgRateLimited  = "слишком много запросов, повторите позже"
)

// RateLimit ограничение запросов по IP клиента, формат rate как у ulule/limiter: "120-M"
// При client == nil счетчики хранятся в памяти процесса
func RateLimit(rate string, trustForwardHeader bool, client *redis.Client, logger Logger) (func(http.Handler) http.Handler, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", rate, err)
	}

	var store limiter.Store
	if client != nil {
		store, err = redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix:   rateLimitPrefix,
			MaxRetry: 3,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis limiter store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          rateLimitPrefix,
			CleanUpInterval: parsed.Period,
		})
	}

	instance := limiter.New(store, parsed, limiter.WithTrustForwardHeader(trustForwardHeader))

	mw := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("%s %s - rate limit reached for %s", r.Method, r.URL.Path, instance.GetIPKey(r))
			handlers.RespondError(w, http.StatusTooManyRequests, msgRateLimited)
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("%s %s - rate limiter error: %v", r.Method, r.URL.Path, err)
			handlers.RespondInternalError(w)
		}),
	)

	return mw.Handler, nil
}
