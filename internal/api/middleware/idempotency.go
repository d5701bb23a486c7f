package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	IdempotencyHitHeader = "X-Idempotency-Hit"

	idempotencyPrefix     = "idempotency:"
	idempotencyProcessing = "processing"
	idempotencyLockTTL    = 30 * time.Second
	maxIdempotencyKeyLen  = 255
	maxIdempotentBodySize = 1 << 20

	msgRequestInProgress  = "запрос с таким ключом идемпотентности уже выполняется"
	msgInvalidIdempotency = "некорректный ключ идемпотентности"
	msgUnreadableBody     = "не удалось прочитать тело запроса"
)

// storedResponse сохраненный ответ для повтора
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Idempotency запоминает первый ответ на запрос с заголовком Idempotency-Key
// Повтор с тем же ключом получает сохраненный ответ, параллельный дубль - 409.
// Ответы 5xx не сохраняются, ключ освобождается для повторной попытки.
func Idempotency(client redis.Cmdable, ttl time.Duration, m IdempotencyMetrics, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > maxIdempotencyKeyLen {
				handlers.RespondBadRequest(w, msgInvalidIdempotency)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxIdempotentBodySize))
			if err != nil {
				handlers.RespondBadRequest(w, msgUnreadableBody)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			ctx := r.Context()
			redisKey := idempotencyRedisKey(r, key, body)

			// 1. Захватываем ключ
			acquired, err := client.SetNX(ctx, redisKey, idempotencyProcessing, idempotencyLockTTL).Result()
			if err != nil {
				logger.Warn("%s %s - idempotency store unavailable, serving without it: %v", r.Method, r.URL.Path, err)
				next.ServeHTTP(w, r)
				return
			}

			// 2. Ключ уже занят: повтор или параллельный дубль
			if !acquired {
				replayOrConflict(w, r, client, redisKey, m, logger)
				return
			}

			// 3. Выполняем запрос, перехватывая ответ
			rec := newResponseCapture(w)
			next.ServeHTTP(rec, r)

			if rec.status >= http.StatusInternalServerError {
				if err := client.Del(ctx, redisKey).Err(); err != nil {
					logger.Warn("%s %s - failed to release idempotency key: %v", r.Method, r.URL.Path, err)
				}
				return
			}

			// 4. Сохраняем ответ
			value, err := encodeStoredResponse(storedResponse{
				Status:      rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			})
			if err == nil {
				err = client.Set(ctx, redisKey, value, ttl).Err()
			}
			if err != nil {
				logger.Warn("%s %s - failed to store idempotent response: %v", r.Method, r.URL.Path, err)
			}
		})
	}
}

func replayOrConflict(w http.ResponseWriter, r *http.Request, client redis.Cmdable, redisKey string, m IdempotencyMetrics, logger Logger) {
	value, err := client.Get(r.Context(), redisKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// ключ освободился между SETNX и GET
			handlers.RespondConflict(w, msgRequestInProgress)
			return
		}
		logger.Error("%s %s - failed to read idempotency key: %v", r.Method, r.URL.Path, err)
		handlers.RespondInternalError(w)
		return
	}

	if value == idempotencyProcessing {
		logger.Warn("%s %s - concurrent request with the same idempotency key", r.Method, r.URL.Path)
		handlers.RespondConflict(w, msgRequestInProgress)
		return
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		logger.Error("%s %s - corrupted idempotent response: %v", r.Method, r.URL.Path, err)
		handlers.RespondInternalError(w)
		return
	}

	m.IncIdempotentReplays()
	logger.Info("%s %s - replaying stored response, status=%d", r.Method, r.URL.Path, stored.Status)

	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set(IdempotencyHitHeader, "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write(stored.Body)
}

// idempotencyRedisKey ключ привязан к методу, пути, владельцу токена и телу запроса.
// Чужой пользователь или другое тело с тем же Idempotency-Key не получат сохраненный ответ.
func idempotencyRedisKey(r *http.Request, key string, body []byte) string {
	subject := ""
	if userID := GetUserID(r.Context()); userID != nil {
		subject = *userID
	}
	bodySum := sha256.Sum256(body)

	h := sha256.New()
	for _, part := range []string{r.Method, r.URL.Path, subject, key, hex.EncodeToString(bodySum[:])} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return idempotencyPrefix + hex.EncodeToString(h.Sum(nil))
}

func encodeStoredResponse(resp storedResponse) (string, error) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// responseCapture пишет ответ клиенту и копирует тело
type responseCapture struct {
	*statusRecorder
	body bytes.Buffer
}

func newResponseCapture(w http.ResponseWriter) *responseCapture {
	return &responseCapture{statusRecorder: newStatusRecorder(w)}
}

func (c *responseCapture) Write(b []byte) (int, error) {
	n, err := c.statusRecorder.Write(b)
	c.body.Write(b[:n])
	return n, err
}
