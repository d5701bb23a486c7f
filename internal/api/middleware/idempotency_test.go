package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/pkg/jwtauth"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type countingReplays struct{ n int }

func (c *countingReplays) IncIdempotentReplays() { c.n++ }

const testTTL = 24 * time.Hour

func bookingHandler(calls *int, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"booking_id":"b1"}`))
	})
}

func newBookRequest(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/book/", strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	return req
}

func TestIdempotency_FirstRequestIsStored(t *testing.T) {
	client, mock := redismock.NewClientMock()
	calls := 0

	req := newBookRequest("abc")
	redisKey := idempotencyRedisKey(req, "abc", []byte(`{}`))
	stored, err := encodeStoredResponse(storedResponse{
		Status:      http.StatusCreated,
		ContentType: "application/json",
		Body:        []byte(`{"booking_id":"b1"}`),
	})
	require.NoError(t, err)

	mock.ExpectSetNX(redisKey, idempotencyProcessing, idempotencyLockTTL).SetVal(true)
	mock.ExpectSet(redisKey, stored, testTTL).SetVal("OK")

	h := Idempotency(client, testTTL, &countingReplays{}, logger.NewNop())(bookingHandler(&calls, http.StatusCreated))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.Header().Get(IdempotencyHitHeader))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_RepeatedKeyReplays(t *testing.T) {
	client, mock := redismock.NewClientMock()
	calls := 0
	replays := &countingReplays{}

	req := newBookRequest("abc")
	redisKey := idempotencyRedisKey(req, "abc", []byte(`{}`))
	stored, err := encodeStoredResponse(storedResponse{
		Status:      http.StatusCreated,
		ContentType: "application/json",
		Body:        []byte(`{"booking_id":"b1"}`),
	})
	require.NoError(t, err)

	mock.ExpectSetNX(redisKey, idempotencyProcessing, idempotencyLockTTL).SetVal(false)
	mock.ExpectGet(redisKey).SetVal(stored)

	h := Idempotency(client, testTTL, replays, logger.NewNop())(bookingHandler(&calls, http.StatusCreated))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `{"booking_id":"b1"}`, rec.Body.String())
	assert.Equal(t, "true", rec.Header().Get(IdempotencyHitHeader))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, replays.n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ConcurrentDuplicate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	calls := 0

	req := newBookRequest("abc")
	redisKey := idempotencyRedisKey(req, "abc", []byte(`{}`))

	mock.ExpectSetNX(redisKey, idempotencyProcessing, idempotencyLockTTL).SetVal(false)
	mock.ExpectGet(redisKey).SetVal(idempotencyProcessing)

	h := Idempotency(client, testTTL, &countingReplays{}, logger.NewNop())(bookingHandler(&calls, http.StatusCreated))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 0, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ServerErrorReleasesKey(t *testing.T) {
	client, mock := redismock.NewClientMock()
	calls := 0

	req := newBookRequest("abc")
	redisKey := idempotencyRedisKey(req, "abc", []byte(`{}`))

	mock.ExpectSetNX(redisKey, idempotencyProcessing, idempotencyLockTTL).SetVal(true)
	mock.ExpectDel(redisKey).SetVal(1)

	h := Idempotency(client, testTTL, &countingReplays{}, logger.NewNop())(bookingHandler(&calls, http.StatusBadGateway))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	client, mock := redismock.NewClientMock()
	calls := 0

	h := Idempotency(client, testTTL, &countingReplays{}, logger.NewNop())(bookingHandler(&calls, http.StatusCreated))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newBookRequest(""))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_KeyScopedByPath(t *testing.T) {
	a := httptest.NewRequest(http.MethodPost, "/api/v1/book/", nil)
	b := httptest.NewRequest(http.MethodPost, "/api/v1/payment/verify/", nil)

	assert.NotEqual(t, idempotencyRedisKey(a, "k", nil), idempotencyRedisKey(b, "k", nil))
	assert.Equal(t, idempotencyRedisKey(a, "k", nil), idempotencyRedisKey(a, "k", nil))
}

func withSubject(req *http.Request, subject string) *http.Request {
	claims := &jwtauth.Claims{Role: "user"}
	claims.Subject = subject
	return req.WithContext(WithClaims(req.Context(), claims))
}

func TestIdempotency_KeyScopedBySubjectAndBody(t *testing.T) {
	alice := withSubject(httptest.NewRequest(http.MethodPost, "/api/v1/book/", nil), "alice")
	bob := withSubject(httptest.NewRequest(http.MethodPost, "/api/v1/book/", nil), "bob")
	body := []byte(`{"site_id":"s1"}`)

	assert.NotEqual(t, idempotencyRedisKey(alice, "k", body), idempotencyRedisKey(bob, "k", body))
	assert.NotEqual(t, idempotencyRedisKey(alice, "k", body), idempotencyRedisKey(alice, "k", []byte(`{"site_id":"s2"}`)))
	assert.Equal(t, idempotencyRedisKey(alice, "k", body), idempotencyRedisKey(alice, "k", body))
}

func TestIdempotency_OtherUserWithSameKeyIsNotReplayed(t *testing.T) {
	client, mock := redismock.NewClientMock()
	calls := 0

	first := withSubject(newBookRequest("abc"), "alice")
	second := withSubject(newBookRequest("abc"), "bob")
	firstKey := idempotencyRedisKey(first, "abc", []byte(`{}`))
	secondKey := idempotencyRedisKey(second, "abc", []byte(`{}`))
	stored, err := encodeStoredResponse(storedResponse{
		Status:      http.StatusCreated,
		ContentType: "application/json",
		Body:        []byte(`{"booking_id":"b1"}`),
	})
	require.NoError(t, err)

	mock.ExpectSetNX(firstKey, idempotencyProcessing, idempotencyLockTTL).SetVal(true)
	mock.ExpectSet(firstKey, stored, testTTL).SetVal("OK")
	mock.ExpectSetNX(secondKey, idempotencyProcessing, idempotencyLockTTL).SetVal(true)
	mock.ExpectSet(secondKey, stored, testTTL).SetVal("OK")

	h := Idempotency(client, testTTL, &countingReplays{}, logger.NewNop())(bookingHandler(&calls, http.StatusCreated))
	h.ServeHTTP(httptest.NewRecorder(), first)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, second)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get(IdempotencyHitHeader))
	assert.Equal(t, 2, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_BodyIsAvailableToHandler(t *testing.T) {
	client, mock := redismock.NewClientMock()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/book/", strings.NewReader(`{"site_id":"s1"}`))
	req.Header.Set(IdempotencyKeyHeader, "abc")
	redisKey := idempotencyRedisKey(req, "abc", []byte(`{"site_id":"s1"}`))

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		seen = string(raw)
		w.WriteHeader(http.StatusBadGateway)
	})

	mock.ExpectSetNX(redisKey, idempotencyProcessing, idempotencyLockTTL).SetVal(true)
	mock.ExpectDel(redisKey).SetVal(1)

	Idempotency(client, testTTL, &countingReplays{}, logger.NewNop())(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, `{"site_id":"s1"}`, seen)
	assert.NoError(t, mock.ExpectationsWereMet())
}
