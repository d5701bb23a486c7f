package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type mockOutboxRepo struct{ mock.Mock }

func (m *mockOutboxRepo) FetchBatch(ctx context.Context, limit int, staleAfter time.Duration) ([]*domain.OutboxEvent, error) {
	args := m.Called(ctx, limit, staleAfter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OutboxEvent), args.Error(1)
}

func (m *mockOutboxRepo) MarkProcessed(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, ids []uuid.UUID, maxAttempts int, lastError string) error {
	return m.Called(ctx, ids, maxAttempts, lastError).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, key, messageID string, body []byte) error {
	return m.Called(ctx, key, messageID, body).Error(0)
}

type countingMetrics struct{ results map[string]int }

func (c *countingMetrics) IncOutboxEvents(result string) {
	if c.results == nil {
		c.results = map[string]int{}
	}
	c.results[result]++
}

var relayCfg = RelayConfig{Interval: time.Second, BatchSize: 10, MaxAttempts: 3, StaleAfter: time.Minute}

func event(payload string) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:        uuid.New(),
		EventType: domain.EventBookingPaid,
		Payload:   []byte(payload),
		Status:    domain.OutboxStatusProcessing,
	}
}

func TestOutboxRelay_PublishesAndMarks(t *testing.T) {
	repo := new(mockOutboxRepo)
	pub := new(mockPublisher)
	metrics := &countingMetrics{}
	relay := NewOutboxRelay(repo, pub, metrics, relayCfg, logger.NewNop())

	ok := event(`{"a":1}`)
	bad := event(`{"b":2}`)
	repo.On("FetchBatch", mock.Anything, 10, time.Minute).Return([]*domain.OutboxEvent{ok, bad}, nil)
	pub.On("Publish", mock.Anything, domain.EventBookingPaid, ok.ID.String(), ok.Payload).Return(nil)
	pub.On("Publish", mock.Anything, domain.EventBookingPaid, bad.ID.String(), bad.Payload).Return(errors.New("nack"))
	repo.On("MarkFailed", mock.Anything, []uuid.UUID{bad.ID}, 3, "nack").Return(nil)
	repo.On("MarkProcessed", mock.Anything, []uuid.UUID{ok.ID}).Return(nil)

	require.NoError(t, relay.ProcessBatch(context.Background()))

	assert.Equal(t, 1, metrics.results[outboxPublished])
	assert.Equal(t, 1, metrics.results[outboxFailed])
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestOutboxRelay_EmptyBatch(t *testing.T) {
	repo := new(mockOutboxRepo)
	pub := new(mockPublisher)
	relay := NewOutboxRelay(repo, pub, &countingMetrics{}, relayCfg, logger.NewNop())

	repo.On("FetchBatch", mock.Anything, 10, time.Minute).Return([]*domain.OutboxEvent{}, nil)

	require.NoError(t, relay.ProcessBatch(context.Background()))
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything)
}

func TestOutboxRelay_FetchError(t *testing.T) {
	repo := new(mockOutboxRepo)
	relay := NewOutboxRelay(repo, new(mockPublisher), &countingMetrics{}, relayCfg, logger.NewNop())

	repo.On("FetchBatch", mock.Anything, 10, time.Minute).Return(nil, errors.New("db down"))

	assert.Error(t, relay.ProcessBatch(context.Background()))
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(logger.NewNop())
	assert.NoError(t, p.Publish(context.Background(), domain.EventBookingPaid, "id", []byte(`{}`)))
}
