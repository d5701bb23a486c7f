package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	outboxPublished = "published"
	outboxFailed    = "failed"

	publishTimeout = 5 * time.Second
)

// RelayConfig параметры публикации outbox
type RelayConfig struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
	// StaleAfter через сколько событие в processing снова доступно для захвата
	StaleAfter time.Duration
}

// OutboxRelay публикует события из outbox в брокер
type OutboxRelay struct {
	repo      OutboxRepository
	publisher Publisher
	metrics   Metrics
	cfg       RelayConfig
	logger    Logger
}

func NewOutboxRelay(repo OutboxRepository, publisher Publisher, metrics Metrics, cfg RelayConfig, logger Logger) *OutboxRelay {
	return &OutboxRelay{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		cfg:       cfg,
		logger:    logger,
	}
}

func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.logger.Info("Outbox relay started (interval: %s, batch: %d)", r.cfg.Interval, r.cfg.BatchSize)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopped")
			return
		case <-ticker.C:
			if err := r.ProcessBatch(ctx); err != nil {
				r.logger.Error("Outbox relay - failed to process batch: %v", err)
			}
		}
	}
}

// ProcessBatch публикует одну пачку событий
func (r *OutboxRelay) ProcessBatch(ctx context.Context) error {
	events, err := r.repo.FetchBatch(ctx, r.cfg.BatchSize, r.cfg.StaleAfter)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	processed := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		sendCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		err := r.publisher.Publish(sendCtx, e.EventType, e.ID.String(), e.Payload)
		cancel()

		if err != nil {
			r.logger.Warn("Outbox relay - failed to publish event %s (%s): %v", e.ID, e.EventType, err)
			r.metrics.IncOutboxEvents(outboxFailed)
			if markErr := r.repo.MarkFailed(ctx, []uuid.UUID{e.ID}, r.cfg.MaxAttempts, err.Error()); markErr != nil {
				r.logger.Error("Outbox relay - failed to mark event %s as failed: %v", e.ID, markErr)
			}
			continue
		}

		r.metrics.IncOutboxEvents(outboxPublished)
		processed = append(processed, e.ID)
	}

	if len(processed) > 0 {
		if err := r.repo.MarkProcessed(ctx, processed); err != nil {
			return err
		}
		r.logger.Info("Outbox relay - published %d events", len(processed))
	}

	return nil
}
