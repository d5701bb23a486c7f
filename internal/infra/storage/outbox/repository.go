package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

var (
	ErrBuildQuery = errors.New("outbox.repository: failed to build query")
	ErrExecQuery  = errors.New("outbox.repository: failed to execute query")
	ErrScanRow    = errors.New("outbox.repository: failed to scan row")
)

// claimBatchQuery забирает новые события и зависшие в processing дольше $2 секунд
const claimBatchQuery = `
	WITH claimed AS (
		SELECT id
		FROM outbox_events
		WHERE status = 'new'
		   OR (status = 'processing' AND updated_at < NOW() - make_interval(secs => $2))
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	)
	UPDATE outbox_events
	SET status = 'processing', updated_at = NOW()
	WHERE id IN (SELECT id FROM claimed)
	RETURNING id, event_type, payload, status, attempts, last_error, created_at, updated_at
`

const markProcessedQuery = `
	UPDATE outbox_events
	SET status = 'processed', last_error = NULL, updated_at = NOW()
	WHERE id = ANY($1)
`

// markFailedQuery возвращает событие в очередь или помечает failed при исчерпании попыток
const markFailedQuery = `
	UPDATE outbox_events
	SET attempts = attempts + 1,
	    status = CASE WHEN attempts + 1 >= $2 THEN 'failed' ELSE 'new' END,
	    last_error = $3,
	    updated_at = NOW()
	WHERE id = ANY($1)
`

// Repository хранилище исходящих событий (transactional outbox)
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет событие
// Вызывается в той же транзакции, что и изменение бронирования
func (r *Repository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = domain.OutboxStatusNew
	}

	query, args, err := psqlbuilder.Insert("outbox_events").
		Columns("id", "event_type", "payload", "status").
		Values(event.ID, event.EventType, string(event.Payload), event.Status).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&event.CreatedAt, &event.UpdatedAt); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// FetchBatch забирает до limit событий в обработку (status -> processing)
func (r *Repository) FetchBatch(ctx context.Context, limit int, staleAfter time.Duration) ([]*domain.OutboxEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, claimBatchQuery, limit, staleAfter.Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: FetchBatch - claim events: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]*domain.OutboxEvent, 0, limit)
	for rows.Next() {
		var e domain.OutboxEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.Payload, &e.Status, &e.Attempts, &e.LastError, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: FetchBatch - scan event: %w", ErrScanRow, err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FetchBatch - rows error: %w", ErrScanRow, err)
	}

	return events, nil
}

// MarkProcessed помечает события опубликованными
func (r *Repository) MarkProcessed(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, markProcessedQuery, pq.Array(uuidStrings(ids))); err != nil {
		return fmt.Errorf("%w: MarkProcessed - execute update: %w", ErrExecQuery, err)
	}
	return nil
}

// MarkFailed увеличивает счетчик попыток
// События, исчерпавшие maxAttempts, остаются в статусе failed
func (r *Repository) MarkFailed(ctx context.Context, ids []uuid.UUID, maxAttempts int, lastError string) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, markFailedQuery, pq.Array(uuidStrings(ids)), maxAttempts, lastError); err != nil {
		return fmt.Errorf("%w: MarkFailed - execute update: %w", ErrExecQuery, err)
	}
	return nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
