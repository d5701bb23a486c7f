package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

const (
	bookingsTable = "bookings"
	chargesTable  = "booking_optional_charges"

	uniqueViolationCode = "23505"
)

var bookingColumns = []string{
	"id",
	"user_id",
	"site_id",
	"vehicle_type",
	"start_time",
	"end_time",
	"duration_minutes",
	"base_amount",
	"optional_amount",
	"total_amount",
	"status",
	"razorpay_order_id",
	"razorpay_payment_id",
	"razorpay_signature",
	"cancellation_reason",
	"paid_at",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет бронирование в статусе pending (намерение оплаты) вместе с выбранными опциями
// ID бронирования генерируется вызывающей стороной.
// Вставка бронирования и опций должна выполняться в одной транзакции (передается через контекст).
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(bookingsTable).
		Columns(
			"id",
			"user_id",
			"site_id",
			"vehicle_type",
			"start_time",
			"end_time",
			"duration_minutes",
			"base_amount",
			"optional_amount",
			"total_amount",
			"status",
		).
		Values(
			booking.ID,
			booking.UserID,
			booking.SiteID,
			booking.VehicleType,
			booking.StartTime,
			booking.EndTime,
			booking.DurationMinutes,
			booking.BaseAmount,
			booking.OptionalAmount,
			booking.TotalAmount,
			booking.Status,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	if err := r.attachCharges(ctx, executor, booking.ID, booking.OptionalChargeIDs); err != nil {
		return nil, err
	}

	return booking, nil
}

func (r *Repository) attachCharges(ctx context.Context, executor DBExecutor, bookingID uuid.UUID, chargeIDs []int64) error {
	if len(chargeIDs) == 0 {
		return nil
	}

	builder := psqlbuilder.Insert(chargesTable).Columns("booking_id", "charge_id")
	for _, id := range chargeIDs {
		builder = builder.Values(bookingID, id)
	}

	query, args, err := builder.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build charges insert: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - insert charges: %w", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает бронирование по ID вместе с ID выбранных опций
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	chargeIDs, err := r.getChargeIDs(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	booking.OptionalChargeIDs = chargeIDs

	return booking, nil
}

func (r *Repository) getChargeIDs(ctx context.Context, executor DBExecutor, bookingID uuid.UUID) ([]int64, error) {
	query, args, err := psqlbuilder.Select("charge_id").
		From(chargesTable).
		Where(squirrel.Eq{"booking_id": bookingID.String()}).
		OrderBy("charge_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build charges query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - select charges: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetByID - scan charge_id: %w", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByID - rows error: %w", ErrScanRow, err)
	}

	return ids, nil
}

// AttachOrder сохраняет ID заказа платежного шлюза
// Обновляет только pending-бронирование без заказа, иначе ErrStatusConflict
func (r *Repository) AttachOrder(ctx context.Context, id uuid.UUID, orderID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("razorpay_order_id", orderID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String(), "status": domain.StatusPending, "razorpay_order_id": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AttachOrder - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: AttachOrder - order_id=%s", ErrOrderAlreadyUsed, orderID)
		}
		return fmt.Errorf("%w: AttachOrder - execute update: %w", ErrExecQuery, err)
	}

	return checkAffected(result, "AttachOrder")
}

// MarkPaid переводит бронирование pending -> paid
// Условие: статус pending и совпадающий order id, иначе ErrStatusConflict
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID, orderID, paymentID, signature string, paidAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("status", domain.StatusPaid).
		Set("razorpay_payment_id", paymentID).
		Set("razorpay_signature", signature).
		Set("paid_at", paidAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String(), "status": domain.StatusPending, "razorpay_order_id": orderID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkPaid - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - execute update: %w", ErrExecQuery, err)
	}

	return checkAffected(result, "MarkPaid")
}

// Cancel переводит бронирование pending -> cancelled с указанием причины
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID, reason string, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String(), "status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %w", ErrExecQuery, err)
	}

	return checkAffected(result, "Cancel")
}

// ListStalePending возвращает pending-бронирования, созданные раньше createdBefore
// Строки не блокируются: Expire сам проверяет статус
func (r *Repository) ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.Lt{"created_at": createdBefore}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStalePending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStalePending - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListStalePending - scan booking: %w", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStalePending - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// List возвращает бронирования по фильтру, новые первыми
// Опции бронирований не загружаются
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit))

	// Применяем опциональные фильтры
	if filter.UserID != nil {
		builder = builder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.SiteID != nil {
		builder = builder.Where(squirrel.Eq{"site_id": *filter.SiteID})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.StartFrom != nil {
		builder = builder.Where(squirrel.GtOrEq{"start_time": *filter.StartFrom})
	}
	if filter.StartTo != nil {
		builder = builder.Where(squirrel.Lt{"start_time": *filter.StartTo})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan booking: %w", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// ListActiveOverlapping возвращает pending и paid бронирования типа ТС на парковке,
// пересекающие окно [start, end). Граничащие интервалы не пересекаются
func (r *Repository) ListActiveOverlapping(ctx context.Context, siteID int64, vehicleType domain.VehicleType, start, end time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{
			"site_id":      siteID,
			"vehicle_type": vehicleType,
			"status":       []domain.BookingStatus{domain.StatusPending, domain.StatusPaid},
		}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveOverlapping - scan booking: %w", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveOverlapping - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// Expire переводит pending-бронирования в expired, возвращает число обновленных
func (r *Repository) Expire(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("status", domain.StatusExpired).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": uuidStrings(ids), "status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Expire - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: Expire - execute update: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: Expire - get rows affected: %w", ErrExecQuery, err)
	}

	return affected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.SiteID,
		&b.VehicleType,
		&b.StartTime,
		&b.EndTime,
		&b.DurationMinutes,
		&b.BaseAmount,
		&b.OptionalAmount,
		&b.TotalAmount,
		&b.Status,
		&b.RazorpayOrderID,
		&b.RazorpayPaymentID,
		&b.RazorpaySignature,
		&b.CancellationReason,
		&b.PaidAt,
		&b.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

func checkAffected(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrStatusConflict
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

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode
}
