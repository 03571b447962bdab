package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/bbconnect/BBC-BookingService/internal/domain"
	"github.com/bbconnect/BBC-BookingService/pkg/dbmetrics"
	"github.com/bbconnect/BBC-BookingService/pkg/psqlbuilder"
)

const (
	constraintActiveSlot     = "uq_bookings_active_slot"
	constraintIdempotencyKey = "uq_bookings_idempotency_key"
)

var bookingColumns = []string{
	"id",
	"customer_id",
	"customer_name",
	"shop_id",
	"shop_name",
	"service_name",
	"price",
	"booking_date",
	"start_time",
	"status",
	"payment_status",
	"transaction_id",
	"status_reason",
	"idempotency_key",
	"created_at",
	"expiry_time",
	"status_changed_at",
}

// TransitionPatch описывает условный переход статуса.
// Переход применяется только если текущий статус записи payment_held
// и выполнены условия по дедлайну.
type TransitionPatch struct {
	To            domain.BookingStatus
	PaymentStatus domain.PaymentStatus
	Reason        *string

	// NotExpiredAfter: переход допустим только пока expiry_time >= указанного
	// момента (confirm/reject до дедлайна)
	NotExpiredAfter *time.Time

	// ExpiredBefore: переход допустим только если expiry_time < указанного
	// момента (авто-возврат после дедлайна)
	ExpiredBefore *time.Time
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create вставляет новое бронирование. Запись неизменяема после создания,
// кроме статусной тройки, меняемой через Transition.
//
// Конфликты уникальных индексов транслируются в доменные ошибки:
// - uq_bookings_active_slot -> ErrSlotTaken (слот уже занят активной бронью)
// - uq_bookings_idempotency_key -> ErrIdempotencyConflict (повтор запроса)
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"customer_id",
			"customer_name",
			"shop_id",
			"shop_name",
			"service_name",
			"price",
			"booking_date",
			"start_time",
			"status",
			"payment_status",
			"transaction_id",
			"status_reason",
			"idempotency_key",
			"expiry_time",
		).
		Values(
			b.ID,
			b.CustomerID,
			b.CustomerName,
			b.ShopID,
			b.ShopName,
			b.ServiceName,
			b.Price,
			b.BookingDate,
			b.StartTime,
			b.Status,
			b.PaymentStatus,
			b.TransactionID,
			b.StatusReason,
			b.IdempotencyKey,
			b.ExpiryTime,
		).
		Suffix("RETURNING created_at, status_changed_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, statusChangedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &statusChangedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case constraintActiveSlot:
				return nil, ErrSlotTaken
			case constraintIdempotencyKey:
				return nil, ErrIdempotencyConflict
			}
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.StatusChangedAt = statusChangedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByIdempotencyKey ищет бронирование по ключу идемпотентности.
// Используется для безопасного повтора create.
func (r *Repository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"idempotency_key": key}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIdempotencyKey - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...), "GetByIdempotencyKey")
}

// GetByCustomerID получает бронирования клиента, опционально фильтруя по статусу.
// Сортировка: последние изменения первыми.
func (r *Repository) GetByCustomerID(ctx context.Context, customerID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return r.listWhere(ctx, "GetByCustomerID", squirrel.Eq{"customer_id": customerID}, status)
}

// GetByShopID получает бронирования партнера, опционально фильтруя по статусу
func (r *Repository) GetByShopID(ctx context.Context, shopID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return r.listWhere(ctx, "GetByShopID", squirrel.Eq{"shop_id": shopID}, status)
}

// ListOverdue возвращает все открытые холды с истекшим дедлайном.
// Используется sweeper-ом; выборка без блокировки, атомарность
// обеспечивает условный Transition.
func (r *Repository) ListOverdue(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusPaymentHeld}).
		Where(squirrel.Lt{"expiry_time": now}).
		OrderBy("expiry_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOverdue - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverdue - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// Transition атомарно переводит бронирование из payment_held в указанный
// терминальный статус. Сравнение со старым статусом и запись выполняются
// одним UPDATE (optimistic concurrency): из двух гонящихся переходов
// выигрывает ровно один, проигравший получает ErrStaleTransition.
func (r *Repository) Transition(ctx context.Context, id string, patch TransitionPatch) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	update := psqlbuilder.Update("bookings").
		Set("status", patch.To).
		Set("payment_status", patch.PaymentStatus).
		Set("status_reason", patch.Reason).
		Set("status_changed_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusPaymentHeld})

	if patch.NotExpiredAfter != nil {
		update = update.Where(squirrel.GtOrEq{"expiry_time": *patch.NotExpiredAfter})
	}
	if patch.ExpiredBefore != nil {
		update = update.Where(squirrel.Lt{"expiry_time": *patch.ExpiredBefore})
	}

	query, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Transition - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Transition - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Transition - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Различаем "записи нет" и "условие перехода не выполнено"
		exists, err := r.exists(ctx, executor, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrBookingNotFound
		}
		return ErrStaleTransition
	}

	return nil
}

func (r *Repository) listWhere(ctx context.Context, method string, where squirrel.Eq, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where).
		OrderBy("status_changed_at DESC, created_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

func (r *Repository) exists(ctx context.Context, executor DBExecutor, id string) (bool, error) {
	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists - scan: %v", ErrScanRow, err)
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner, method string) (*domain.Booking, error) {
	var (
		b                          domain.Booking
		rawStatus, rawPayment      string
		createdAt, statusChangedAt sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.CustomerID,
		&b.CustomerName,
		&b.ShopID,
		&b.ShopName,
		&b.ServiceName,
		&b.Price,
		&b.BookingDate,
		&b.StartTime,
		&rawStatus,
		&rawPayment,
		&b.TransactionID,
		&b.StatusReason,
		&b.IdempotencyKey,
		&createdAt,
		&b.ExpiryTime,
		&statusChangedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, method, err)
	}

	if err := normalizeStatuses(&b, rawStatus, rawPayment); err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.StatusChangedAt = statusChangedAt.Time

	return &b, nil
}

func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows, "scanBookings")
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// normalizeStatuses приводит статусы из БД к каноническим enum-ам.
// Легаси-варианты ("approved", "Cancelled") мигрируются на чтении.
func normalizeStatuses(b *domain.Booking, rawStatus, rawPayment string) error {
	status, err := domain.NormalizeBookingStatus(rawStatus)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}
	payment, err := domain.NormalizePaymentStatus(rawPayment)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}
	b.Status = status
	b.PaymentStatus = payment
	return nil
}
