package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/bbconnect/BBC-BookingService/pkg/dbmetrics"
	"github.com/bbconnect/BBC-BookingService/pkg/psqlbuilder"
)

// Broadcast административное сообщение для всех пользователей
type Broadcast struct {
	ID        string
	Title     string
	Message   string
	CreatedAt time.Time
}

// Repository репозиторий для бродкастов и скрытых уведомлений
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория уведомлений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBroadcast сохраняет новое административное сообщение
func (r *Repository) CreateBroadcast(ctx context.Context, b *Broadcast) (*Broadcast, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("broadcasts").
		Columns("id", "title", "message").
		Values(b.ID, b.Title, b.Message).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBroadcast - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateBroadcast - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	return b, nil
}

// ListBroadcasts возвращает все бродкасты, последние первыми
func (r *Repository) ListBroadcasts(ctx context.Context) ([]*Broadcast, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "title", "message", "created_at").
		From("broadcasts").
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBroadcasts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBroadcasts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	broadcasts := make([]*Broadcast, 0)
	for rows.Next() {
		var b Broadcast
		var createdAt sql.NullTime
		if err := rows.Scan(&b.ID, &b.Title, &b.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListBroadcasts - scan row: %v", ErrScanRow, err)
		}
		b.CreatedAt = createdAt.Time
		broadcasts = append(broadcasts, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBroadcasts - rows error: %v", ErrScanRow, err)
	}

	return broadcasts, nil
}

// Dismiss помечает уведомление скрытым для пользователя. Идемпотентно.
func (r *Repository) Dismiss(ctx context.Context, userID, notificationID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("notification_dismissals").
		Columns("user_id", "notification_id").
		Values(userID, notificationID).
		Suffix("ON CONFLICT (user_id, notification_id) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Dismiss - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Dismiss - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListDismissed возвращает ID уведомлений, скрытых пользователем
func (r *Repository) ListDismissed(ctx context.Context, userID string) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("notification_id").
		From("notification_dismissals").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListDismissed - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDismissed - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListDismissed - scan row: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDismissed - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}
