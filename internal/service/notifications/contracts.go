package notifications

import (
	"context"

	"github.com/bbconnect/BBC-BookingService/internal/domain"
	notificationRepo "github.com/bbconnect/BBC-BookingService/internal/infra/storage/notification"
)

// BookingRepository интерфейс чтения бронирований пользователя
type BookingRepository interface {
	GetByCustomerID(ctx context.Context, customerID string, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByShopID(ctx context.Context, shopID string, status *domain.BookingStatus) ([]*domain.Booking, error)
}

// NotificationRepository интерфейс хранилища бродкастов и скрытых уведомлений
type NotificationRepository interface {
	CreateBroadcast(ctx context.Context, b *notificationRepo.Broadcast) (*notificationRepo.Broadcast, error)
	ListBroadcasts(ctx context.Context) ([]*notificationRepo.Broadcast, error)
	Dismiss(ctx context.Context, userID, notificationID string) error
	ListDismissed(ctx context.Context, userID string) ([]string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
