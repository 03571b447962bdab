package get_notifications

import (
	"context"
	"time"

	"github.com/bbconnect/BBC-BookingService/internal/service/notifications/models"
)

type NotificationService interface {
	List(ctx context.Context, userID string, since *time.Time) (*models.NotificationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
