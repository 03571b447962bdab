package create_broadcast

import (
	"context"

	"github.com/bbconnect/BBC-BookingService/internal/service/notifications/models"
)

type NotificationService interface {
	CreateBroadcast(ctx context.Context, req *models.CreateBroadcastRequest) (*models.BroadcastResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
