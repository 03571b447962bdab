package get_shop_requests

import (
	"context"

	"github.com/bbconnect/BBC-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetShopRequests(ctx context.Context, shopID string) (*models.PendingRequestListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
