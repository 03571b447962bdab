package abandon_booking

import (
	"context"

	"github.com/bbconnect/BBC-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	Abandon(ctx context.Context, req *models.AbandonRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
