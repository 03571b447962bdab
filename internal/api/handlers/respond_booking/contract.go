package respond_booking

import (
	"context"

	"github.com/bbconnect/BBC-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	Confirm(ctx context.Context, bookingID string, req *models.ConfirmRequest) (*models.BookingResponse, error)
	Reject(ctx context.Context, bookingID string, req *models.DeclineRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
