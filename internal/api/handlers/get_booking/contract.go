package get_booking

import (
	"context"

	"github.com/bbconnect/BBC-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetBooking(ctx context.Context, requesterID, bookingID string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
