package create_booking

import (
	"context"

	usecase "github.com/bbconnect/BBC-BookingService/internal/usecase/create_booking"
)

type CreateBookingUseCase interface {
	Execute(ctx context.Context, req *usecase.CreateBookingRequest) (*usecase.CreateBookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
