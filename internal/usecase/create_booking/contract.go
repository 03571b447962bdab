package create_booking

import (
	"context"
	"time"

	"github.com/bbconnect/BBC-BookingService/internal/domain"
	"github.com/bbconnect/BBC-BookingService/internal/integrations/paymentgateway"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error)
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	Charge(ctx context.Context, req *paymentgateway.ChargeRequest) (*paymentgateway.ChargeResult, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
