package bookings

import (
	"context"
	"time"

	"github.com/bbconnect/BBC-BookingService/internal/domain"
	bookingRepo "github.com/bbconnect/BBC-BookingService/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByCustomerID(ctx context.Context, customerID string, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByShopID(ctx context.Context, shopID string, status *domain.BookingStatus) ([]*domain.Booking, error)
	ListOverdue(ctx context.Context, now time.Time) ([]*domain.Booking, error)
	Transition(ctx context.Context, id string, patch bookingRepo.TransitionPatch) error
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
