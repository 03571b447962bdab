package create_booking

import (
	"time"

	"github.com/bbconnect/BBC-BookingService/internal/domain"
)

// CreateBookingRequest запрос на создание бронирования
type CreateBookingRequest struct {
	CustomerID   string
	CustomerName string  `json:"customerName"`
	ShopID       string  `json:"shopId"`
	ShopName     string  `json:"shopName"`
	ServiceName  string  `json:"serviceName"`
	Price        float64 `json:"price"`
	Date         string  `json:"date"` // "2026-03-10"
	Time         string  `json:"time"` // "14:00"

	// Ключ идемпотентности клиента: повтор запроса с тем же ключом
	// возвращает уже созданную запись вместо второго списания
	IdempotencyKey string `json:"idempotencyKey"`
}

// CreateBookingResponse ответ с созданным бронированием
type CreateBookingResponse struct {
	ID            string  `json:"id"`
	CustomerID    string  `json:"customerId"`
	CustomerName  string  `json:"customerName"`
	ShopID        string  `json:"shopId"`
	ShopName      string  `json:"shopName"`
	ServiceName   string  `json:"serviceName"`
	Price         float64 `json:"price"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	TransactionID string  `json:"transactionId"`
	ExpiryTime    string  `json:"expiryTime"` // ISO 8601
}

func fromDomainBooking(b *domain.Booking) *CreateBookingResponse {
	return &CreateBookingResponse{
		ID:            b.ID,
		CustomerID:    b.CustomerID,
		CustomerName:  b.CustomerName,
		ShopID:        b.ShopID,
		ShopName:      b.ShopName,
		ServiceName:   b.ServiceName,
		Price:         b.Price,
		Date:          b.BookingDate.Format(domain.DateFormat),
		Time:          b.StartTime.String(),
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		TransactionID: b.TransactionID,
		ExpiryTime:    b.ExpiryTime.Format(time.RFC3339),
	}
}
