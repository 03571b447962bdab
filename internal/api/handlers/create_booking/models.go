package create_booking

import (
	usecase "github.com/bbconnect/BBC-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest тело запроса на создание бронирования
type CreateBookingRequest struct {
	CustomerName   string  `json:"customerName"`
	ShopID         string  `json:"shopId"`
	ShopName       string  `json:"shopName"`
	ServiceName    string  `json:"serviceName"`
	Price          float64 `json:"price"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	IdempotencyKey string  `json:"idempotencyKey"`
}

// ToUseCaseRequest конвертирует в модель usecase
func (r *CreateBookingRequest) ToUseCaseRequest(customerID string) *usecase.CreateBookingRequest {
	return &usecase.CreateBookingRequest{
		CustomerID:     customerID,
		CustomerName:   r.CustomerName,
		ShopID:         r.ShopID,
		ShopName:       r.ShopName,
		ServiceName:    r.ServiceName,
		Price:          r.Price,
		Date:           r.Date,
		Time:           r.Time,
		IdempotencyKey: r.IdempotencyKey,
	}
}
