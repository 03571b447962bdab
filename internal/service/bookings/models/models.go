package models

import (
	"time"

	"github.com/bbconnect/BBC-BookingService/internal/domain"
	"github.com/bbconnect/BBC-BookingService/pkg/types"
)

// Request модели

// ConfirmRequest запрос партнера на подтверждение бронирования
type ConfirmRequest struct {
	ShopID string `json:"shopId"`
}

// DeclineRequest запрос партнера на отклонение бронирования
type DeclineRequest struct {
	ShopID string `json:"shopId"`
	Reason string `json:"reason"`
}

// AbandonIntent данные прерванной попытки бронирования, для которой запись
// еще не создана (клиент закрыл платежный экран до подтверждения)
type AbandonIntent struct {
	CustomerName string
	ShopID       string
	ShopName     string
	ServiceName  string
	Price        float64
	Date         time.Time
	StartTime    types.TimeString
}

// AbandonRequest запрос на отмену платежного флоу.
// Либо BookingID (запись уже есть), либо Intent (записи еще нет).
type AbandonRequest struct {
	CustomerID string
	BookingID  *string
	Intent     *AbandonIntent
}

// GetCustomerBookingsRequest запрос истории бронирований клиента
type GetCustomerBookingsRequest struct {
	CustomerID string
	Status     *string
}

// GetShopBookingsRequest запрос бронирований партнера
type GetShopBookingsRequest struct {
	ShopID string
	Status *string
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            string  `json:"id"`
	CustomerID    string  `json:"customerId"`
	CustomerName  string  `json:"customerName"`
	ShopID        string  `json:"shopId"`
	ShopName      string  `json:"shopName"`
	ServiceName   string  `json:"serviceName"`
	Price         float64 `json:"price"`
	Date          string  `json:"date"` // "2026-03-10"
	Time          string  `json:"time"` // "14:00"
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	TransactionID string  `json:"transactionId,omitempty"`
	StatusReason  *string `json:"statusReason,omitempty"`
	CreatedAt     string  `json:"createdAt"`  // ISO 8601
	ExpiryTime    string  `json:"expiryTime"` // ISO 8601
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// PendingRequestResponse открытый холд партнера с оставшимся временем ответа
type PendingRequestResponse struct {
	BookingResponse
	RemainingSeconds int64 `json:"remainingSeconds"`
}

// PendingRequestListResponse живой список запросов партнера
type PendingRequestListResponse struct {
	Requests []PendingRequestResponse `json:"requests"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
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
		StatusReason:  b.StatusReason,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		ExpiryTime:    b.ExpiryTime.Format(time.RFC3339),
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainPendingRequests конвертирует открытые холды в DTO с оставшимся
// временем до дедлайна (clamped at zero)
func FromDomainPendingRequests(bookings []*domain.Booking, now time.Time) *PendingRequestListResponse {
	resp := &PendingRequestListResponse{
		Requests: make([]PendingRequestResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		bookingResp := FromDomainBooking(booking)
		if bookingResp == nil {
			continue
		}
		resp.Requests = append(resp.Requests, PendingRequestResponse{
			BookingResponse:  *bookingResp,
			RemainingSeconds: int64(booking.RemainingEscrow(now).Seconds()),
		})
	}

	return resp
}
