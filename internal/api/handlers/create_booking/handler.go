package create_booking

import (
	"errors"
	"net/http"

	"github.com/bbconnect/BBC-BookingService/internal/api/handlers"
	"github.com/bbconnect/BBC-BookingService/internal/api/middleware"
	usecase "github.com/bbconnect/BBC-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgInvalidInput        = "некорректные данные бронирования"
	msgSlotNotBookable     = "слот недоступен для бронирования"
	msgSlotTaken           = "слот уже занят"
	msgPaymentNotConfirmed = "платеж не подтвержден, бронирование не создано"
)

type Handler struct {
	usecase CreateBookingUseCase
	logger  Logger
}

func NewHandler(uc CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: uc,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Создаем бронирование
	booking, err := h.usecase.Execute(r.Context(), req.ToUseCaseRequest(customerID))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, usecase.ErrInvalidSlot):
			h.logger.Warn("POST /bookings - Slot not bookable: shop_id=%s, date=%s, time=%s",
				req.ShopID, req.Date, req.Time)
			handlers.RespondBadRequest(w, msgSlotNotBookable)

		case errors.Is(err, usecase.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: shop_id=%s, date=%s, time=%s",
				req.ShopID, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, usecase.ErrPaymentNotConfirmed):
			h.logger.Info("POST /bookings - Payment not confirmed: customer_id=%s", customerID)
			handlers.RespondPaymentRequired(w, msgPaymentNotConfirmed)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%s, error=%v",
				customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, customer_id=%s",
		booking.ID, customerID)
	handlers.RespondJSON(w, http.StatusCreated, booking)
}
