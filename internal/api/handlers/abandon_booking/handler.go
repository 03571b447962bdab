package abandon_booking

import (
	"errors"
	"net/http"

	"github.com/bbconnect/BBC-BookingService/internal/api/handlers"
	"github.com/bbconnect/BBC-BookingService/internal/api/middleware"
	"github.com/bbconnect/BBC-BookingService/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgAlreadyResolved    = "бронирование уже разрешено"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/abandon
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/abandon - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AbandonBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/abandon - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /bookings/abandon - Invalid request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.Abandon(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/abandon - Booking not found: customer_id=%s", customerID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /bookings/abandon - Access denied: customer_id=%s", customerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrStaleTransition):
			h.logger.Warn("POST /bookings/abandon - Already resolved: customer_id=%s", customerID)
			handlers.RespondConflict(w, msgAlreadyResolved)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /bookings/abandon - Invalid input: customer_id=%s, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/abandon - Failed to abandon booking: customer_id=%s, error=%v",
				customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/abandon - Booking abandoned: booking_id=%s, customer_id=%s",
		booking.ID, customerID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
