package respond_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bbconnect/BBC-BookingService/internal/api/handlers"
	"github.com/bbconnect/BBC-BookingService/internal/api/middleware"
	"github.com/bbconnect/BBC-BookingService/internal/service/bookings"
	"github.com/bbconnect/BBC-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgInvalidInput       = "некорректные данные запроса"

	// Ответ партнера опоздал: холд уже закрыт подтверждением,
	// отклонением или авто-возвратом
	msgStale = "время ответа истекло, бронирование уже разрешено"
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

// HandleConfirm PATCH /api/v1/bookings/{bookingId}/confirm
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	shopID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/confirm - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := h.service.Confirm(r.Context(), bookingID, &models.ConfirmRequest{ShopID: shopID})
	if err != nil {
		h.respondError(w, "PATCH /bookings/{id}/confirm", bookingID, shopID, err)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/confirm - Booking confirmed: booking_id=%s, shop_id=%s",
		bookingID, shopID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

// HandleDecline PATCH /api/v1/bookings/{bookingId}/decline
func (h *Handler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	shopID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/decline - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Тело с причиной опционально
	var req DeclineBookingRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PATCH /bookings/{id}/decline - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	booking, err := h.service.Reject(r.Context(), bookingID, &models.DeclineRequest{
		ShopID: shopID,
		Reason: req.Reason,
	})
	if err != nil {
		h.respondError(w, "PATCH /bookings/{id}/decline", bookingID, shopID, err)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/decline - Booking declined: booking_id=%s, shop_id=%s",
		bookingID, shopID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

func (h *Handler) respondError(w http.ResponseWriter, route, bookingID, shopID string, err error) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		h.logger.Warn("%s - Booking not found: booking_id=%s", route, bookingID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, bookings.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: booking_id=%s, shop_id=%s", route, bookingID, shopID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, bookings.ErrStaleTransition):
		h.logger.Warn("%s - Stale response: booking_id=%s, shop_id=%s", route, bookingID, shopID)
		handlers.RespondConflict(w, msgStale)

	case errors.Is(err, bookings.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: booking_id=%s, error=%v", route, bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("%s - Failed to respond to booking: booking_id=%s, error=%v", route, bookingID, err)
		handlers.RespondInternalError(w)
	}
}
