package get_shop_bookings

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
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
	msgInvalidStatus = "некорректный статус"
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

// Handle GET /api/v1/shops/{shopId}/bookings?status=payment_held
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID := mux.Vars(r)["shopId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /shops/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Партнер видит только свои бронирования
	if userID != shopID {
		h.logger.Warn("GET /shops/{id}/bookings - Access denied: shop_id=%s, user_id=%s", shopID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	req := &models.GetShopBookingsRequest{ShopID: shopID}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	resp, err := h.service.GetShopBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /shops/{id}/bookings - Invalid status filter: error=%v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /shops/{id}/bookings - Failed to get bookings: shop_id=%s, error=%v",
				shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/bookings - Bookings retrieved: shop_id=%s, count=%d",
		shopID, len(resp.Bookings))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
