package get_shop_requests

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bbconnect/BBC-BookingService/internal/api/handlers"
	"github.com/bbconnect/BBC-BookingService/internal/api/middleware"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/shops/{shopId}/requests
//
// Живой список открытых холдов партнера с оставшимся временем на ответ
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID := mux.Vars(r)["shopId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /shops/{id}/requests - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if userID != shopID {
		h.logger.Warn("GET /shops/{id}/requests - Access denied: shop_id=%s, user_id=%s", shopID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	resp, err := h.service.GetShopRequests(r.Context(), shopID)
	if err != nil {
		h.logger.Error("GET /shops/{id}/requests - Failed to get requests: shop_id=%s, error=%v",
			shopID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /shops/{id}/requests - Requests retrieved: shop_id=%s, count=%d",
		shopID, len(resp.Requests))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
