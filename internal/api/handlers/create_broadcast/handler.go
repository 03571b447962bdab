package create_broadcast

import (
	"errors"
	"net/http"

	"github.com/bbconnect/BBC-BookingService/internal/api/handlers"
	"github.com/bbconnect/BBC-BookingService/internal/api/middleware"
	"github.com/bbconnect/BBC-BookingService/internal/service/notifications"
	"github.com/bbconnect/BBC-BookingService/internal/service/notifications/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные сообщения"
)

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/broadcasts
//
// Ручка для внутренней админки, наружу не выставляется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /broadcasts - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateBroadcastRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /broadcasts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	broadcast, err := h.service.CreateBroadcast(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, notifications.ErrInvalidInput):
			h.logger.Warn("POST /broadcasts - Invalid input: error=%v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /broadcasts - Failed to create broadcast: user_id=%s, error=%v",
				userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /broadcasts - Broadcast created: broadcast_id=%s, user_id=%s",
		broadcast.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, broadcast)
}
