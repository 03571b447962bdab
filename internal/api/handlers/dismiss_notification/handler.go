package dismiss_notification

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bbconnect/BBC-BookingService/internal/api/handlers"
	"github.com/bbconnect/BBC-BookingService/internal/api/middleware"
	"github.com/bbconnect/BBC-BookingService/internal/service/notifications"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidInput  = "некорректный ID уведомления"
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

// Handle POST /api/v1/notifications/{notificationId}/dismiss
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["notificationId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /notifications/{id}/dismiss - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Dismiss(r.Context(), userID, notificationID); err != nil {
		switch {
		case errors.Is(err, notifications.ErrInvalidInput):
			h.logger.Warn("POST /notifications/{id}/dismiss - Invalid input: error=%v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /notifications/{id}/dismiss - Failed to dismiss: user_id=%s, notification_id=%s, error=%v",
				userID, notificationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /notifications/{id}/dismiss - Notification dismissed: user_id=%s, notification_id=%s",
		userID, notificationID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
