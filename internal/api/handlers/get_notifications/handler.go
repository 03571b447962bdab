package get_notifications

import (
	"net/http"
	"time"

	"github.com/bbconnect/BBC-BookingService/internal/api/handlers"
	"github.com/bbconnect/BBC-BookingService/internal/api/middleware"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidSince  = "некорректная отметка времени since"
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

// Handle GET /api/v1/notifications?since=2026-03-10T12:00:00Z
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /notifications - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.logger.Warn("GET /notifications - Invalid since mark: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSince)
			return
		}
		since = &parsed
	}

	resp, err := h.service.List(r.Context(), userID, since)
	if err != nil {
		h.logger.Error("GET /notifications - Failed to list notifications: user_id=%s, error=%v",
			userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /notifications - Notifications retrieved: user_id=%s, count=%d, alert=%t",
		userID, len(resp.Notifications), resp.Alert)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
