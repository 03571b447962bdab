package get_slot_calendar

import (
	"net/http"

	"github.com/bbconnect/BBC-BookingService/internal/api/handlers"
)

type Handler struct {
	usecase SlotCalendarUseCase
	logger  Logger
}

func NewHandler(uc SlotCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: uc,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resp := h.usecase.Execute()

	h.logger.Info("GET /slots - Slot calendar built: days=%d", len(resp.Days))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
