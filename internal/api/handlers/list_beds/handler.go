package list_beds

import (
	"net/http"
	"time"

	"github.com/m04kA/O2Spa-SchedulingService/internal/api/handlers"
)

const msgInvalidAt = "некорректный параметр at"

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/beds
// Необязательный параметр at (RFC3339) переопределяет "now" — для тестирования
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if raw := r.URL.Query().Get("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.logger.Warn("GET /beds - Invalid at parameter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidAt)
			return
		}
		now = parsed
	}

	beds, err := h.service.ListWithStatus(r.Context(), now)
	if err != nil {
		h.logger.Error("GET /beds - Failed to list beds: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, beds)
}
