package get_available_beds

import (
	"net/http"
	"time"

	"github.com/m04kA/O2Spa-SchedulingService/internal/api/handlers"
)

const msgInvalidWindow = "некорректное временное окно"

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

// Handle GET /api/v1/beds/available?start=...&end=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidWindow)
		return
	}

	end, err := time.Parse(time.RFC3339, query.Get("end"))
	if err != nil || !end.After(start) {
		handlers.RespondBadRequest(w, msgInvalidWindow)
		return
	}

	beds, err := h.service.AvailableBeds(r.Context(), start, end)
	if err != nil {
		h.logger.Error("GET /beds/available - Failed to list available beds: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	result := make([]Bed, 0, len(beds))
	for _, b := range beds {
		result = append(result, FromDomain(b))
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
