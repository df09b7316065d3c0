package check_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/O2Spa-SchedulingService/internal/api/handlers"
	"github.com/m04kA/O2Spa-SchedulingService/internal/service/availability"
)

const (
	msgInvalidBedID     = "некорректный ID кровати"
	msgInvalidWindow    = "некорректное временное окно"
	msgInvalidExcluding = "некорректный параметр excluding"
	msgBedNotFound      = "кровать не найдена"
)

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

// Handle GET /api/v1/beds/{bedId}/availability?start=...&end=...&excluding=...
// start и end — RFC3339; excluding исключает одну бронь из проверки
// (повторная валидация при редактировании)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bedID, err := strconv.ParseInt(vars["bedId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /beds/{id}/availability - Invalid bed ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBedID)
		return
	}

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

	var excludingID *int64
	if raw := query.Get("excluding"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidExcluding)
			return
		}
		excludingID = &id
	}

	available, conflicts, err := h.service.IsAvailable(r.Context(), bedID, start, end, excludingID)
	if err != nil {
		if errors.Is(err, availability.ErrBedNotFound) {
			h.logger.Warn("GET /beds/{id}/availability - Bed not found: bed_id=%d", bedID)
			handlers.RespondNotFound(w, msgBedNotFound)
			return
		}
		h.logger.Error("GET /beds/{id}/availability - Failed to check availability: bed_id=%d, error=%v", bedID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Response{
		Available: available,
		Conflicts: conflicts,
	})
}
