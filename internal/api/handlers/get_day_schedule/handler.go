package get_day_schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/O2Spa-SchedulingService/internal/api/handlers"
	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
	uc "github.com/m04kA/O2Spa-SchedulingService/internal/usecase/get_day_schedule"
)

const (
	msgInvalidBedID = "некорректный ID кровати"
	msgInvalidDate  = "некорректная дата, ожидается YYYY-MM-DD"
	msgInvalidAt    = "некорректный параметр at"
	msgBedNotFound  = "кровать не найдена"
)

type Handler struct {
	usecase UseCase
	logger  Logger
}

func NewHandler(usecase UseCase, logger Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger,
	}
}

// Handle GET /api/v1/beds/{bedId}/schedule?date=YYYY-MM-DD
// Необязательный параметр at (RFC3339) переопределяет "now" — для тестирования
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bedID, err := strconv.ParseInt(vars["bedId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /beds/{id}/schedule - Invalid bed ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBedID)
		return
	}

	query := r.URL.Query()

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &uc.Request{BedID: bedID, Date: date}

	if raw := query.Get("at"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidAt)
			return
		}
		req.At = &at
	}

	resp, err := h.usecase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, uc.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, uc.ErrBedNotFound):
			h.logger.Warn("GET /beds/{id}/schedule - Bed not found: bed_id=%d", bedID)
			handlers.RespondNotFound(w, msgBedNotFound)

		default:
			h.logger.Error("GET /beds/{id}/schedule - Failed to build schedule: bed_id=%d, error=%v", bedID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
