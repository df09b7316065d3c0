package set_bed_status

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/O2Spa-SchedulingService/internal/api/handlers"
	"github.com/m04kA/O2Spa-SchedulingService/internal/api/middleware"
	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
	"github.com/m04kA/O2Spa-SchedulingService/internal/infra/storage/bed"
)

const (
	msgInvalidBedID  = "некорректный ID кровати"
	msgInvalidBody   = "некорректное тело запроса"
	msgInvalidStatus = "некорректный статус кровати"
	msgBedNotFound   = "кровать не найдена"
)

type Handler struct {
	catalog BedCatalog
	logger  Logger
}

func NewHandler(catalog BedCatalog, logger Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/beds/{bedId}/status
// Ручная смена статуса оператором. Перевод в maintenance переопределяет
// любой автоматически выведенный статус до явного возврата.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bedID, err := strconv.ParseInt(vars["bedId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /beds/{id}/status - Invalid bed ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBedID)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("PATCH /beds/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if !domain.IsValidBedStatus(req.Status) {
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}
	status := domain.BedStatus(req.Status)

	operator, _ := middleware.GetUserID(r.Context())

	if err := h.catalog.UpdateStatus(r.Context(), bedID, status); err != nil {
		switch {
		case errors.Is(err, bed.ErrBedNotFound):
			h.logger.Warn("PATCH /beds/{id}/status - Bed not found: bed_id=%d", bedID)
			handlers.RespondNotFound(w, msgBedNotFound)
		case errors.Is(err, bed.ErrInvalidStatus):
			handlers.RespondBadRequest(w, msgInvalidStatus)
		default:
			h.logger.Error("PATCH /beds/{id}/status - Failed to update status: bed_id=%d, error=%v", bedID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /beds/{id}/status - Status updated: bed_id=%d, status=%s, operator=%d", bedID, status, operator)

	handlers.RespondJSON(w, http.StatusOK, Response{
		BedID:  bedID,
		Status: string(status),
	})
}
