package create_allocation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m04kA/O2Spa-SchedulingService/internal/api/handlers"
	"github.com/m04kA/O2Spa-SchedulingService/internal/api/middleware"
	uc "github.com/m04kA/O2Spa-SchedulingService/internal/usecase/create_allocation"
)

const (
	msgInvalidBody   = "некорректное тело запроса"
	msgMissingUserID = "отсутствует ID пользователя"
	msgBedNotFound   = "кровать не найдена"
	msgConflict      = "окно пересекается с существующей бронью"
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

// Handle POST /api/v1/allocations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /allocations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var body Request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warn("POST /allocations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.usecase.Execute(r.Context(), &uc.Request{
		BedID:            body.BedID,
		CustomerID:       body.CustomerID,
		CustomerName:     body.CustomerName,
		ServicePackageID: body.ServicePackageID,
		StartTime:        body.StartTime,
		EndTime:          body.EndTime,
		Notes:            body.Notes,
	})

	if err != nil {
		var conflictErr *uc.ConflictError

		switch {
		case errors.As(err, &conflictErr):
			h.logger.Warn("POST /allocations - Conflict: bed_id=%d, operator=%d, conflicts=%d",
				body.BedID, operatorID, len(conflictErr.Conflicts))
			handlers.RespondConflict(w, ConflictResponse{
				Error:     msgConflict,
				Conflicts: conflictErr.Conflicts,
			})

		case errors.Is(err, uc.ErrInvalidWindow), errors.Is(err, uc.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, uc.ErrBedNotFound):
			h.logger.Warn("POST /allocations - Bed not found: bed_id=%d", body.BedID)
			handlers.RespondNotFound(w, msgBedNotFound)

		default:
			h.logger.Error("POST /allocations - Failed to create allocation: bed_id=%d, error=%v",
				body.BedID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /allocations - Allocation created: id=%d, booking=%s, operator=%d",
		resp.ID, resp.BookingNumber, operatorID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
