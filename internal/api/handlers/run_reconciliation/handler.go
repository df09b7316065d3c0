package run_reconciliation

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/O2Spa-SchedulingService/internal/api/handlers"
	"github.com/m04kA/O2Spa-SchedulingService/internal/service/reconciler"
)

const (
	msgInvalidNow      = "некорректный параметр now"
	msgSweepInProgress = "sweep уже выполняется"
)

type Handler struct {
	runner SweepRunner
	logger Logger
}

func NewHandler(runner SweepRunner, logger Logger) *Handler {
	return &Handler{
		runner: runner,
		logger: logger,
	}
}

// Handle POST /api/v1/reconciliation/run?now=...
// Ручной запуск sweep-а вне расписания. Параметр now (RFC3339) подменяет
// текущий момент — для отладки и проверки сценариев автоотмены.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if raw := r.URL.Query().Get("now"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidNow)
			return
		}
		now = parsed
	}

	report, err := h.runner.Run(r.Context(), now)
	if err != nil {
		if errors.Is(err, reconciler.ErrSweepInProgress) {
			handlers.RespondConflict(w, handlers.ErrorResponse{Error: msgSweepInProgress})
			return
		}
		h.logger.Error("POST /reconciliation/run - Sweep failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}
