package check_availability

import "github.com/m04kA/O2Spa-SchedulingService/internal/service/availability/models"

// Response модель ответа проверки доступности
type Response struct {
	Available bool              `json:"available"`
	Conflicts []models.Conflict `json:"conflicts,omitempty"`
}
