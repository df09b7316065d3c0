package create_allocation

import (
	"time"

	"github.com/m04kA/O2Spa-SchedulingService/internal/service/availability/models"
)

// Request тело запроса создания брони
type Request struct {
	BedID            int64     `json:"bedId"`
	CustomerID       int64     `json:"customerId"`
	CustomerName     string    `json:"customerName"`
	ServicePackageID *int64    `json:"servicePackageId,omitempty"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Notes            *string   `json:"notes,omitempty"`
}

// ConflictResponse тело ответа 409 со списком конфликтующих броней
type ConflictResponse struct {
	Error     string            `json:"error"`
	Conflicts []models.Conflict `json:"conflicts"`
}
