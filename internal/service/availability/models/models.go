package models

import (
	"time"

	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
)

// AllocationSummary краткое описание брони для отображения
type AllocationSummary struct {
	ID            int64     `json:"id"`
	BookingNumber string    `json:"bookingNumber"`
	CustomerName  string    `json:"customerName"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
}

// FromDomainAllocation конвертирует доменную бронь в summary
func FromDomainAllocation(a *domain.Allocation) *AllocationSummary {
	return &AllocationSummary{
		ID:            a.ID,
		BookingNumber: a.BookingNumber,
		CustomerName:  a.CustomerName,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Status:        string(a.Status),
		PaymentStatus: string(a.PaymentStatus),
	}
}

// Conflict описание конфликтующей брони. Возвращается структурой,
// а не голым bool, чтобы вызывающая сторона могла объяснить конфликт
// человеку.
type Conflict struct {
	AllocationID  int64     `json:"allocationId"`
	BookingNumber string    `json:"bookingNumber"`
	CustomerName  string    `json:"customerName"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
}

// ConflictFromDomain конвертирует доменную бронь в описание конфликта
func ConflictFromDomain(a *domain.Allocation) Conflict {
	return Conflict{
		AllocationID:  a.ID,
		BookingNumber: a.BookingNumber,
		CustomerName:  a.CustomerName,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
	}
}

// BedWithStatus кровать с выведенным статусом для списка зала
type BedWithStatus struct {
	BedID             int64              `json:"bedId"`
	DisplayLabel      string             `json:"displayLabel"`
	GridRow           int                `json:"gridRow"`
	GridCol           int                `json:"gridCol"`
	Type              string             `json:"type"`
	Status            domain.BedStatus   `json:"status"`
	CurrentAllocation *AllocationSummary `json:"currentAllocation,omitempty"`
}

// ScheduleSlot слот дневного расписания кровати
type ScheduleSlot struct {
	SlotStart   time.Time          `json:"slotStart"`
	SlotEnd     time.Time          `json:"slotEnd"`
	IsAvailable bool               `json:"isAvailable"`
	IsPast      bool               `json:"isPast"`
	Allocation  *AllocationSummary `json:"allocation,omitempty"`
}
