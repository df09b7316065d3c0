package domain

import (
	"fmt"
	"time"
)

// BedStatus represents the presentation status of a therapy bed
type BedStatus string

const (
	BedStatusAvailable   BedStatus = "available"
	BedStatusOccupied    BedStatus = "occupied"
	BedStatusBookedSoon  BedStatus = "booked_soon"
	BedStatusMaintenance BedStatus = "maintenance"
)

// Bed represents a bookable oxygen-therapy bed in the venue
type Bed struct {
	ID           int64
	Number       int
	DisplayLabel *string // NULL = label строится из номера
	GridRow      int     // Позиция в сетке зала (только для отображения)
	GridCol      int
	Type         string
	Status       BedStatus

	DeletedAt *time.Time // NULL = кровать активна

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Label returns the display label, falling back to a generated one
func (b *Bed) Label() string {
	if b.DisplayLabel != nil && *b.DisplayLabel != "" {
		return *b.DisplayLabel
	}
	return fmt.Sprintf("Bed %d", b.Number)
}

// InMaintenance returns true if the bed is flagged for maintenance.
// The flag is operator-controlled and sticky: automatic status refresh
// must never overwrite it.
func (b *Bed) InMaintenance() bool {
	return b.Status == BedStatusMaintenance
}

// IsRetired returns true if the bed has been soft-deleted
func (b *Bed) IsRetired() bool {
	return b.DeletedAt != nil
}

// IsValidBedStatus returns true if the value belongs to the BedStatus domain
func IsValidBedStatus(s string) bool {
	switch BedStatus(s) {
	case BedStatusAvailable, BedStatusOccupied, BedStatusBookedSoon, BedStatusMaintenance:
		return true
	default:
		return false
	}
}
