package domain

import "time"

// AllocationStatus represents the lifecycle status of an allocation
type AllocationStatus string

const (
	StatusConfirmed  AllocationStatus = "confirmed"
	StatusInProgress AllocationStatus = "in_progress"
	StatusCompleted  AllocationStatus = "completed"
	StatusCancelled  AllocationStatus = "cancelled"
)

// PaymentStatus represents the payment state of an allocation.
// The exact partial-payment vocabulary belongs to the invoicing subsystem;
// the scheduling engine only distinguishes the literal value "paid".
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPaid          PaymentStatus = "paid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
)

// IsPaid returns true only for the literal "paid" value
func (p PaymentStatus) IsPaid() bool {
	return p == PaymentPaid
}

// Allocation represents a time-boxed reservation of a bed by a customer
type Allocation struct {
	ID               int64
	BedID            int64
	CustomerID       int64
	ServicePackageID *int64 // NULL = бронь по абонементу

	BookingNumber string
	StartTime     time.Time
	EndTime       time.Time // строго позже StartTime
	Status        AllocationStatus
	PaymentStatus PaymentStatus

	// Denormalized data for conflict reporting and history
	CustomerName string

	Notes *string // append-only аннотации

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the allocation still reserves its time window.
// Unpaid confirmed holds are active: they block the slot for new bookings
// even though they do not mark the bed occupied.
func (a *Allocation) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsCurrent returns true if the allocation is in a present-tense status
func (a *Allocation) IsCurrent() bool {
	return a.Status == StatusConfirmed || a.Status == StatusInProgress
}

// IsTerminal returns true if no further lifecycle transition is possible
func (a *Allocation) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled
}

// Covers returns true if the instant falls inside [StartTime, EndTime)
func (a *Allocation) Covers(t time.Time) bool {
	return !t.Before(a.StartTime) && t.Before(a.EndTime)
}

// Overlaps reports whether the allocation's window overlaps [start, end).
// Half-open interval semantics: an allocation ending exactly when another
// starts does not overlap.
func (a *Allocation) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && a.EndTime.After(start)
}

// IsValidAllocationStatus returns true if the value belongs to the AllocationStatus domain
func IsValidAllocationStatus(s string) bool {
	switch AllocationStatus(s) {
	case StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}
