package create_allocation

import "time"

// Request модель запроса на создание брони
type Request struct {
	BedID            int64
	CustomerID       int64
	CustomerName     string
	ServicePackageID *int64 // nil = бронь по абонементу
	StartTime        time.Time
	EndTime          time.Time
	Notes            *string
}

// Response модель ответа с созданной бронью
type Response struct {
	ID               int64     `json:"id"`
	BedID            int64     `json:"bedId"`
	CustomerID       int64     `json:"customerId"`
	ServicePackageID *int64    `json:"servicePackageId,omitempty"`
	BookingNumber    string    `json:"bookingNumber"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"paymentStatus"`
	CustomerName     string    `json:"customerName"`
	Notes            *string   `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
