package set_bed_status

// Request тело запроса PATCH /api/v1/beds/{bedId}/status
type Request struct {
	Status string `json:"status"`
}

// Response подтверждение смены статуса
type Response struct {
	BedID  int64  `json:"bed_id"`
	Status string `json:"status"`
}
