package create_allocation

import "fmt"

// maxNotesLength предел длины заметок при создании брони
const maxNotesLength = 500

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BedID <= 0 {
		return fmt.Errorf("%w: bedID must be positive", ErrInvalidInput)
	}

	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.CustomerName == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}

	if req.ServicePackageID != nil && *req.ServicePackageID <= 0 {
		return fmt.Errorf("%w: servicePackageID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.EndTime.IsZero() {
		return fmt.Errorf("%w: endTime is required", ErrInvalidInput)
	}

	// Нулевые и вывернутые окна отклоняются до любых обращений к хранилищу
	if !req.EndTime.After(req.StartTime) {
		return ErrInvalidWindow
	}

	if req.Notes != nil && len(*req.Notes) > maxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, maxNotesLength)
	}

	return nil
}
