package allocation

import "errors"

var (
	// ErrAllocationNotFound возвращается, когда бронь не найдена
	ErrAllocationNotFound = errors.New("allocation.repository: allocation not found")

	// ErrInvalidWindow возвращается, когда конец окна не строго позже начала.
	// Такая бронь отклоняется до обращения к БД и никогда не сохраняется.
	ErrInvalidWindow = errors.New("allocation.repository: end time must be strictly after start time")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("allocation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("allocation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("allocation.repository: failed to scan row")
)
