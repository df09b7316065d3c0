package reconciler

import "errors"

var (
	// ErrSweepInProgress возвращается, когда предыдущий sweep ещё не завершился.
	// Планировщик не должен запускать пересекающиеся прогоны; этот guard
	// делает эксклюзивность явной и внутри процесса.
	ErrSweepInProgress = errors.New("reconciler: sweep already in progress")

	// ErrInternal возвращается при внутренних ошибках sweep-а
	ErrInternal = errors.New("reconciler: internal error")
)
