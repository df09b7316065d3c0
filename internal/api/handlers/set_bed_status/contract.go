package set_bed_status

import (
	"context"

	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
)

// BedCatalog интерфейс каталога кроватей.
// UpdateStatus — единственный путь, которым кровать входит в maintenance
// и выходит из него; автоматический refresh этот статус не трогает.
type BedCatalog interface {
	UpdateStatus(ctx context.Context, id int64, status domain.BedStatus) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
