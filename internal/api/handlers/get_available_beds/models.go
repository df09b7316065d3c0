package get_available_beds

import "github.com/m04kA/O2Spa-SchedulingService/internal/domain"

// Bed модель свободной кровати в ответе
type Bed struct {
	BedID        int64  `json:"bedId"`
	DisplayLabel string `json:"displayLabel"`
	GridRow      int    `json:"gridRow"`
	GridCol      int    `json:"gridCol"`
	Type         string `json:"type"`
}

// FromDomain конвертирует доменную кровать в модель ответа
func FromDomain(b *domain.Bed) Bed {
	return Bed{
		BedID:        b.ID,
		DisplayLabel: b.Label(),
		GridRow:      b.GridRow,
		GridCol:      b.GridCol,
		Type:         b.Type,
	}
}
