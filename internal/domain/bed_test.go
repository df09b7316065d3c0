package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBed_Label(t *testing.T) {
	label := "VIP-кровать у окна"
	empty := ""

	testCases := []struct {
		name     string
		bed      Bed
		expected string
	}{
		{
			name:     "explicit label wins",
			bed:      Bed{Number: 3, DisplayLabel: &label},
			expected: "VIP-кровать у окна",
		},
		{
			name:     "nil label falls back to number",
			bed:      Bed{Number: 3},
			expected: "Bed 3",
		},
		{
			name:     "empty label falls back to number",
			bed:      Bed{Number: 7, DisplayLabel: &empty},
			expected: "Bed 7",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.bed.Label())
		})
	}
}

func TestBed_InMaintenance(t *testing.T) {
	assert.True(t, (&Bed{Status: BedStatusMaintenance}).InMaintenance())
	assert.False(t, (&Bed{Status: BedStatusAvailable}).InMaintenance())
	assert.False(t, (&Bed{Status: BedStatusOccupied}).InMaintenance())
}

func TestBed_IsRetired(t *testing.T) {
	now := time.Now()
	assert.True(t, (&Bed{DeletedAt: &now}).IsRetired())
	assert.False(t, (&Bed{}).IsRetired())
}

func TestIsValidBedStatus(t *testing.T) {
	assert.True(t, IsValidBedStatus("available"))
	assert.True(t, IsValidBedStatus("occupied"))
	assert.True(t, IsValidBedStatus("booked_soon"))
	assert.True(t, IsValidBedStatus("maintenance"))
	assert.False(t, IsValidBedStatus("broken"))
	assert.False(t, IsValidBedStatus(""))
}
