package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveShift(t *testing.T) {
	tests := []struct {
		hour int
		want Shift
	}{
		{0, ShiftNight},
		{4, ShiftNight},
		{5, ShiftMorning},
		{6, ShiftMorning},
		{11, ShiftMorning},
		{12, ShiftAfternoon},
		{13, ShiftAfternoon},
		{16, ShiftAfternoon},
		{17, ShiftEvening},
		{18, ShiftEvening},
		{20, ShiftEvening},
		{21, ShiftNight},
		{23, ShiftNight},
	}

	for _, tt := range tests {
		at := time.Date(2025, 3, 10, tt.hour, 30, 0, 0, time.UTC)
		assert.Equal(t, tt.want, DeriveShift(at), "hour %d", tt.hour)
	}
}

func TestInventory_IsLowStock(t *testing.T) {
	inv := &Inventory{CurrentStock: 5, ReorderLevel: 10}
	assert.True(t, inv.IsLowStock())

	inv.CurrentStock = 10
	assert.True(t, inv.IsLowStock(), "stock equal to reorder level is low")

	inv.CurrentStock = 11
	assert.False(t, inv.IsLowStock())
}

func TestInventory_RecomputeTotalValue(t *testing.T) {
	inv := &Inventory{CurrentStock: 25, CostPerUnit: 4}
	inv.RecomputeTotalValue()
	assert.Equal(t, float64(100), inv.TotalValue)
}
