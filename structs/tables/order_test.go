package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderLine(t *testing.T) {
	item := &MenuItem{ID: 3, Name: "كابتشينو", Price: 2500}

	line := NewOrderLine(item, 3)
	item.Price = 4000

	assert.Equal(t, "كابتشينو", line.ItemName)
	assert.Equal(t, uint64(2500), line.UnitPrice)
	assert.Equal(t, uint64(7500), line.Subtotal)
	if assert.NotNil(t, line.MenuItemID) {
		assert.Equal(t, int64(3), *line.MenuItemID)
	}
}

func TestNewOrder(t *testing.T) {
	lines := []OrderLine{
		{ItemName: "a", Quantity: 1, UnitPrice: 1500, Subtotal: 1500},
		{ItemName: "b", Quantity: 3, UnitPrice: 2000, Subtotal: 6000},
	}

	tests := []struct {
		name       string
		paid       int64
		wantPaid   uint64
		wantChange uint64
	}{
		{"exact", 7500, 7500, 0},
		{"overpaid", 10000, 10000, 2500},
		{"underpaid", 5000, 5000, 0},
		{"nothing", 0, 0, 0},
		{"negative", -100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := NewOrder(lines, tt.paid, "")
			assert.Equal(t, uint64(7500), order.TotalAmount)
			assert.Equal(t, tt.wantPaid, order.AmountPaid)
			assert.Equal(t, tt.wantChange, order.ChangeGiven)
		})
	}
}
