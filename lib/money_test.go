package lib

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(0))
	assert.Equal(t, "750", FormatAmount(750))
	assert.Equal(t, "12,500", FormatAmount(12500))
	assert.Equal(t, "1,234,567", FormatAmount(1234567))
}

func TestMulAmount(t *testing.T) {
	tests := []struct {
		name     string
		price    uint64
		quantity int
		want     uint64
		ok       bool
	}{
		{"simple", 1500, 2, 3000, true},
		{"zero quantity", 1500, 0, 0, true},
		{"negative quantity", 1500, -1, 0, false},
		{"overflow", math.MaxUint64 / 2, 3, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MulAmount(tt.price, tt.quantity)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAddAmount(t *testing.T) {
	sum, ok := AddAmount(1500, 6000)
	assert.True(t, ok)
	assert.Equal(t, uint64(7500), sum)

	_, ok = AddAmount(math.MaxUint64, 1)
	assert.False(t, ok)
}
