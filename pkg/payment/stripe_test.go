package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountToCents(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{19.99, 1999},
		{0.1, 10},
		{0.29, 29},
		{1234.56, 123456},
		{50, 5000},
		{0, 0},
		{4.005, 400}, // 4.005*100 is 400.49999... in float64
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, amountToCents(tt.amount), "amount %v", tt.amount)
	}
}
