package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundCurrency(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{10.004, 10.0},
		{10.005, 10.01},
		{19.999, 20.0},
		{0, 0},
		{-2.675, -2.68},
		{99.99, 99.99},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RoundCurrency(tt.input), "RoundCurrency(%v)", tt.input)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{50, "50"},
		{30.5, "30.5"},
		{19.99, "19.99"},
		{0, "0"},
		{100.009, "100.01"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatAmount(tt.input), "FormatAmount(%v)", tt.input)
	}
}

func TestFormatEuro(t *testing.T) {
	assert.Equal(t, "50€", FormatEuro(50))
	assert.Equal(t, "9.9€", FormatEuro(9.90))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "19.90 €", FormatPrice(19.9))
	assert.Equal(t, "50.00 €", FormatPrice(50))
}
