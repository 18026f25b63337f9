package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹0"},
		{"450", "₹450"},
		{"999", "₹999"},
		{"1000", "₹1,000"},
		{"99999", "₹99,999"},
		{"100000", "₹1,00,000"},
		{"1234567", "₹12,34,567"},
		{"12345678.5", "₹1,23,45,678.50"},
		{"1000000000", "₹1,00,00,00,000"},
		{"220.5", "₹220.50"},
		{"150.00", "₹150"},
		{"99.999", "₹100"},
		{"-100000", "-₹1,00,000"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := decimal.NewFromString(tt.in)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, FormatINR(v))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"50", "50.0%"},
		{"12.34", "12.3%"},
		{"-25", "-25.0%"},
		{"0", "0.0%"},
	}

	for _, tt := range tests {
		v, err := decimal.NewFromString(tt.in)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, FormatPercent(v))
	}
}
