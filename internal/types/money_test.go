package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCeilCents(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "rounds up mid-cent", in: "1.924125", want: "1.93"},
		{name: "rounds up just above cent", in: "1.7491", want: "1.75"},
		{name: "exact cent unchanged", in: "2.50", want: "2.50"},
		{name: "zero", in: "0", want: "0.00"},
		{name: "tiny fraction becomes a cent", in: "0.0001", want: "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CeilCents(decimal.RequireFromString(tt.in))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestRoundCents(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "half rounds up", in: "2.995", want: "3.00"},
		{name: "below half rounds down", in: "2.9949", want: "2.99"},
		{name: "rate discount", in: "2.9985", want: "3.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundCents(decimal.RequireFromString(tt.in))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "19.99", FormatAmount(decimal.RequireFromString("19.99")))
	assert.Equal(t, "20.00", FormatAmount(decimal.RequireFromString("20")))
	assert.Equal(t, "-5.00", FormatAmount(decimal.RequireFromString("-5")))
}

func TestMinMaxDecimal(t *testing.T) {
	a := decimal.RequireFromString("1.00")
	b := decimal.RequireFromString("2.00")
	assert.True(t, MinDecimal(a, b).Equal(a))
	assert.True(t, MaxDecimal(a, b).Equal(b))
	assert.True(t, MinDecimal(a, a).Equal(a))
}
