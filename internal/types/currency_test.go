package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCurrencyCode(t *testing.T) {
	assert.Equal(t, "USD", NormalizeCurrencyCode("usd"))
	assert.Equal(t, "EUR", NormalizeCurrencyCode(" eur "))
	assert.Equal(t, "GBP", NormalizeCurrencyCode("GBP"))
}

func TestIsValidCurrencyCode(t *testing.T) {
	assert.True(t, IsValidCurrencyCode("usd"))
	assert.True(t, IsValidCurrencyCode("JPY"))
	assert.False(t, IsValidCurrencyCode("DOLLARS"))
	assert.False(t, IsValidCurrencyCode(""))
}

func TestGetCurrencySymbol(t *testing.T) {
	assert.Equal(t, "$", GetCurrencySymbol("usd"))
	assert.Equal(t, "€", GetCurrencySymbol("EUR"))
	// unknown codes fall back to the code itself
	assert.Equal(t, "XTS", GetCurrencySymbol("XTS"))
}
