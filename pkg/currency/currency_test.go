package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUSD(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$300", 300},
		{"$1,250", 1250},
		{" $99.50 ", 99.5},
		{"150", 150},
		{"USD 2,000", 2000},
	}

	for _, tt := range tests {
		got, err := ParseUSD(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseUSDRejectsGarbage(t *testing.T) {
	_, err := ParseUSD("three hundred")
	assert.Error(t, err)
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$300", FormatUSD(300))
	assert.Equal(t, "$1,250", FormatUSD(1250))
	assert.Equal(t, "$1,000,000", FormatUSD(1000000))
	assert.Equal(t, "-$42", FormatUSD(-42))
	assert.Equal(t, "$100", FormatUSD(99.7))
}
