package postgres

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericStringToMinor_Success(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{"whole units", "100", 10000},
		{"units with fraction", "100.50", 10050},
		{"fraction only", "0.99", 99},
		{"zero", "0", 0},
		{"zero with decimals", "0.00", 0},
		{"small amount", "1.23", 123},
		{"large amount", "9999.99", 999999},
		{"rounding needed", "99.999", 10000},
		{"rounding down", "99.994", 9999},
		{"with whitespace", "  50.25  ", 5025},
		{"negative amount", "-10.50", -1050},
		{"single decimal", "5.5", 550},
		{"three decimals", "5.555", 556},
		// Exact above 2^53 minor units, where float64 cannot represent
		// every integer.
		{"beyond float precision", "90071992547409.93", 9007199254740993},
		{"max representable", "92233720368547758.07", math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := numericStringToMinor(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNumericStringToMinor_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"invalid format", "abc"},
		{"special characters", "$100.00"},
		{"multiple decimals", "10.5.5"},
		{"bare decimal point", "."},
		{"trailing garbage", "1.23abc"},
		{"double sign", "--5.00"},
		{"out of range", "92233720368547758.08"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := numericStringToMinor(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestMinorToNumericString_Success(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{"whole units", 10000, "100.00"},
		{"units with fraction", 10050, "100.50"},
		{"fraction only", 99, "0.99"},
		{"zero", 0, "0.00"},
		{"small amount", 123, "1.23"},
		{"large amount", 999999, "9999.99"},
		{"negative amount", -1050, "-10.50"},
		{"negative fraction", -99, "-0.99"},
		{"single minor unit", 1, "0.01"},
		{"ten minor units", 10, "0.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := minorToNumericString(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestMoneyConversion_RoundTrip(t *testing.T) {
	tests := []int64{0, 1, 10, 100, 999, 1000, 10000, 12345, 999999, -100, -12345, 9007199254740993, math.MaxInt64}

	for _, original := range tests {
		t.Run("roundtrip", func(t *testing.T) {
			str := minorToNumericString(original)
			minor, err := numericStringToMinor(str)
			require.NoError(t, err)
			assert.Equal(t, original, minor, "minor=%d, str=%s, back=%d", original, str, minor)
		})
	}
}
