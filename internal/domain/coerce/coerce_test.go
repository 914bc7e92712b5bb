package coerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_NumericPassthrough(t *testing.T) {
	got := Number(115.5)
	require.NotNil(t, got)
	assert.Equal(t, 115.5, *got)

	got = Number(42)
	require.NotNil(t, got)
	assert.Equal(t, 42.0, *got)
}

func TestNumber_Strings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain", "115.00", 115.0},
		{"thousands separator", "1,234.56", 1234.56},
		{"currency suffix", "99.50 SAR", 99.5},
		{"currency and commas", "12,345 SAR", 12345.0},
		{"arabic indic digits", "١١٥.٠٠", 115.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Number(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestNumber_ArabicIndicEqualsASCII(t *testing.T) {
	ascii := Number("1450.75")
	arabic := Number("١٤٥٠.٧٥")
	require.NotNil(t, ascii)
	require.NotNil(t, arabic)
	assert.Equal(t, *ascii, *arabic)
}

func TestNumber_Garbage(t *testing.T) {
	assert.Nil(t, Number("abc"))
	assert.Nil(t, Number(""))
	assert.Nil(t, Number(nil))
	assert.Nil(t, Number([]string{"115"}))
}

func TestNullish_Sentinels(t *testing.T) {
	sentinels := []string{"", "null", "NULL", "None", "nil", "N/A", "na", "-", "—", "غير متوفر", "غير موجود", "  n/a  "}
	for _, s := range sentinels {
		assert.Nil(t, Nullish(s), "expected %q to be nullish", s)
	}
}

func TestNullish_WhitespaceOnlyIsNull(t *testing.T) {
	// trim happens before the sentinel lookup, so "  " reduces to ""
	assert.Nil(t, Nullish("  "))
}

func TestNullish_Passthrough(t *testing.T) {
	got := Nullish("Roberto Coin")
	require.NotNil(t, got)
	assert.Equal(t, "Roberto Coin", *got)

	// surrounding whitespace is only trimmed for the comparison,
	// the original value comes back untouched
	got = Nullish("  Panda  ")
	require.NotNil(t, got)
	assert.Equal(t, "  Panda  ", *got)
}

func TestNullish_NilAndNonString(t *testing.T) {
	assert.Nil(t, Nullish(nil))

	// non-strings are stringified before the sentinel check
	got := Nullish(12)
	require.NotNil(t, got)
	assert.Equal(t, "12", *got)
}
