package coerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDate_KnownLayouts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ymd with seconds", "2024/03/01 14:30:00", "2024-03-01 14:30"},
		{"dmy", "01/03/2024", "2024-03-01 00:00"},
		{"dmy with 12h time", "01/03/2024 2:30 PM", "2024-03-01 14:30"},
		{"dmy with 24h time", "01/03/2024 14:30", "2024-03-01 14:30"},
		{"ymd slash", "2024/03/01", "2024-03-01 00:00"},
		{"dmy hyphen", "01-03-2024", "2024-03-01 00:00"},
		{"ymd hyphen with seconds", "2024-03-01 14:30:00", "2024-03-01 14:30"},
		{"ymd hyphen date only", "2024-03-01", "2024-03-01 00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Date(tt.input))
		})
	}
}

func TestDate_ArabicIndicDigits(t *testing.T) {
	// ٠١/٠٣/٢٠٢٤ == 01/03/2024
	got := Date("٠١/٠٣/٢٠٢٤")
	assert.Equal(t, "2024-03-01 00:00", got)
}

func TestDate_ISOFallback(t *testing.T) {
	assert.Equal(t, "2024-03-01 14:30", Date("2024-03-01T14:30:00Z"))
	assert.Equal(t, "2024-03-01 14:30", Date("2024-03-01T14:30:00.123456Z"))
}

func TestDate_ISOWithOffsetKeepsWallClock(t *testing.T) {
	assert.Equal(t, "2024-03-01 14:30", Date("2024-03-01T14:30:00+03:00"))
	assert.Equal(t, "2024-03-01 14:30", Date("2024-03-01T14:30+03:00"))
	assert.Equal(t, "2024-03-01 14:30", Date("2024-03-01T14:30:00-05:00"))
}

func TestDate_UnparseablePassesThrough(t *testing.T) {
	// best-effort passthrough: unparsed input comes back verbatim
	assert.Equal(t, "next tuesday", Date("next tuesday"))
	assert.Equal(t, "", Date(""))
}

func TestDate_DoubleSpaceCollapsed(t *testing.T) {
	assert.Equal(t, "2024-03-01 14:30", Date("01/03/2024  14:30"))
}
