package sheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateSerial(t *testing.T) {
	// 45306 is 15 January 2024 in the 1900 date system.
	got, err := ParseDate("45306")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), *got)
}

func TestParseDateText(t *testing.T) {
	for _, raw := range []string{"15/01/2024", "15.01.2024", "2024-01-15", "15 January 2024"} {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		require.NotNil(t, got, raw)
		assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), *got, raw)
	}
}

func TestParseDateBlankIsNotAnError(t *testing.T) {
	got, err := ParseDate("   ")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseDateGarbage(t *testing.T) {
	_, err := ParseDate("next tuesday")
	assert.Error(t, err)
}

func TestParseDueDatePaidMarker(t *testing.T) {
	for _, raw := range []string{"paid", "Paid", "PAID", " paid "} {
		due, err := ParseDueDate(raw)
		require.NoError(t, err, raw)
		assert.True(t, due.Paid, raw)
		assert.Nil(t, due.Date, raw)
	}
}

func TestParseDueDateDate(t *testing.T) {
	due, err := ParseDueDate("45306")
	require.NoError(t, err)
	assert.False(t, due.Paid)
	require.NotNil(t, due.Date)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), *due.Date)
}

func TestParseDueDateBlank(t *testing.T) {
	due, err := ParseDueDate("")
	require.NoError(t, err)
	assert.True(t, due.IsZero())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"100", "100"},
		{"99.95", "99.95"},
		{"1,234.50", "1234.5"},
		{"£250.00", "250"},
		{"-12.5", "-12.5"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got.String(), tt.raw)
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "bad", "12..3"} {
		_, err := ParseAmount(raw)
		assert.Error(t, err, raw)
	}
}
