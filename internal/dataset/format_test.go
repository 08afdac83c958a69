package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFlightHours(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0000:00:00"},
		{3661, "0001:01:01"},
		{1200 * 3600, "1200:00:00"},
		{1234*3600 + 59*60 + 59.9, "1234:59:59"},
		{12345 * 3600, "12345:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatFlightHours(tt.seconds))
		})
	}
}

func TestFormatAmplitude(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value    float64
		expected string
	}{
		{0, "0.00 g"},
		{999.994, "999.99 g"},
		{1000, "1.00K g"},
		{8123.4, "8.12K g"},
		{2_500_000, "2.50M g"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatAmplitude(tt.value))
		})
	}
}
