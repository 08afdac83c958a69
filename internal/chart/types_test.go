package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRange_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		r        Range
		expected bool
	}{
		{name: "ordered bounds", r: Range{Min: 1, Max: 2}, expected: true},
		{name: "empty width", r: Range{Min: 5, Max: 5}, expected: true},
		{name: "inverted bounds", r: Range{Min: 3, Max: 1}, expected: false},
		{name: "NaN min", r: Range{Min: math.NaN(), Max: 1}, expected: false},
		{name: "NaN max", r: Range{Min: 0, Max: math.NaN()}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.r.Valid())
		})
	}
}

func TestRange_Clamp(t *testing.T) {
	t.Parallel()

	bounds := Range{Min: 0, Max: 100}

	tests := []struct {
		name     string
		r        Range
		expected Range
	}{
		{name: "inside is unchanged", r: Range{Min: 10, Max: 20}, expected: Range{Min: 10, Max: 20}},
		{name: "below is shifted up", r: Range{Min: -5, Max: 5}, expected: Range{Min: 0, Max: 10}},
		{name: "above is shifted down", r: Range{Min: 95, Max: 110}, expected: Range{Min: 85, Max: 100}},
		{name: "wider collapses to bounds", r: Range{Min: -50, Max: 150}, expected: bounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.r.Clamp(bounds))
		})
	}
}

func TestParseEventKind(t *testing.T) {
	t.Parallel()

	for _, k := range EventKinds {
		parsed, err := ParseEventKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	parsed, err := ParseEventKind("")
	require.NoError(t, err)
	assert.Equal(t, EventDrag, parsed)

	_, err = ParseEventKind("wheel")
	assert.Error(t, err)
}

func TestEventKind_Classes(t *testing.T) {
	t.Parallel()

	assert.True(t, EventPointerDown.IsPointer())
	assert.True(t, EventPointerUp.IsPointer())
	assert.False(t, EventDrag.IsPointer())
	assert.True(t, EventDragStart.IsDragLifecycle())
	assert.True(t, EventDragEnd.IsDragLifecycle())
	assert.False(t, EventDrag.IsDragLifecycle())
	assert.False(t, EventPointerUp.IsDragLifecycle())
}

func TestDomainRange(t *testing.T) {
	t.Parallel()

	r, ok := DomainRange([]float64{5, 1, math.NaN(), 9, 3})
	require.True(t, ok)
	assert.Equal(t, Range{Min: 1, Max: 9}, r)

	_, ok = DomainRange(nil)
	assert.False(t, ok)

	_, ok = DomainRange([]float64{math.NaN()})
	assert.False(t, ok)
}
