package dataset

import (
	"cmp"
	"math"
	"slices"

	"github.com/tvmdash/chartsync/internal/chart"
)

// Point is one sample of a series
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Series is a named sequence of points sharing an X axis
type Series struct {
	Name   string  `json:"name" yaml:"name"`
	Points []Point `json:"points" yaml:"points"`
}

// Len returns the number of points
func (s Series) Len() int {
	return len(s.Points)
}

// Domain returns the X values in point order
func (s Series) Domain() []float64 {
	domain := make([]float64, len(s.Points))
	for i, p := range s.Points {
		domain[i] = p.X
	}
	return domain
}

// FullRange returns the X extent of the series. The boolean is false for a
// series without any non-NaN X value.
func (s Series) FullRange() (chart.Range, bool) {
	return chart.DomainRange(s.Domain())
}

// YRange returns the Y extent of the series
func (s Series) YRange() (chart.Range, bool) {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Y
	}
	return chart.DomainRange(values)
}

// Window returns the points whose X lies inside r, keeping their order
func (s Series) Window(r chart.Range) []Point {
	if !r.Valid() {
		return nil
	}
	var out []Point
	for _, p := range s.Points {
		if !math.IsNaN(p.X) && r.Contains(p.X) {
			out = append(out, p)
		}
	}
	return out
}

// Sort orders the points by X in place. The sort is stable so points sharing
// an X keep their relative order.
func (s Series) Sort() {
	slices.SortStableFunc(s.Points, func(a, b Point) int {
		return cmp.Compare(a.X, b.X)
	})
}
