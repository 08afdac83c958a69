package chart

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRange is returned when a range has Min > Max or a NaN bound.
var ErrInvalidRange = errors.New("invalid range")

// Range is a closed interval on the synchronized axis, in data space.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Valid reports whether the range is usable as a visible range.
func (r Range) Valid() bool {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		return false
	}
	return r.Min <= r.Max
}

// Width returns Max - Min
func (r Range) Width() float64 {
	return r.Max - r.Min
}

// Contains reports whether v lies inside the range, bounds included
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp shifts and trims r so that it lies inside bounds. A range wider than
// bounds collapses to bounds.
func (r Range) Clamp(bounds Range) Range {
	if r.Width() >= bounds.Width() {
		return bounds
	}
	if r.Min < bounds.Min {
		return Range{Min: bounds.Min, Max: bounds.Min + r.Width()}
	}
	if r.Max > bounds.Max {
		return Range{Min: bounds.Max - r.Width(), Max: bounds.Max}
	}
	return r
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// EventKind identifies the user interaction that produced a zoom notification.
type EventKind string

const (
	// EventDrag is a completed drag-select zoom
	EventDrag EventKind = "drag"
	// EventDragStart is emitted when a drag selection begins
	EventDragStart EventKind = "drag-start"
	// EventDragEnd is emitted when a drag selection ends
	EventDragEnd EventKind = "drag-end"
	// EventPointerDown is a pointer (mouse button) press
	EventPointerDown EventKind = "pointer-down"
	// EventPointerUp is a pointer (mouse button) release
	EventPointerUp EventKind = "pointer-up"
)

// EventKinds lists every known kind.
var EventKinds = []EventKind{EventDrag, EventDragStart, EventDragEnd, EventPointerDown, EventPointerUp}

// ParseEventKind converts a string into an EventKind. An empty string maps to
// EventDrag.
func ParseEventKind(s string) (EventKind, error) {
	if s == "" {
		return EventDrag, nil
	}
	for _, k := range EventKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown event kind %q", s)
}

// IsPointer reports whether the kind is a pointer press or release
func (k EventKind) IsPointer() bool {
	return k == EventPointerDown || k == EventPointerUp
}

// IsDragLifecycle reports whether the kind marks the start or end of a drag
func (k EventKind) IsDragLifecycle() bool {
	return k == EventDragStart || k == EventDragEnd
}

//go:generate mockgen -destination=mocks/mock_handle.go -package=mocks -source=types.go Handle

// Handle is the adapter through which a sync group manipulates one chart
// without depending on its plotting library.
type Handle interface {
	// ID returns an identifier that is stable for the chart's lifetime and
	// unique within its sync group.
	ID() string

	// FullRange returns the min/max of the chart's loaded domain values.
	// The boolean is false when the chart holds no data.
	FullRange() (Range, bool)

	// SetVisibleRange applies r to the chart with a single redraw. It must not
	// feed back into the coordinator as a new zoom notification.
	SetVisibleRange(r Range) error
}

// Detacher is implemented by handles that need cleanup when they leave a
// sync group, either by unregistering or by being replaced.
type Detacher interface {
	Detached()
}

// ZoomFunc receives zoom notifications emitted by a chart adapter.
type ZoomFunc func(id string, r Range, kind EventKind)
