package syncgroup

import "github.com/tvmdash/chartsync/internal/chart"

// EventFilter decides whether a zoom notification of the given kind may
// propagate to the rest of the group.
type EventFilter func(kind chart.EventKind) bool

// AllowAll is the default filter
func AllowAll(chart.EventKind) bool {
	return true
}

// FilterOptions selects which interaction event classes propagate. Completed
// drags always propagate.
type FilterOptions struct {
	// PointerEvents allows pointer-down and pointer-up notifications
	PointerEvents bool `yaml:"pointerEvents"`

	// DragLifecycle allows drag-start and drag-end notifications
	DragLifecycle bool `yaml:"dragLifecycle"`
}

// DefaultFilterOptions propagates every event class
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{PointerEvents: true, DragLifecycle: true}
}

// NewEventFilter builds a filter from opts
func NewEventFilter(opts FilterOptions) EventFilter {
	return func(kind chart.EventKind) bool {
		switch {
		case kind.IsPointer():
			return opts.PointerEvents
		case kind.IsDragLifecycle():
			return opts.DragLifecycle
		default:
			return true
		}
	}
}
