package chart

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// Renderer is the library-specific half of an adapter. Apply must redraw the
// chart once with r as the visible range of the synchronized axis.
type Renderer interface {
	Apply(r Range) error
}

// RendererFunc adapts a plain function to the Renderer interface
type RendererFunc func(r Range) error

// Apply calls f(r)
func (f RendererFunc) Apply(r Range) error {
	return f(r)
}

// Adapter implements Handle for a chart whose drawing is delegated to a
// Renderer. It keeps the full and visible ranges and guards against
// re-emitting zoom notifications while a range is being applied.
type Adapter struct {
	id       string
	renderer Renderer

	mu       sync.Mutex
	full     Range
	hasData  bool
	visible  Range
	onZoom   ZoomFunc
	onDetach func()

	// applying counts renderer calls in progress, nested ones included; zoom
	// callbacks fired by the library while it is non-zero are synthetic.
	applying atomic.Int32
}

// AdapterOption configures an Adapter
type AdapterOption func(*Adapter)

// WithZoomFunc sets the function receiving zoom notifications
func WithZoomFunc(fn ZoomFunc) AdapterOption {
	return func(a *Adapter) {
		a.onZoom = fn
	}
}

// WithDetachFunc sets a function called when the adapter leaves its sync group
func WithDetachFunc(fn func()) AdapterOption {
	return func(a *Adapter) {
		a.onDetach = fn
	}
}

// NewAdapter creates an adapter for the chart identified by id
func NewAdapter(id string, renderer Renderer, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		id:       id,
		renderer: renderer,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ID returns the chart identifier
func (a *Adapter) ID() string {
	return a.id
}

// FullRange returns the domain extent of the loaded data
func (a *Adapter) FullRange() (Range, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.full, a.hasData
}

// VisibleRange returns the range currently displayed
func (a *Adapter) VisibleRange() Range {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.visible
}

// OnZoom replaces the function receiving zoom notifications
func (a *Adapter) OnZoom(fn ZoomFunc) {
	a.mu.Lock()
	a.onZoom = fn
	a.mu.Unlock()
}

// SetData replaces the dataset's domain values. The full range is recomputed
// and the chart is redrawn showing all of it. NaN values are ignored.
func (a *Adapter) SetData(domain []float64) error {
	full, ok := DomainRange(domain)

	a.mu.Lock()
	a.full = full
	a.hasData = ok
	a.mu.Unlock()

	if !ok {
		return nil
	}
	return a.apply(full)
}

// SetVisibleRange applies a range requested by the sync coordinator
func (a *Adapter) SetVisibleRange(r Range) error {
	if !r.Valid() {
		return fmt.Errorf("chart %s: %w: %s", a.id, ErrInvalidRange, r)
	}
	return a.apply(r)
}

// Zoom is called by the integration when the user selects a new range on this
// chart. The range is applied locally and then emitted. Calls arriving while
// a synchronized range is being applied are ignored.
func (a *Adapter) Zoom(r Range, kind EventKind) error {
	if a.applying.Load() > 0 {
		return nil
	}
	if !r.Valid() {
		return fmt.Errorf("chart %s: %w: %s", a.id, ErrInvalidRange, r)
	}
	if err := a.apply(r); err != nil {
		return err
	}
	a.emit(r, kind)
	return nil
}

// Emit forwards a notification for a range the library has already applied
// itself. Like Zoom, it is a no-op while a synchronized range is applied.
func (a *Adapter) Emit(r Range, kind EventKind) {
	if a.applying.Load() > 0 {
		return
	}
	a.mu.Lock()
	a.visible = r
	a.mu.Unlock()
	a.emit(r, kind)
}

// ResetZoom restores this chart alone to its full range without notifying
// the group.
func (a *Adapter) ResetZoom() error {
	full, ok := a.FullRange()
	if !ok {
		return nil
	}
	return a.apply(full)
}

// Detached implements Detacher
func (a *Adapter) Detached() {
	a.mu.Lock()
	fn := a.onDetach
	a.onZoom = nil
	a.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (a *Adapter) apply(r Range) error {
	a.applying.Add(1)
	defer a.applying.Add(-1)

	if a.renderer != nil {
		if err := a.renderer.Apply(r); err != nil {
			return fmt.Errorf("chart %s: failed to apply range %s: %w", a.id, r, err)
		}
	}

	a.mu.Lock()
	a.visible = r
	a.mu.Unlock()
	return nil
}

func (a *Adapter) emit(r Range, kind EventKind) {
	a.mu.Lock()
	fn := a.onZoom
	a.mu.Unlock()

	if fn != nil {
		fn(a.id, r, kind)
	}
}

// DomainRange returns the min/max of the given domain values. The boolean is
// false when no non-NaN value is present.
func DomainRange(domain []float64) (Range, bool) {
	r := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	found := false
	for _, v := range domain {
		if math.IsNaN(v) {
			continue
		}
		found = true
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	if !found {
		return Range{}, false
	}
	return r, true
}
