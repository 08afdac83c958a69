package syncgroup

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/tvmdash/chartsync/internal/chart"
)

// Mode is one of the two steady states of a sync group
type Mode string

const (
	// ModeSynced propagates zoom notifications to sibling charts
	ModeSynced Mode = "synced"
	// ModeIndependent leaves every chart to zoom on its own
	ModeIndependent Mode = "independent"
)

// UnregisterFunc removes a registration from its group. Calling it more than
// once has no further effect.
type UnregisterFunc func()

// ReplaceHook is called when a registration replaces a handle already
// registered under the same id.
type ReplaceHook func(groupKey string, previous, replacement chart.Handle)

type member struct {
	handle chart.Handle
	token  uint64
}

// Registry holds the participants of one sync group
type Registry struct {
	key string

	mu        sync.RWMutex
	members   map[string]member
	enabled   bool
	filter    EventFilter
	nextToken uint64
	onReplace ReplaceHook
}

// Option configures a Registry
type Option func(*Registry)

// WithEnabled sets the initial enabled flag
func WithEnabled(enabled bool) Option {
	return func(r *Registry) {
		r.enabled = enabled
	}
}

// WithFilter sets the initial event filter
func WithFilter(filter EventFilter) Option {
	return func(r *Registry) {
		if filter != nil {
			r.filter = filter
		}
	}
}

// WithReplaceHook sets a hook notified of duplicate registrations
func WithReplaceHook(hook ReplaceHook) Option {
	return func(r *Registry) {
		r.onReplace = hook
	}
}

// NewRegistry creates an enabled group with the given key
func NewRegistry(key string, opts ...Option) *Registry {
	r := &Registry{
		key:     key,
		members: make(map[string]member),
		enabled: true,
		filter:  AllowAll,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the group key
func (r *Registry) Key() string {
	return r.key
}

// Register adds h to the group, replacing any handle registered under the
// same id. The returned func removes exactly this registration. Handles
// without an id are not registered.
func (r *Registry) Register(h chart.Handle) UnregisterFunc {
	id := h.ID()
	if id == "" {
		slog.Warn("Chart without an id not registered", "group", r.key)
		return func() {}
	}

	r.mu.Lock()
	r.nextToken++
	token := r.nextToken
	previous, replaced := r.members[id]
	r.members[id] = member{handle: h, token: token}
	hook := r.onReplace
	r.mu.Unlock()

	if replaced && previous.handle != h {
		slog.Warn("Chart registered twice, replacing previous handle",
			"group", r.key,
			"chart", id)
		if hook != nil {
			hook(r.key, previous.handle, h)
		}
		detach(previous.handle)
	}

	slog.Debug("Chart registered", "group", r.key, "chart", id)

	var once sync.Once
	return func() {
		once.Do(func() {
			r.unregister(id, token)
		})
	}
}

func (r *Registry) unregister(id string, token uint64) {
	r.mu.Lock()
	m, ok := r.members[id]
	if !ok || m.token != token {
		// Already gone or replaced by a newer registration.
		r.mu.Unlock()
		return
	}
	delete(r.members, id)
	r.mu.Unlock()

	slog.Debug("Chart unregistered", "group", r.key, "chart", id)
	detach(m.handle)
}

func detach(h chart.Handle) {
	if d, ok := h.(chart.Detacher); ok {
		d.Detached()
	}
}

// SetEnabled toggles propagation for the whole group. It only affects
// subsequent notifications.
func (r *Registry) SetEnabled(enabled bool) {
	r.mu.Lock()
	r.enabled = enabled
	r.mu.Unlock()

	slog.Info("Sync group toggled", "group", r.key, "enabled", enabled)
}

// IsEnabled reports whether propagation is enabled
func (r *Registry) IsEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// Mode returns the group's current steady state
func (r *Registry) Mode() Mode {
	if r.IsEnabled() {
		return ModeSynced
	}
	return ModeIndependent
}

// SetFilter replaces the event filter. A nil filter allows every kind.
func (r *Registry) SetFilter(filter EventFilter) {
	if filter == nil {
		filter = AllowAll
	}
	r.mu.Lock()
	r.filter = filter
	r.mu.Unlock()
}

// Allows reports whether notifications of the given kind may propagate
func (r *Registry) Allows(kind chart.EventKind) bool {
	r.mu.RLock()
	filter := r.filter
	r.mu.RUnlock()
	return filter(kind)
}

// All returns a snapshot of every registered handle, ordered by id
func (r *Registry) All() []chart.Handle {
	return r.snapshot(func(string) bool { return true })
}

// Others returns a snapshot of every registered handle except the one
// registered under id, ordered by id
func (r *Registry) Others(id string) []chart.Handle {
	return r.snapshot(func(memberID string) bool { return memberID != id })
}

func (r *Registry) snapshot(keep func(id string) bool) []chart.Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.members))
	for id := range r.members {
		if keep(id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	handles := make([]chart.Handle, len(ids))
	for i, id := range ids {
		handles[i] = r.members[id].handle
	}
	return handles
}

// Get returns the handle registered under id
func (r *Registry) Get(id string) (chart.Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[id]
	return m.handle, ok
}

// Has reports whether a handle is registered under id
func (r *Registry) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// IDs returns the registered chart ids in sorted order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.members))
	for id := range r.members {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Len returns the number of registered charts
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}
