// Package hooks implements the action and filter registry the admin host
// exposes to feature toggles. A Registry is built per request; handlers run
// in ascending priority, ties in registration order.
package hooks

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// DefaultPriority matches the priority used when none is given.
const DefaultPriority = 10

// Event names a hook point.
type Event string

type kind int

const (
	kindAction kind = iota
	kindFilter
)

type entry struct {
	key      string
	priority int
	seq      int
	kind     kind
	fn       any
}

// HookOption configures a registration.
type HookOption func(*entry)

// WithPriority sets the handler priority. Lower runs first.
func WithPriority(priority int) HookOption {
	return func(e *entry) { e.priority = priority }
}

// WithKey names the handler so it can be removed later.
func WithKey(key string) HookOption {
	return func(e *entry) { e.key = key }
}

// Registry stores handlers per event.
type Registry struct {
	mu      sync.RWMutex
	seq     int
	entries map[Event][]entry
	fired   map[Event]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[Event][]entry),
		fired:   make(map[Event]int),
	}
}

func (r *Registry) add(event Event, k kind, fn any, opts []HookOption) {
	e := entry{priority: DefaultPriority, kind: k, fn: fn}
	for _, opt := range opts {
		if opt != nil {
			opt(&e)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	e.seq = r.seq
	list := append(r.entries[event], e)
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].priority != list[j].priority {
			return list[i].priority < list[j].priority
		}
		return list[i].seq < list[j].seq
	})
	r.entries[event] = list
}

func (r *Registry) snapshot(event Event, k kind) []entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired[event]++
	var out []entry
	for _, e := range r.entries[event] {
		if e.kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Remove drops every handler registered on event under key. It reports
// whether anything was removed.
func (r *Registry) Remove(event Event, key string) bool {
	if key == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.entries[event]
	kept := list[:0]
	removed := false
	for _, e := range list {
		if e.key == key {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	r.entries[event] = kept
	return removed
}

// Has reports whether event has handlers.
func (r *Registry) Has(event Event) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries[event]) > 0
}

// HasKey reports whether a handler named key is registered on event.
func (r *Registry) HasKey(event Event, key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries[event] {
		if e.key == key {
			return true
		}
	}
	return false
}

// Fired reports how many times event was dispatched.
func (r *Registry) Fired(event Event) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fired[event]
}

// AddAction registers an action handler receiving an argument of type T.
func AddAction[T any](r *Registry, event Event, fn func(ctx context.Context, arg T) error, opts ...HookOption) {
	if r == nil || fn == nil {
		return
	}
	r.add(event, kindAction, fn, opts)
}

// DoAction runs the action handlers of event in order and stops at the first
// error. Handlers registered for a different argument type fail the dispatch.
func DoAction[T any](ctx context.Context, r *Registry, event Event, arg T) error {
	if r == nil {
		return nil
	}
	for _, e := range r.snapshot(event, kindAction) {
		fn, ok := e.fn.(func(context.Context, T) error)
		if !ok {
			return fmt.Errorf("hooks: action %q handler expects %T", event, e.fn)
		}
		if err := fn(ctx, arg); err != nil {
			return fmt.Errorf("hooks: action %q: %w", event, err)
		}
	}
	return nil
}

// AddFilter registers a filter transforming values of type T.
func AddFilter[T any](r *Registry, event Event, fn func(ctx context.Context, value T) T, opts ...HookOption) {
	if r == nil || fn == nil {
		return
	}
	r.add(event, kindFilter, fn, opts)
}

// ApplyFilters passes value through the filters of event in order. Filters
// registered for a different type are skipped.
func ApplyFilters[T any](ctx context.Context, r *Registry, event Event, value T) T {
	if r == nil {
		return value
	}
	for _, e := range r.snapshot(event, kindFilter) {
		if fn, ok := e.fn.(func(context.Context, T) T); ok {
			value = fn(ctx, value)
		}
	}
	return value
}
