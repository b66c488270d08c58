package listctl

import (
	"strings"
	"sync"
	"time"
)

// Registry keeps one controller per signed-in session and resource, so
// that successive requests from the same browser share fetch ordering and
// in-flight actions.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

type entry struct {
	session  string
	ctl      any
	lastUsed time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]*entry{}, now: time.Now}
}

// Get returns the controller for sessionID/resource, building it on first use.
func Get[T, D any](reg *Registry, sessionID, resource string, build func() *Controller[T, D]) *Controller[T, D] {
	key := sessionID + "/" + resource

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if e, ok := reg.entries[key]; ok {
		if ctl, ok := e.ctl.(*Controller[T, D]); ok {
			e.lastUsed = reg.now()
			return ctl
		}
	}
	ctl := build()
	reg.entries[key] = &entry{session: sessionID, ctl: ctl, lastUsed: reg.now()}
	return ctl
}

// Drop forgets every controller of sessionID (on logout) and reports how
// many were removed.
func (reg *Registry) Drop(sessionID string) int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	n := 0
	for k, e := range reg.entries {
		if e.session == sessionID || strings.HasPrefix(k, sessionID+"/") {
			delete(reg.entries, k)
			n++
		}
	}
	return n
}

// Sweep removes controllers unused for longer than idle.
func (reg *Registry) Sweep(idle time.Duration) int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	cutoff := reg.now().Add(-idle)
	n := 0
	for k, e := range reg.entries {
		if e.lastUsed.Before(cutoff) {
			delete(reg.entries, k)
			n++
		}
	}
	return n
}

// Len reports the number of live controllers.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.entries)
}
