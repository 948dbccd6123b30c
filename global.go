package lazylink

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ZenLiuCN/fn"
	"github.com/xyproto/env/v2"
)

// Debug is the default debug switch of new groups, initialized from LAZYLINK_DEBUG.
var Debug = env.Bool("LAZYLINK_DEBUG")

// Registry holds groups keyed by group key.
//
// Groups are never removed, a registry lives until the process exits.
type Registry struct {
	groups map[uint64]*Group
	order  []*Group
	sync.RWMutex
}

// NewRegistry create an empty Registry.
func NewRegistry() *Registry {
	return &Registry{groups: make(map[uint64]*Group)}
}

// Register g, ErrAlreadyExists when another group holds the same key.
func (r *Registry) Register(g *Group) error {
	r.Lock()
	defer r.Unlock()
	if x, ok := r.groups[g.key]; ok {
		if x == g {
			return nil
		}
		return fmt.Errorf("group %s (%x): %w", g.identity, g.key, ErrAlreadyExists)
	}
	r.groups[g.key] = g
	r.order = append(r.order, g)
	return nil
}

// Open fetch the group of the key derived from id and options, or create and register a new one.
// Options only take effect when the group is created.
func (r *Registry) Open(id Identity, opts ...Option) (*Group, error) {
	g, err := NewGroup(id, opts...)
	if err != nil {
		return nil, err
	}
	r.Lock()
	defer r.Unlock()
	if x, ok := r.groups[g.key]; ok {
		if x.identity != id || x.namespace != g.namespace || x.seq != g.seq {
			return nil, fmt.Errorf("group %s (%x) collides with %s: %w", id, g.key, x.identity, ErrAlreadyExists)
		}
		return x, nil
	}
	r.groups[g.key] = g
	r.order = append(r.order, g)
	return g, nil
}

// Lookup a group by key.
func (r *Registry) Lookup(key uint64) (g *Group, ok bool) {
	r.RLock()
	defer r.RUnlock()
	g, ok = r.groups[key]
	return
}

// Groups dump registered groups in registration order.
func (r *Registry) Groups() []*Group {
	r.RLock()
	defer r.RUnlock()
	return slices.Clone(r.order)
}

// Keys dump registered keys.
func (r *Registry) Keys() []uint64 {
	r.RLock()
	defer r.RUnlock()
	return fn.MapKeys(r.groups)
}

var global = NewRegistry()

// Global is the process wide registry used by Open and Bind.
func Global() *Registry {
	return global
}

// Open a group in the global registry.
func Open(id Identity, opts ...Option) (*Group, error) {
	return global.Open(id, opts...)
}

// MustOpen open a group in the global registry or panic, for package level variables.
func MustOpen(id Identity, opts ...Option) *Group {
	return fn.Panic1(global.Open(id, opts...))
}
