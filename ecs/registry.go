package ecs

import (
	"fmt"
	"reflect"
)

// ComponentRegistry assigns dense ids to named component types and records
// their storage layout. Each Storage instance is built on one registry;
// there is no process-wide instance. Registration must finish before the
// registry is shared between storages, and descriptors are immutable once
// registered.
type ComponentRegistry struct {
	components []*Component
	byName     map[string]ComponentId

	// offsets memoizes cumulative byte offsets for the first offsetCacheIds
	// component ids, indexed by the presence-mask subset of those ids. It
	// doubles on every early registration, so offsets[m] is the total size
	// of the components whose bits are set in m.
	offsets []uint32

	// boxedMask has a bit set for every component stored via the box arena.
	boxedMask uint64
}

// offsetCacheIds is the number of low component ids covered by the offset
// cache. The first-registered components are assumed to be the
// most-accessed ones; later ids fall back to a linear scan.
const offsetCacheIds = 12

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		byName:  make(map[string]ComponentId),
		offsets: []uint32{0},
	}
}

// RegisterComponent registers T under the given name and returns its id.
// Ids are assigned sequentially starting at 0. T is stored flat (raw bytes
// in the packed buffer) when it contains no pointers, boxed otherwise.
func RegisterComponent[T any](r *ComponentRegistry, name string) (ComponentId, error) {
	t := reflect.TypeFor[T]()
	return register[T](r, name, typeIsFlat(t))
}

// RegisterComponentBoxed registers T under the given name, forcing the
// boxed representation even when T would qualify as flat. Useful when a
// type's raw bytes should never be exposed through the raw-data escape
// hatch.
func RegisterComponentBoxed[T any](r *ComponentRegistry, name string) (ComponentId, error) {
	return register[T](r, name, false)
}

func register[T any](r *ComponentRegistry, name string, flat bool) (ComponentId, error) {
	if _, dup := r.byName[name]; dup {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateComponent, name)
	}
	if len(r.components) >= MaxComponents {
		return 0, fmt.Errorf("%w: %q would be component %d", ErrTooManyComponents, name, len(r.components))
	}

	t := reflect.TypeFor[T]()
	id := ComponentId(len(r.components))

	size := uint32(boxSlot)
	if flat {
		size = uint32(t.Size())
	} else {
		r.boxedMask |= uint64(1) << id
	}

	var zero T
	c := &Component{
		id:        id,
		name:      name,
		typ:       t,
		size:      size,
		flat:      flat,
		prototype: zero,
		clone: func(v any) any {
			held := v.(T)
			return held
		},
	}
	r.components = append(r.components, c)
	r.byName[name] = id

	if int(id) < offsetCacheIds {
		n := len(r.offsets)
		for j := 0; j < n; j++ {
			r.offsets = append(r.offsets, r.offsets[j]+size)
		}
	}

	return id, nil
}

// FindComponent looks up a component id by its registered name.
func (r *ComponentRegistry) FindComponent(name string) (ComponentId, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Component returns the descriptor for id, or nil if id was never
// registered.
func (r *ComponentRegistry) Component(id ComponentId) *Component {
	if int(id) >= len(r.components) {
		return nil
	}
	return r.components[id]
}

// Components returns the registered descriptors in id order.
func (r *ComponentRegistry) Components() []*Component {
	return r.components
}

// ComponentCount returns the number of registered components.
func (r *ComponentRegistry) ComponentCount() int {
	return len(r.components)
}
