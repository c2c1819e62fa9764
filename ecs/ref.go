package ecs

import (
	"fmt"
	"reflect"
)

// Ref is a typed, non-owning accessor bound to one component slot of one
// entity. It is valid only for the duration of the enclosing ForEach
// callback (or the statement that created it): any mutation that can resize
// the owning buffer, such as Set of an absent component or RemoveComponent,
// invalidates it, and it must be re-derived afterwards rather than cached.
type Ref[T any] struct {
	storage *Storage
	rec     *record
	off     int
	id      ComponentId
}

// At derives a Ref for component c on the given handle. The component must
// be present and registered with type T.
func At[T any](s *Storage, h Handle, c ComponentId) (Ref[T], error) {
	comp := s.registry.Component(c)
	if comp == nil {
		return Ref[T]{}, fmt.Errorf("%w: %d", ErrUnknownComponent, c)
	}
	if t := reflect.TypeFor[T](); t != comp.typ {
		return Ref[T]{}, fmt.Errorf("%w: component %q holds %s, not %s", ErrTypeMismatch, comp.name, comp.typ, t)
	}
	if h.rec.presence&(uint64(1)<<c) == 0 {
		return Ref[T]{}, fmt.Errorf("%w: entity %d, component %q", ErrMissingComponent, h.entity, comp.name)
	}
	return Ref[T]{
		storage: s,
		rec:     h.rec,
		off:     s.registry.Offset(h.rec.presence, c),
		id:      c,
	}, nil
}

// Get reads the current value.
func (r Ref[T]) Get() T {
	comp := r.storage.registry.components[r.id]
	if comp.flat {
		return loadValue[T](r.rec.data[r.off:])
	}
	return r.storage.boxes[boxRef(r.rec.data[r.off:])].(T)
}

// Set replaces the value in place and marks the component dirty. For boxed
// components the previously held value is destroyed first.
func (r Ref[T]) Set(v T) {
	comp := r.storage.registry.components[r.id]
	if comp.flat {
		storeValue(r.rec.data[r.off:r.off+int(comp.size)], v)
	} else {
		r.storage.freeBox(boxRef(r.rec.data[r.off:]))
		putBoxRef(r.rec.data[r.off:], r.storage.allocBox(v))
	}
	r.touch()
}

// Update applies a read-modify-write through fn and marks the component
// dirty.
func (r Ref[T]) Update(fn func(T) T) {
	r.Set(fn(r.Get()))
}

func (r Ref[T]) touch() {
	r.rec.dirty |= uint64(1) << r.id
}

// Numeric constrains the compound arithmetic helpers to component types
// with built-in arithmetic.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Add adds v to the component value and marks it dirty.
func Add[T Numeric](r Ref[T], v T) {
	r.Set(r.Get() + v)
}

// Sub subtracts v from the component value and marks it dirty.
func Sub[T Numeric](r Ref[T], v T) {
	r.Set(r.Get() - v)
}

// Mul multiplies the component value by v and marks it dirty.
func Mul[T Numeric](r Ref[T], v T) {
	r.Set(r.Get() * v)
}

// Div divides the component value by v and marks it dirty.
func Div[T Numeric](r Ref[T], v T) {
	r.Set(r.Get() / v)
}
