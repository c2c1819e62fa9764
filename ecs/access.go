package ecs

import (
	"fmt"
	"reflect"
	"slices"
	"unsafe"
)

// Set writes component c on the entity, creating the slot if absent. When
// the component was absent the buffer grows by inserting a zeroed slot at
// the resolved offset before the value is constructed, which shifts every
// later-ordered component right. The dirty bit is set on every write.
func Set[T any](s *Storage, en Entity, c ComponentId, v T) error {
	h, ok := s.Find(en)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchEntity, en)
	}
	return SetAt(s, h, c, v)
}

// SetAt is Set through an already-resolved handle.
func SetAt[T any](s *Storage, h Handle, c ComponentId, v T) error {
	comp := s.registry.Component(c)
	if comp == nil {
		return fmt.Errorf("%w: %d", ErrUnknownComponent, c)
	}
	if t := reflect.TypeFor[T](); t != comp.typ {
		return fmt.Errorf("%w: component %q holds %s, not %s", ErrTypeMismatch, comp.name, comp.typ, t)
	}

	rec := h.rec
	bit := uint64(1) << c
	off := s.registry.Offset(rec.presence, c)
	present := rec.presence&bit != 0
	if !present {
		rec.data = slices.Insert(rec.data, off, make([]byte, comp.size)...)
		rec.presence |= bit
	}

	if comp.flat {
		storeValue(rec.data[off:off+int(comp.size)], v)
	} else {
		// Destroy before construct, so overwriting never leaks the old box.
		if present {
			s.freeBox(boxRef(rec.data[off:]))
		}
		putBoxRef(rec.data[off:], s.allocBox(v))
	}
	rec.dirty |= bit
	return nil
}

// Get reads component c from the entity. It fails with ErrMissingComponent
// when the presence bit is unset; optional reads should test Handle.Has
// instead of relying on the error.
func Get[T any](s *Storage, en Entity, c ComponentId) (T, error) {
	h, ok := s.Find(en)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %d", ErrNoSuchEntity, en)
	}
	return GetAt[T](s, h, c)
}

// GetAt is Get through an already-resolved handle.
func GetAt[T any](s *Storage, h Handle, c ComponentId) (T, error) {
	var zero T
	comp := s.registry.Component(c)
	if comp == nil {
		return zero, fmt.Errorf("%w: %d", ErrUnknownComponent, c)
	}
	if t := reflect.TypeFor[T](); t != comp.typ {
		return zero, fmt.Errorf("%w: component %q holds %s, not %s", ErrTypeMismatch, comp.name, comp.typ, t)
	}
	if h.rec.presence&(uint64(1)<<c) == 0 {
		return zero, fmt.Errorf("%w: entity %d, component %q", ErrMissingComponent, h.entity, comp.name)
	}

	off := s.registry.Offset(h.rec.presence, c)
	if comp.flat {
		return loadValue[T](h.rec.data[off:]), nil
	}
	return s.boxes[boxRef(h.rec.data[off:])].(T), nil
}

// SetAny is the untyped counterpart of SetAt, used by inspectors and
// deferred command buffers. The dynamic type of v must match the
// registered component type exactly.
func (s *Storage) SetAny(h Handle, c ComponentId, v any) error {
	comp := s.registry.Component(c)
	if comp == nil {
		return fmt.Errorf("%w: %d", ErrUnknownComponent, c)
	}
	if t := reflect.TypeOf(v); t != comp.typ {
		return fmt.Errorf("%w: component %q holds %s, not %s", ErrTypeMismatch, comp.name, comp.typ, t)
	}

	rec := h.rec
	bit := uint64(1) << c
	off := s.registry.Offset(rec.presence, c)
	present := rec.presence&bit != 0
	if !present {
		rec.data = slices.Insert(rec.data, off, make([]byte, comp.size)...)
		rec.presence |= bit
	}

	if comp.flat {
		tmp := reflect.New(comp.typ)
		tmp.Elem().Set(reflect.ValueOf(v))
		copy(rec.data[off:off+int(comp.size)], unsafe.Slice((*byte)(tmp.UnsafePointer()), comp.size))
	} else {
		if present {
			s.freeBox(boxRef(rec.data[off:]))
		}
		putBoxRef(rec.data[off:], s.allocBox(comp.clone(v)))
	}
	rec.dirty |= bit
	return nil
}

// GetAny is the untyped counterpart of GetAt. Flat values are copied out of
// the buffer; boxed values are returned as held.
func (s *Storage) GetAny(h Handle, c ComponentId) (any, error) {
	comp := s.registry.Component(c)
	if comp == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownComponent, c)
	}
	if h.rec.presence&(uint64(1)<<c) == 0 {
		return nil, fmt.Errorf("%w: entity %d, component %q", ErrMissingComponent, h.entity, comp.name)
	}

	off := s.registry.Offset(h.rec.presence, c)
	if comp.flat {
		tmp := reflect.New(comp.typ)
		copy(unsafe.Slice((*byte)(tmp.UnsafePointer()), comp.size), h.rec.data[off:])
		return tmp.Elem().Interface(), nil
	}
	return s.boxes[boxRef(h.rec.data[off:])], nil
}
