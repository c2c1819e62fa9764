package ecs

import (
	"reflect"
	"unsafe"
)

// ComponentId is a dense integer id assigned at registration, starting at 0.
type ComponentId uint8

const (
	// MaxComponents is the hard ceiling imposed by the 64-bit presence and
	// dirty masks.
	MaxComponents = 64

	// boxSlot is the in-buffer size of a boxed component: a uint32 handle
	// into the storage's box arena.
	boxSlot = 4
)

// Component describes a registered component type. Descriptors are created
// by RegisterComponent and immutable afterward.
type Component struct {
	id   ComponentId
	name string
	typ  reflect.Type
	size uint32
	flat bool

	// clone copies a boxed value so two entities never share one box.
	clone func(any) any
	// prototype is the zero value, for callers that need a default.
	prototype any
}

func (c *Component) ID() ComponentId { return c.id }
func (c *Component) Name() string    { return c.name }

// Type returns the Go type the component was registered with.
func (c *Component) Type() reflect.Type { return c.typ }

// Size returns the number of bytes the component occupies inside an
// entity's packed buffer: the raw value size for flat components, the box
// handle size otherwise.
func (c *Component) Size() int { return int(c.size) }

// Flat reports whether values are stored as raw bytes directly in the
// buffer, as opposed to a handle to a boxed value.
func (c *Component) Flat() bool { return c.flat }

// Prototype returns a zero value of the component's type.
func (c *Component) Prototype() any { return c.prototype }

// typeIsFlat is the default flatness trait: a type is flat when it contains
// no pointers of any kind, so its bytes can live in a packed buffer without
// the garbage collector needing to see them.
func typeIsFlat(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return typeIsFlat(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !typeIsFlat(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		// Pointers, strings, slices, maps, chans, funcs, interfaces.
		return false
	}
}

// loadValue copies a flat value out of a packed buffer. The copy keeps the
// access alignment-safe: slots are byte-packed with no padding.
func loadValue[T any](b []byte) T {
	var v T
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v)), b)
	return v
}

// storeValue copies a flat value into a packed buffer.
func storeValue[T any](b []byte, v T) {
	copy(b, unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v)))
}
