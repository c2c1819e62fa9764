package ecs

import "errors"

var (
	// ErrMissingComponent is returned by Get when the entity does not hold
	// the requested component. Callers needing optionality should test
	// Handle.Has first.
	ErrMissingComponent = errors.New("ecs: entity does not have component")

	// ErrUnknownComponent is returned when a component id was never
	// registered.
	ErrUnknownComponent = errors.New("ecs: unknown component id")

	// ErrDuplicateComponent is returned when a component name is registered
	// twice.
	ErrDuplicateComponent = errors.New("ecs: component name already registered")

	// ErrTooManyComponents is returned when registration would exceed the
	// 64-component ceiling of the presence and dirty masks.
	ErrTooManyComponents = errors.New("ecs: component limit exceeded")

	// ErrTypeMismatch is returned when the Go type of an access does not
	// match the type the component was registered with.
	ErrTypeMismatch = errors.New("ecs: component type mismatch")

	// ErrNoSuchEntity is returned when an operation names an entity that
	// does not exist.
	ErrNoSuchEntity = errors.New("ecs: no such entity")
)
