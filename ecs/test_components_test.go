package ecs_test

import (
	"testing"

	"github.com/plus3/estore/ecs"
	"github.com/stretchr/testify/require"
)

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current int32
	Max     int32
}

// Name is boxed: strings carry a pointer, so they never qualify as flat.
type Name string

type Score int32

type Inventory struct {
	Items []string
}

// testWorld bundles a registry and storage with the fixture components
// registered in a fixed order.
type testWorld struct {
	registry *ecs.ComponentRegistry
	storage  *ecs.Storage

	position  ecs.ComponentId // 0, flat, 8 bytes
	velocity  ecs.ComponentId // 1, flat
	name      ecs.ComponentId // 2, boxed
	health    ecs.ComponentId // 3, flat
	score     ecs.ComponentId // 4, flat
	inventory ecs.ComponentId // 5, boxed
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()

	w := &testWorld{registry: ecs.NewComponentRegistry()}

	var err error
	w.position, err = ecs.RegisterComponent[Position](w.registry, "position")
	require.NoError(t, err)
	w.velocity, err = ecs.RegisterComponent[Velocity](w.registry, "velocity")
	require.NoError(t, err)
	w.name, err = ecs.RegisterComponent[Name](w.registry, "name")
	require.NoError(t, err)
	w.health, err = ecs.RegisterComponent[Health](w.registry, "health")
	require.NoError(t, err)
	w.score, err = ecs.RegisterComponent[Score](w.registry, "score")
	require.NoError(t, err)
	w.inventory, err = ecs.RegisterComponent[Inventory](w.registry, "inventory")
	require.NoError(t, err)

	w.storage = ecs.NewStorage(w.registry)
	return w
}

// packedLen returns the current byte length of an entity's packed buffer.
func packedLen(s *ecs.Storage, h ecs.Handle) int {
	_, data := s.RawData(h)
	return len(data)
}
