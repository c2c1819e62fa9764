package ecs_test

import (
	"fmt"

	"github.com/plus3/estore/ecs"
)

// ExampleStorage demonstrates the basic API for managing entities and
// components. Each entity packs its present component values into one
// contiguous buffer; flat types live there as raw bytes, and types with
// pointers (like the string-backed Name) are boxed.
func ExampleStorage() {
	registry := ecs.NewComponentRegistry()
	position, _ := ecs.RegisterComponent[Position](registry, "position")
	name, _ := ecs.RegisterComponent[Name](registry, "name")
	storage := ecs.NewStorage(registry)

	player := storage.NewEntity()
	ecs.Set(storage, player, position, Position{X: 10, Y: 20})
	ecs.Set(storage, player, name, Name("hero"))

	pos, _ := ecs.Get[Position](storage, player, position)
	who, _ := ecs.Get[Name](storage, player, name)
	fmt.Printf("%s spawned at (%.0f, %.0f)\n", who, pos.X, pos.Y)

	storage.Delete(player)
	fmt.Printf("entities left: %d\n", storage.Size())

	// Output:
	// hero spawned at (10, 20)
	// entities left: 0
}

// ExampleForEach shows bulk iteration with a component filter. Refs passed
// to the callback are bound to the entity's live slot offsets; writes
// through them mark the component dirty.
func ExampleForEach() {
	registry := ecs.NewComponentRegistry()
	position, _ := ecs.RegisterComponent[Position](registry, "position")
	velocity, _ := ecs.RegisterComponent[Velocity](registry, "velocity")
	storage := ecs.NewStorage(registry)

	mover := storage.NewEntity()
	ecs.Set(storage, mover, position, Position{X: 1, Y: 1})
	ecs.Set(storage, mover, velocity, Velocity{DX: 2, DY: 3})

	scenery := storage.NewEntity()
	ecs.Set(storage, scenery, position, Position{X: 5, Y: 5})

	ecs.ForEach2(storage, position, velocity,
		func(h ecs.Handle, p ecs.Ref[Position], v ecs.Ref[Velocity]) {
			vel := v.Get()
			p.Update(func(pos Position) Position {
				pos.X += vel.DX
				pos.Y += vel.DY
				return pos
			})
		})

	pos, _ := ecs.Get[Position](storage, mover, position)
	fmt.Printf("mover at (%.0f, %.0f)\n", pos.X, pos.Y)
	still, _ := ecs.Get[Position](storage, scenery, position)
	fmt.Printf("scenery at (%.0f, %.0f)\n", still.X, still.Y)

	// Output:
	// mover at (3, 4)
	// scenery at (5, 5)
}

// ExampleHandle_DirtyFlagAndClear shows change tracking: a replication
// layer sweeps dirty flags and clears them as it consumes changes.
func ExampleHandle_DirtyFlagAndClear() {
	registry := ecs.NewComponentRegistry()
	score, _ := ecs.RegisterComponent[Score](registry, "score")
	storage := ecs.NewStorage(registry)

	h := storage.Make(1)
	ecs.SetAt(storage, h, score, Score(10))

	fmt.Println("dirty after write:", h.DirtyFlag(score))
	fmt.Println("swept:", h.DirtyFlagAndClear(score))
	fmt.Println("dirty after sweep:", h.DirtyFlag(score))

	// Output:
	// dirty after write: true
	// swept: true
	// dirty after sweep: false
}
