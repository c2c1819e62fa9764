package ecs_test

import (
	"testing"

	"github.com/plus3/estore/ecs"
)

func benchWorld(b *testing.B, entities int) *testWorld {
	b.Helper()
	w := &testWorld{registry: ecs.NewComponentRegistry()}
	w.position, _ = ecs.RegisterComponent[Position](w.registry, "position")
	w.velocity, _ = ecs.RegisterComponent[Velocity](w.registry, "velocity")
	w.name, _ = ecs.RegisterComponent[Name](w.registry, "name")
	w.health, _ = ecs.RegisterComponent[Health](w.registry, "health")
	w.score, _ = ecs.RegisterComponent[Score](w.registry, "score")
	w.storage = ecs.NewStorage(w.registry)

	first, last := w.storage.NewEntities(entities)
	for en := first; en < last; en++ {
		ecs.Set(w.storage, en, w.position, Position{X: float32(en)})
		ecs.Set(w.storage, en, w.velocity, Velocity{DX: 1})
		if en%4 == 0 {
			ecs.Set(w.storage, en, w.name, Name("entity"))
		}
	}
	return w
}

func BenchmarkSetFlatOverwrite(b *testing.B) {
	w := benchWorld(b, 1)
	h, _ := w.storage.Find(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ecs.SetAt(w.storage, h, w.position, Position{X: float32(i)})
	}
}

func BenchmarkGetFlat(b *testing.B) {
	w := benchWorld(b, 1)
	h, _ := w.storage.Find(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ecs.GetAt[Position](w.storage, h, w.position); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetBoxed(b *testing.B) {
	w := benchWorld(b, 1)
	h, _ := w.storage.Find(0)
	ecs.SetAt(w.storage, h, w.name, Name("bench"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ecs.GetAt[Name](w.storage, h, w.name); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkForEach10k(b *testing.B) {
	w := benchWorld(b, 10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ecs.ForEach2(w.storage, w.position, w.velocity,
			func(_ ecs.Handle, p ecs.Ref[Position], v ecs.Ref[Velocity]) {
				vel := v.Get()
				pos := p.Get()
				pos.X += vel.DX
				p.Set(pos)
			})
	}
}

func BenchmarkCloneWithBoxes(b *testing.B) {
	w := benchWorld(b, 1)
	src := ecs.Entity(0)
	ecs.Set(w.storage, src, w.name, Name("clone-source"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		en, err := w.storage.Clone(src)
		if err != nil {
			b.Fatal(err)
		}
		w.storage.Delete(en)
	}
}
