package ecs_test

import (
	"testing"

	"github.com/plus3/estore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachEmptyStorage(t *testing.T) {
	w := newTestWorld(t)

	visits := 0
	err := ecs.ForEach(w.storage, w.position, func(ecs.Handle, ecs.Ref[Position]) {
		visits++
	})
	require.NoError(t, err)
	assert.Equal(t, 0, visits)
}

func TestForEachVisitsExactlyMatching(t *testing.T) {
	w := newTestWorld(t)

	withPos := w.storage.NewEntity()
	require.NoError(t, ecs.Set(w.storage, withPos, w.position, Position{X: 1}))

	withBoth := w.storage.NewEntity()
	require.NoError(t, ecs.Set(w.storage, withBoth, w.position, Position{X: 2}))
	require.NoError(t, ecs.Set(w.storage, withBoth, w.velocity, Velocity{DX: 1}))

	w.storage.NewEntity() // empty, must not be visited

	visited := make(map[ecs.Entity]int)
	err := ecs.ForEach(w.storage, w.position, func(h ecs.Handle, _ ecs.Ref[Position]) {
		visited[h.Entity()]++
	})
	require.NoError(t, err)

	assert.Equal(t, map[ecs.Entity]int{withPos: 1, withBoth: 1}, visited)
}

func TestForEachCompleteness10k(t *testing.T) {
	w := newTestWorld(t)

	const n = 10000
	first, last := w.storage.NewEntities(n)
	expected := make(map[ecs.Entity]bool, n/2)
	for en := first; en < last; en++ {
		// Every other entity qualifies.
		if en%2 == 0 {
			require.NoError(t, ecs.Set(w.storage, en, w.score, Score(en)))
			expected[en] = true
		} else {
			require.NoError(t, ecs.Set(w.storage, en, w.position, Position{}))
		}
	}

	visited := make(map[ecs.Entity]int, len(expected))
	err := ecs.ForEach(w.storage, w.score, func(h ecs.Handle, r ecs.Ref[Score]) {
		visited[h.Entity()]++
		assert.Equal(t, Score(h.Entity()), r.Get())
	})
	require.NoError(t, err)

	assert.Len(t, visited, len(expected))
	for en, count := range visited {
		assert.True(t, expected[en], "entity %d should not have been visited", en)
		assert.Equal(t, 1, count, "entity %d visited more than once", en)
	}
}

func TestForEachMutatesThroughRef(t *testing.T) {
	w := newTestWorld(t)

	first, last := w.storage.NewEntities(10)
	for en := first; en < last; en++ {
		require.NoError(t, ecs.Set(w.storage, en, w.score, Score(1)))
	}

	err := ecs.ForEach(w.storage, w.score, func(_ ecs.Handle, r ecs.Ref[Score]) {
		ecs.Add(r, Score(9))
	})
	require.NoError(t, err)

	for en := first; en < last; en++ {
		v, err := ecs.Get[Score](w.storage, en, w.score)
		require.NoError(t, err)
		assert.Equal(t, Score(10), v)
	}
}

// Deleting the entity being visited must not skip or revisit any other
// qualifying entity.
func TestForEachDeleteCurrentEntity(t *testing.T) {
	w := newTestWorld(t)

	const n = 100
	first, last := w.storage.NewEntities(n)
	for en := first; en < last; en++ {
		require.NoError(t, ecs.Set(w.storage, en, w.score, Score(en)))
	}

	visited := make(map[ecs.Entity]int, n)
	err := ecs.ForEach(w.storage, w.score, func(h ecs.Handle, _ ecs.Ref[Score]) {
		visited[h.Entity()]++
		if h.Entity()%3 == 0 {
			w.storage.Delete(h.Entity())
		}
	})
	require.NoError(t, err)

	assert.Len(t, visited, n, "every qualifying entity visited despite deletions")
	for en, count := range visited {
		assert.Equal(t, 1, count, "entity %d visited more than once", en)
	}
	assert.False(t, w.storage.Exists(first))
	assert.Equal(t, n-len(collectEntities(w, w.score)), countMultiplesOfThree(first, last))
}

func TestForEach2FiltersOnBothComponents(t *testing.T) {
	w := newTestWorld(t)

	both := w.storage.NewEntity()
	require.NoError(t, ecs.Set(w.storage, both, w.position, Position{X: 1, Y: 2}))
	require.NoError(t, ecs.Set(w.storage, both, w.velocity, Velocity{DX: 3, DY: 4}))

	posOnly := w.storage.NewEntity()
	require.NoError(t, ecs.Set(w.storage, posOnly, w.position, Position{}))

	velOnly := w.storage.NewEntity()
	require.NoError(t, ecs.Set(w.storage, velOnly, w.velocity, Velocity{}))

	var visited []ecs.Entity
	err := ecs.ForEach2(w.storage, w.position, w.velocity,
		func(h ecs.Handle, p ecs.Ref[Position], v ecs.Ref[Velocity]) {
			visited = append(visited, h.Entity())
			assert.Equal(t, Position{X: 1, Y: 2}, p.Get())
			assert.Equal(t, Velocity{DX: 3, DY: 4}, v.Get())
		})
	require.NoError(t, err)
	assert.Equal(t, []ecs.Entity{both}, visited)
}

func TestForEach3MixedFlatAndBoxed(t *testing.T) {
	w := newTestWorld(t)

	en := w.storage.NewEntity()
	require.NoError(t, ecs.Set(w.storage, en, w.position, Position{X: 1}))
	require.NoError(t, ecs.Set(w.storage, en, w.name, Name("triple")))
	require.NoError(t, ecs.Set(w.storage, en, w.score, Score(3)))

	w.storage.NewEntity()

	visits := 0
	err := ecs.ForEach3(w.storage, w.position, w.name, w.score,
		func(h ecs.Handle, p ecs.Ref[Position], n ecs.Ref[Name], sc ecs.Ref[Score]) {
			visits++
			assert.Equal(t, en, h.Entity())
			assert.Equal(t, Name("triple"), n.Get())
			sc.Set(Score(4))
		})
	require.NoError(t, err)
	assert.Equal(t, 1, visits)

	v, err := ecs.Get[Score](w.storage, en, w.score)
	require.NoError(t, err)
	assert.Equal(t, Score(4), v)
}

func TestForEachBadFilter(t *testing.T) {
	w := newTestWorld(t)

	err := ecs.ForEach(w.storage, ecs.ComponentId(60), func(ecs.Handle, ecs.Ref[Position]) {})
	assert.ErrorIs(t, err, ecs.ErrUnknownComponent)

	err = ecs.ForEach(w.storage, w.position, func(ecs.Handle, ecs.Ref[Velocity]) {})
	assert.ErrorIs(t, err, ecs.ErrTypeMismatch)
}

func collectEntities(w *testWorld, c ecs.ComponentId) []ecs.Entity {
	var out []ecs.Entity
	for h := range w.storage.All() {
		if h.Has(c) {
			out = append(out, h.Entity())
		}
	}
	return out
}

func countMultiplesOfThree(first, last ecs.Entity) int {
	n := 0
	for en := first; en < last; en++ {
		if en%3 == 0 {
			n++
		}
	}
	return n
}
