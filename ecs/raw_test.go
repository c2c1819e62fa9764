package ecs_test

import (
	"testing"

	"github.com/plus3/estore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawDataRoundTrip(t *testing.T) {
	w := newTestWorld(t)

	src := w.storage.Make(0)
	require.NoError(t, ecs.SetAt(w.storage, src, w.position, Position{X: 1, Y: 2}))
	require.NoError(t, ecs.SetAt(w.storage, src, w.health, Health{Current: 3, Max: 4}))

	presence, data := w.storage.RawData(src)

	// Replicate the flat record into a fresh entity verbatim.
	dst := w.storage.Make(1)
	w.storage.SetRawData(dst, presence, data)

	pos, err := ecs.GetAt[Position](w.storage, dst, w.position)
	require.NoError(t, err)
	assert.Equal(t, Position{X: 1, Y: 2}, pos)
	health, err := ecs.GetAt[Health](w.storage, dst, w.health)
	require.NoError(t, err)
	assert.Equal(t, Health{Current: 3, Max: 4}, health)
}

func TestSetRawDataCopiesBuffer(t *testing.T) {
	w := newTestWorld(t)

	src := w.storage.Make(0)
	require.NoError(t, ecs.SetAt(w.storage, src, w.score, Score(7)))
	presence, data := w.storage.RawData(src)

	dst := w.storage.Make(1)
	w.storage.SetRawData(dst, presence, data)

	// Later writes to the source must not show through.
	require.NoError(t, ecs.SetAt(w.storage, src, w.score, Score(8)))
	v, err := ecs.GetAt[Score](w.storage, dst, w.score)
	require.NoError(t, err)
	assert.Equal(t, Score(7), v)
}

func TestSetRawDataConstrainsDirtyMask(t *testing.T) {
	w := newTestWorld(t)

	h := w.storage.Make(0)
	require.NoError(t, ecs.SetAt(w.storage, h, w.position, Position{}))
	require.NoError(t, ecs.SetAt(w.storage, h, w.score, Score(1)))
	assert.True(t, h.DirtyFlag(w.score))

	// Replace with a record that only has position.
	other := w.storage.Make(1)
	require.NoError(t, ecs.SetAt(w.storage, other, w.position, Position{X: 5}))
	presence, data := w.storage.RawData(other)

	w.storage.SetRawData(h, presence, data)
	assert.False(t, h.DirtyFlag(w.score), "dirty bits of absent components are dropped")
	assert.True(t, h.DirtyFlag(w.position))
}

func TestDiscardData(t *testing.T) {
	w := newTestWorld(t)

	h := w.storage.Make(0)
	require.NoError(t, ecs.SetAt(w.storage, h, w.name, Name("boxed")))
	require.NoError(t, ecs.SetAt(w.storage, h, w.position, Position{X: 1}))
	require.Equal(t, 1, w.storage.CollectStats().LiveBoxes)

	w.storage.DiscardData(h)

	assert.Equal(t, uint64(0), h.Presence())
	assert.False(t, h.Dirty())
	assert.Equal(t, 0, packedLen(w.storage, h))
	assert.Equal(t, 0, w.storage.CollectStats().LiveBoxes)
}

func TestChecksumTracksContent(t *testing.T) {
	w := newTestWorld(t)

	h1 := w.storage.Make(0)
	h2 := w.storage.Make(1)
	require.NoError(t, ecs.SetAt(w.storage, h1, w.position, Position{X: 1}))
	require.NoError(t, ecs.SetAt(w.storage, h2, w.position, Position{X: 1}))

	assert.Equal(t, w.storage.Checksum(h1), w.storage.Checksum(h2),
		"equal flat records hash equal")

	require.NoError(t, ecs.SetAt(w.storage, h2, w.position, Position{X: 2}))
	assert.NotEqual(t, w.storage.Checksum(h1), w.storage.Checksum(h2))

	// Presence differences change the checksum even with an empty buffer
	// suffix.
	h3 := w.storage.Make(2)
	assert.NotEqual(t, w.storage.Checksum(h1), w.storage.Checksum(h3))
}
