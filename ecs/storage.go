package ecs

import (
	"encoding/binary"
	"fmt"
	"iter"
	"math/bits"
	"slices"

	"github.com/kamstrup/intmap"
)

// Storage is a single-table component store. Every entity owns one record:
// a 64-bit presence mask, a 64-bit dirty mask, and a byte buffer that packs
// the present component values in ascending id order with no gaps. Flat
// components live in the buffer as raw bytes; boxed components occupy a
// small slot holding a handle into the storage's box arena, so buffer
// growth can never dangle a live value.
//
// Storage is single-threaded: no operation blocks, and concurrent use from
// multiple goroutines requires external serialization. The storage is the
// sole owner of every record buffer and every boxed value; ownership leaves
// it only through Clone (deep copy) or SetRawData (caller-managed).
type Storage struct {
	registry *ComponentRegistry

	// index maps entity ids to their slot in records. Record slots are
	// reused after deletion; entity ids never are.
	index    *intmap.Map[Entity, uint32]
	records  []*record
	freeRecs []uint32

	// boxes is the arena for boxed component values.
	boxes     []any
	freeBoxes []uint32

	next Entity
}

// record is the per-entity tuple of presence mask, dirty mask and packed
// component data.
type record struct {
	entity   Entity
	presence uint64
	dirty    uint64
	data     []byte
}

// NewStorage creates a storage over the given component registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry: registry,
		index:    intmap.New[Entity, uint32](256),
	}
}

// Registry returns the component registry this storage was built on.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// NewEntity allocates the next unused entity id with an empty record.
func (s *Storage) NewEntity() Entity {
	en := s.next
	s.next++
	s.attach(en)
	return en
}

// NewEntities bulk-allocates count entities with empty records and returns
// their contiguous id range [first, last).
func (s *Storage) NewEntities(count int) (first, last Entity) {
	first = s.next
	for i := 0; i < count; i++ {
		s.NewEntity()
	}
	return first, s.next
}

// Make returns a handle for the given entity id, creating an empty record
// for it first if none exists. Explicitly created ids advance the allocator
// so NewEntity never collides with them.
func (s *Storage) Make(en Entity) Handle {
	if idx, ok := s.index.Get(en); ok {
		return Handle{entity: en, rec: s.records[idx]}
	}
	if en >= s.next {
		s.next = en + 1
	}
	return Handle{entity: en, rec: s.attach(en)}
}

// Find returns a handle for the entity, or ok=false if it does not exist.
func (s *Storage) Find(en Entity) (Handle, bool) {
	idx, ok := s.index.Get(en)
	if !ok {
		return Handle{}, false
	}
	return Handle{entity: en, rec: s.records[idx]}, true
}

// Exists reports whether the entity exists.
func (s *Storage) Exists(en Entity) bool {
	_, ok := s.index.Get(en)
	return ok
}

// Size returns the number of existing entities.
func (s *Storage) Size() int {
	return s.index.Len()
}

// Clone deep-copies an entity: masks and buffer are copied, and every
// present boxed value is re-boxed so the new entity is fully independent of
// the source.
func (s *Storage) Clone(src Entity) (Entity, error) {
	idx, ok := s.index.Get(src)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrNoSuchEntity, src)
	}
	srcRec := s.records[idx]

	en := s.next
	s.next++
	rec := s.attach(en)
	rec.presence = srcRec.presence
	rec.dirty = srcRec.dirty
	rec.data = slices.Clone(srcRec.data)

	for m := rec.presence & s.registry.boxedMask; m != 0; m &= m - 1 {
		c := ComponentId(bits.TrailingZeros64(m))
		off := s.registry.Offset(rec.presence, c)
		held := s.boxes[boxRef(rec.data[off:])]
		putBoxRef(rec.data[off:], s.allocBox(s.registry.components[c].clone(held)))
	}
	return en, nil
}

// Delete removes an entity and reports whether it existed. Every present
// boxed value is destroyed before the bookkeeping goes away.
func (s *Storage) Delete(en Entity) bool {
	idx, ok := s.index.Get(en)
	if !ok {
		return false
	}
	rec := s.records[idx]
	s.destroyBoxes(rec)
	s.records[idx] = nil
	s.freeRecs = append(s.freeRecs, idx)
	s.index.Del(en)
	return true
}

// RemoveComponent removes component c from the entity: the held value is
// destroyed if boxed, the slot's byte range is cut out of the buffer, and
// the presence and dirty bits are cleared. Removing an absent component is
// a no-op.
func (s *Storage) RemoveComponent(h Handle, c ComponentId) error {
	comp := s.registry.Component(c)
	if comp == nil {
		return fmt.Errorf("%w: %d", ErrUnknownComponent, c)
	}
	bit := uint64(1) << c
	if h.rec.presence&bit == 0 {
		return nil
	}
	off := s.registry.Offset(h.rec.presence, c)
	if !comp.flat {
		s.freeBox(boxRef(h.rec.data[off:]))
	}
	h.rec.data = slices.Delete(h.rec.data, off, off+int(comp.size))
	h.rec.presence &^= bit
	h.rec.dirty &^= bit
	return nil
}

// All returns an iterator over every existing entity. The entity set is
// snapshotted up front, so the callback may delete the entity it is
// currently visiting; entities created during iteration are not visited.
func (s *Storage) All() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for _, en := range s.liveEntities() {
			idx, ok := s.index.Get(en)
			if !ok {
				continue
			}
			if !yield(Handle{entity: en, rec: s.records[idx]}) {
				return
			}
		}
	}
}

func (s *Storage) liveEntities() []Entity {
	ids := make([]Entity, 0, s.index.Len())
	for _, rec := range s.records {
		if rec != nil {
			ids = append(ids, rec.entity)
		}
	}
	return ids
}

func (s *Storage) attach(en Entity) *record {
	rec := &record{entity: en}
	var idx uint32
	if n := len(s.freeRecs); n > 0 {
		idx = s.freeRecs[n-1]
		s.freeRecs = s.freeRecs[:n-1]
		s.records[idx] = rec
	} else {
		idx = uint32(len(s.records))
		s.records = append(s.records, rec)
	}
	s.index.Put(en, idx)
	return rec
}

// destroyBoxes releases every boxed value held by the record.
func (s *Storage) destroyBoxes(rec *record) {
	for m := rec.presence & s.registry.boxedMask; m != 0; m &= m - 1 {
		c := ComponentId(bits.TrailingZeros64(m))
		off := s.registry.Offset(rec.presence, c)
		s.freeBox(boxRef(rec.data[off:]))
	}
}

func (s *Storage) allocBox(v any) uint32 {
	if n := len(s.freeBoxes); n > 0 {
		ref := s.freeBoxes[n-1]
		s.freeBoxes = s.freeBoxes[:n-1]
		s.boxes[ref] = v
		return ref
	}
	s.boxes = append(s.boxes, v)
	return uint32(len(s.boxes) - 1)
}

func (s *Storage) freeBox(ref uint32) {
	s.boxes[ref] = nil
	s.freeBoxes = append(s.freeBoxes, ref)
}

func boxRef(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func putBoxRef(b []byte, ref uint32) {
	binary.LittleEndian.PutUint32(b, ref)
}
