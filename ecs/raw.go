package ecs

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// RawData exposes the entity's presence mask and packed buffer verbatim,
// for bulk copy by an external persistence or replication layer. The
// returned slice aliases the record; treat it as read-only. Box handles
// inside the buffer are only meaningful within this storage.
func (s *Storage) RawData(h Handle) (presence uint64, data []byte) {
	return h.rec.presence, h.rec.data
}

// SetRawData replaces the entity's presence mask and buffer verbatim,
// bypassing all typed construction. The caller must ensure the new buffer
// satisfies the packing invariant for the new presence mask, and must have
// destroyed any boxed values held by the old buffer (see DiscardData), or
// their boxes leak. The dirty mask is intersected with the new presence
// mask so it never marks absent components.
func (s *Storage) SetRawData(h Handle, presence uint64, data []byte) {
	h.rec.presence = presence
	h.rec.data = append(h.rec.data[:0], data...)
	h.rec.dirty &= presence
}

// DiscardData destroys every boxed value the entity holds and resets the
// record to empty. Callers replacing a record wholesale via SetRawData use
// this first to meet the teardown obligation.
func (s *Storage) DiscardData(h Handle) {
	s.destroyBoxes(h.rec)
	h.rec.presence = 0
	h.rec.dirty = 0
	h.rec.data = h.rec.data[:0]
}

// Checksum returns a 64-bit hash of the entity's presence mask and packed
// buffer. Replication layers can compare checksums to skip unchanged
// records without walking component values. Records holding boxed
// components hash their box handles, so checksums are only comparable for
// snapshots taken from the same storage.
func (s *Storage) Checksum(h Handle) uint64 {
	buf := make([]byte, 8+len(h.rec.data))
	binary.LittleEndian.PutUint64(buf, h.rec.presence)
	copy(buf[8:], h.rec.data)
	return xxhash.Sum64(buf)
}
