package ecs

import "math/bits"

// Offset computes the byte offset of component id's slot inside a buffer
// whose presence mask is given. The offset is the sum of the sizes of every
// present component with a lower id. Ids below offsetCacheIds resolve
// through the memoized table; higher ids scan.
//
// External serializers decoding raw record data need this to locate slots;
// everything else in the package resolves offsets internally.
func (r *ComponentRegistry) Offset(presence uint64, id ComponentId) int {
	if int(id) < offsetCacheIds {
		return int(r.offsets[presence&(uint64(1)<<id-1)])
	}
	return r.scanOffset(presence, id)
}

// scanOffset is the fallback path: walk the present components below id in
// ascending order, summing their sizes. Must agree exactly with the cached
// path for every mask.
func (r *ComponentRegistry) scanOffset(presence uint64, id ComponentId) int {
	off := 0
	below := presence & (uint64(1)<<id - 1)
	for below != 0 {
		c := bits.TrailingZeros64(below)
		below &= below - 1
		off += int(r.components[c].size)
	}
	return off
}

// packedSize returns the total buffer length implied by a presence mask.
func (r *ComponentRegistry) packedSize(presence uint64) int {
	size := 0
	for m := presence; m != 0; m &= m - 1 {
		size += int(r.components[bits.TrailingZeros64(m)].size)
	}
	return size
}
