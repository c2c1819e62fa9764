package ecs

// Dirty reports whether any component on the entity changed since the dirty
// mask was last cleared.
func (h Handle) Dirty() bool {
	return h.rec.dirty != 0
}

// DirtyAndClear reports whether any component changed, then clears the
// whole dirty mask.
func (h Handle) DirtyAndClear() bool {
	dirty := h.rec.dirty != 0
	h.rec.dirty = 0
	return dirty
}

// DirtyFlag reports whether component c changed since its dirty bit was
// last cleared.
func (h Handle) DirtyFlag(c ComponentId) bool {
	return h.rec.dirty&(uint64(1)<<c) != 0
}

// DirtyFlagAndClear reports whether component c changed, then clears its
// dirty bit.
func (h Handle) DirtyFlagAndClear(c ComponentId) bool {
	bit := uint64(1) << c
	dirty := h.rec.dirty&bit != 0
	h.rec.dirty &^= bit
	return dirty
}
