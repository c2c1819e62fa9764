package ecs

// Entity is a stable integer identifier with no semantic payload.
// Ids are handed out by a monotonic counter and never recycled.
type Entity uint32

// Handle is a short-lived reference to an entity's record inside a Storage.
// It stays usable across data writes to its own entity, but deleting the
// entity invalidates it. Obtain a fresh one via Storage.Find or Storage.Make.
type Handle struct {
	entity Entity
	rec    *record
}

// Entity returns the entity id this handle refers to.
func (h Handle) Entity() Entity {
	return h.entity
}

// Valid reports whether the handle refers to a record at all.
// The zero Handle is invalid.
func (h Handle) Valid() bool {
	return h.rec != nil
}

// Presence returns the entity's 64-bit component presence mask.
func (h Handle) Presence() uint64 {
	return h.rec.presence
}

// Has reports whether component c is present on the entity.
func (h Handle) Has(c ComponentId) bool {
	return h.rec.presence&(uint64(1)<<c) != 0
}
