package ecs

import (
	"fmt"
	"reflect"
)

// ForEach invokes fn for every entity holding component c, passing a handle
// and a Ref bound to the entity's live slot offset.
//
// The entity set is snapshotted before the scan, so fn may delete the
// entity it is currently visiting without skipping or revisiting others.
// Inserting entities or changing components on other entities from inside
// fn is undefined; queue such changes on a Commands buffer and flush it
// after the scan. ForEach is not re-entrant over the same storage, and the
// visitation order is unspecified.
func ForEach[A any](s *Storage, c ComponentId, fn func(Handle, Ref[A])) error {
	if err := filterType[A](s, c); err != nil {
		return err
	}
	mask := uint64(1) << c
	for _, en := range s.liveEntities() {
		idx, ok := s.index.Get(en)
		if !ok {
			continue
		}
		rec := s.records[idx]
		if rec.presence&mask != mask {
			continue
		}
		fn(Handle{entity: en, rec: rec}, refFor[A](s, rec, c))
	}
	return nil
}

// ForEach2 is ForEach filtering on two components.
func ForEach2[A, B any](s *Storage, c1, c2 ComponentId, fn func(Handle, Ref[A], Ref[B])) error {
	if err := filterType[A](s, c1); err != nil {
		return err
	}
	if err := filterType[B](s, c2); err != nil {
		return err
	}
	mask := uint64(1)<<c1 | uint64(1)<<c2
	for _, en := range s.liveEntities() {
		idx, ok := s.index.Get(en)
		if !ok {
			continue
		}
		rec := s.records[idx]
		if rec.presence&mask != mask {
			continue
		}
		fn(Handle{entity: en, rec: rec}, refFor[A](s, rec, c1), refFor[B](s, rec, c2))
	}
	return nil
}

// ForEach3 is ForEach filtering on three components.
func ForEach3[A, B, C any](s *Storage, c1, c2, c3 ComponentId, fn func(Handle, Ref[A], Ref[B], Ref[C])) error {
	if err := filterType[A](s, c1); err != nil {
		return err
	}
	if err := filterType[B](s, c2); err != nil {
		return err
	}
	if err := filterType[C](s, c3); err != nil {
		return err
	}
	mask := uint64(1)<<c1 | uint64(1)<<c2 | uint64(1)<<c3
	for _, en := range s.liveEntities() {
		idx, ok := s.index.Get(en)
		if !ok {
			continue
		}
		rec := s.records[idx]
		if rec.presence&mask != mask {
			continue
		}
		fn(Handle{entity: en, rec: rec}, refFor[A](s, rec, c1), refFor[B](s, rec, c2), refFor[C](s, rec, c3))
	}
	return nil
}

func refFor[T any](s *Storage, rec *record, c ComponentId) Ref[T] {
	return Ref[T]{
		storage: s,
		rec:     rec,
		off:     s.registry.Offset(rec.presence, c),
		id:      c,
	}
}

func filterType[T any](s *Storage, c ComponentId) error {
	comp := s.registry.Component(c)
	if comp == nil {
		return fmt.Errorf("%w: %d", ErrUnknownComponent, c)
	}
	if t := reflect.TypeFor[T](); t != comp.typ {
		return fmt.Errorf("%w: component %q holds %s, not %s", ErrTypeMismatch, comp.name, comp.typ, t)
	}
	return nil
}
