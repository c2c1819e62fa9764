package ecs

import "errors"

// Commands buffers structural operations so they can be applied after a
// ForEach scan finishes. Callbacks must not insert entities or change
// components on other entities mid-scan; queueing the change here and
// flushing after the scan is the supported way to do it.
type Commands struct {
	deletes []Entity
	removes []removeCommand
	sets    []setCommand
	defers  []func()
}

type removeCommand struct {
	entity    Entity
	component ComponentId
}

type setCommand struct {
	entity    Entity
	component ComponentId
	value     any
}

// NewCommands creates an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

// Delete queues an entity deletion.
func (c *Commands) Delete(en Entity) {
	c.deletes = append(c.deletes, en)
}

// RemoveComponent queues a component removal.
func (c *Commands) RemoveComponent(en Entity, id ComponentId) {
	c.removes = append(c.removes, removeCommand{entity: en, component: id})
}

// Set queues a component write. The entity is created if it does not exist
// at flush time. The dynamic type of v must match the registered component
// type.
func (c *Commands) Set(en Entity, id ComponentId, v any) {
	c.sets = append(c.sets, setCommand{entity: en, component: id, value: v})
}

// Defer queues an arbitrary function, run after all structural operations.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Flush applies the buffered operations to the storage and resets the
// buffer. Deletions run first and shadow later operations on the same
// entity. All errors are collected; the remaining operations still run.
func (c *Commands) Flush(s *Storage) error {
	var errs []error

	deleted := make(map[Entity]bool, len(c.deletes))
	for _, en := range c.deletes {
		s.Delete(en)
		deleted[en] = true
	}

	for _, cmd := range c.removes {
		if deleted[cmd.entity] {
			continue
		}
		h, ok := s.Find(cmd.entity)
		if !ok {
			continue
		}
		if err := s.RemoveComponent(h, cmd.component); err != nil {
			errs = append(errs, err)
		}
	}

	for _, cmd := range c.sets {
		if deleted[cmd.entity] {
			continue
		}
		if err := s.SetAny(s.Make(cmd.entity), cmd.component, cmd.value); err != nil {
			errs = append(errs, err)
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.deletes = c.deletes[:0]
	c.removes = c.removes[:0]
	c.sets = c.sets[:0]
	c.defers = c.defers[:0]

	return errors.Join(errs...)
}
