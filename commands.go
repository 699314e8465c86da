package ecs

import "fmt"

// NewCreateEntityCommand enqueues an entity creation. If target is non-nil it
// receives the allocated identifier when the command applies.
func NewCreateEntityCommand(target *EntityID) Command {
	return createEntityCommand{target: target}
}

// NewDestroyEntityCommand enqueues a destruction request for the entity. The
// destruction itself still goes through the engine's deferred queue.
func NewDestroyEntityCommand(id EntityID) Command {
	return destroyEntityCommand{entity: id}
}

// NewAddComponentCommand enqueues a component attachment.
func NewAddComponentCommand(id EntityID, c Component) Command {
	return addComponentCommand{entity: id, component: c}
}

// NewRemoveComponentCommand enqueues a component detachment.
func NewRemoveComponentCommand(id EntityID, t ComponentTypeID) Command {
	return removeComponentCommand{entity: id, component: t}
}

type createEntityCommand struct {
	target *EntityID
}

type destroyEntityCommand struct {
	entity EntityID
}

type addComponentCommand struct {
	entity    EntityID
	component Component
}

type removeComponentCommand struct {
	entity    EntityID
	component ComponentTypeID
}

func (c createEntityCommand) Apply(e *Engine) error {
	id := e.CreateEntity()
	if c.target != nil {
		*c.target = id
	}
	return nil
}

func (c destroyEntityCommand) Apply(e *Engine) error {
	if !e.DestroyEntity(c.entity) {
		return fmt.Errorf("%w: destroy %d", ErrUnknownEntity, c.entity)
	}
	return nil
}

func (c addComponentCommand) Apply(e *Engine) error {
	return e.AddComponent(c.entity, c.component)
}

func (c removeComponentCommand) Apply(e *Engine) error {
	return e.RemoveComponent(c.entity, c.component)
}

var (
	_ Command = createEntityCommand{}
	_ Command = destroyEntityCommand{}
	_ Command = addComponentCommand{}
	_ Command = removeComponentCommand{}
)
