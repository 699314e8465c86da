package ecs

import "fmt"

// ComponentCreator is the capability token returned by RegisterComponent. It
// is the only producer of components of its type and the typed accessor for
// reading them back, so a payload can never be stored under a foreign type
// identifier.
type ComponentCreator[T any] struct {
	id ComponentTypeID
}

// RegisterComponent allocates a fresh component type identifier on the engine
// and returns a creator bound to it. Every call allocates a new identifier;
// identifiers are never reused while the engine instance lives.
func RegisterComponent[T any](e *Engine) ComponentCreator[T] {
	return ComponentCreator[T]{id: e.types.allocate()}
}

// ID returns the bound component type identifier.
func (c ComponentCreator[T]) ID() ComponentTypeID {
	return c.id
}

// New wraps a payload value into a storable component. The payload is copied
// once here; the store and every later Get call share that single instance.
func (c ComponentCreator[T]) New(payload T) Component {
	return Component{typ: c.id, value: &payload}
}

// Get returns the entity's payload of the creator's type. The returned
// reference aliases the stored payload: in-place mutation through it is
// visible to later reads, which is how systems carry simulation state across
// frames. Fails with ErrUnknownEntity for entities not in the registry and
// ErrMissingComponent when the entity lacks the type.
func (c ComponentCreator[T]) Get(e *Engine, id EntityID) (*T, error) {
	comp, err := e.component(id, c.id)
	if err != nil {
		return nil, err
	}
	payload, ok := comp.value.(*T)
	if !ok {
		// Unreachable through the public API; creators are the only producers.
		return nil, fmt.Errorf("%w: type %d holds %T", ErrMissingComponent, c.id, comp.value)
	}
	return payload, nil
}

// typeRegistry hands out component type identifiers. The counter is owned by
// the engine instance, so independent engines never share identifier space.
type typeRegistry struct {
	next ComponentTypeID
}

func (r *typeRegistry) allocate() ComponentTypeID {
	r.next++
	return r.next
}
