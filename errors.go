package ecs

import "errors"

var (
	// ErrUnknownEntity indicates an operation referenced an entity that was
	// never created or has already been destroyed.
	ErrUnknownEntity = errors.New("ecs: unknown entity")
	// ErrMissingComponent signals a component read for a type the entity does
	// not currently have.
	ErrMissingComponent = errors.New("ecs: missing component")
	// ErrInvalidComponent is returned when a zero-value component is attached;
	// components must come from a ComponentCreator.
	ErrInvalidComponent = errors.New("ecs: invalid component")
	// ErrNilSystem is returned when a nil system is registered.
	ErrNilSystem = errors.New("ecs: nil system")
)
