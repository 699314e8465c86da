package ecs_test

import (
	"testing"

	"github.com/stagewright/ecs"
)

type tag struct {
	Value string
}

func TestRegisterComponentAllocatesFreshIdentifiers(t *testing.T) {
	engine := ecs.NewEngine()

	a := ecs.RegisterComponent[position](engine)
	b := ecs.RegisterComponent[velocity](engine)
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct type identifiers, got %d twice", a.ID())
	}
	if a.ID() == 0 || b.ID() == 0 {
		t.Fatalf("zero type identifier must never be allocated")
	}

	// Registration is pure allocation: registering the same payload type again
	// yields a new, independent identifier.
	c := ecs.RegisterComponent[position](engine)
	if c.ID() == a.ID() {
		t.Fatalf("re-registration should allocate a fresh identifier")
	}
}

func TestEnginesHaveIndependentTypeSpaces(t *testing.T) {
	first := ecs.NewEngine()
	second := ecs.NewEngine()

	a := ecs.RegisterComponent[position](first)
	b := ecs.RegisterComponent[position](second)
	if a.ID() != b.ID() {
		t.Fatalf("independent engines should start from the same counter, got %d and %d", a.ID(), b.ID())
	}
}

func TestCreatorProducesTaggedComponents(t *testing.T) {
	engine := ecs.NewEngine()
	pos := ecs.RegisterComponent[position](engine)

	c := pos.New(position{X: 3})
	if c.IsZero() {
		t.Fatalf("creator output must not be the zero component")
	}
	if c.Type() != pos.ID() {
		t.Fatalf("component type %d, want %d", c.Type(), pos.ID())
	}
	payload, ok := c.Payload().(*position)
	if !ok {
		t.Fatalf("payload should be *position, got %T", c.Payload())
	}
	if payload.X != 3 {
		t.Fatalf("payload X = %v, want 3", payload.X)
	}
}

func TestCreatorsOfDifferentTypesDoNotAlias(t *testing.T) {
	engine := ecs.NewEngine()
	pos := ecs.RegisterComponent[position](engine)
	tags := ecs.RegisterComponent[tag](engine)

	id := engine.CreateEntity()
	if err := engine.AddComponent(id, pos.New(position{X: 1})); err != nil {
		t.Fatalf("add pos: %v", err)
	}
	if err := engine.AddComponent(id, tags.New(tag{Value: "a"})); err != nil {
		t.Fatalf("add tag: %v", err)
	}

	got, err := tags.Get(engine, id)
	if err != nil {
		t.Fatalf("get tag: %v", err)
	}
	if got.Value != "a" {
		t.Fatalf("tag value %q, want %q", got.Value, "a")
	}
	p, err := pos.Get(engine, id)
	if err != nil {
		t.Fatalf("get pos: %v", err)
	}
	if p.X != 1 {
		t.Fatalf("pos X = %v, want 1", p.X)
	}
}
