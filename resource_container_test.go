package ecs_test

import (
	"testing"

	"github.com/stagewright/ecs"
)

func TestResourceContainer(t *testing.T) {
	engine := ecs.NewEngine()
	engine.Resources().Set("gravity", 9.81)

	value, ok := engine.Resources().Get("gravity")
	if !ok {
		t.Fatalf("expected resource")
	}
	if value.(float64) != 9.81 {
		t.Fatalf("unexpected resource value: %v", value)
	}
	if engine.Resources().Len() != 1 {
		t.Fatalf("expected 1 resource, got %d", engine.Resources().Len())
	}

	seen := 0
	engine.Resources().Range(func(k string, v any) bool {
		seen++
		return true
	})
	if seen != 1 {
		t.Fatalf("expected Range to visit one entry, visited %d", seen)
	}

	engine.Resources().Delete("gravity")
	if _, ok := engine.Resources().Get("gravity"); ok {
		t.Fatalf("resource should be deleted")
	}
}

type staticResources struct {
	values map[string]any
}

func (r staticResources) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}
func (r staticResources) Set(string, any) {}

func (r staticResources) Delete(string) {}

func (r staticResources) Len() int { return len(r.values) }

func (r staticResources) Range(func(string, any) bool) {}

func TestWithResourceContainerOverride(t *testing.T) {
	container := staticResources{values: map[string]any{"seed": 7}}
	engine := ecs.NewEngine(ecs.WithResourceContainer(container))

	v, ok := engine.Resources().Get("seed")
	if !ok || v.(int) != 7 {
		t.Fatalf("expected injected container, got %v (ok=%v)", v, ok)
	}
}
