// Command motion demonstrates driving the engine from an external loop:
// particles fall under gravity, age out, and are destroyed through deferred
// commands while a structured-logging observer reports each frame.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/stagewright/ecs"
)

type position struct {
	X, Y float64
}

type velocity struct {
	DX, DY float64
}

type lifetime struct {
	Remaining time.Duration
}

type movementSystem struct {
	pos ecs.ComponentCreator[position]
	vel ecs.ComponentCreator[velocity]
}

func (s *movementSystem) Descriptor() ecs.SystemDescriptor {
	return ecs.SystemDescriptor{
		Name:     "movement",
		Requires: []ecs.ComponentTypeID{s.pos.ID(), s.vel.ID()},
	}
}

func (s *movementSystem) Run(_ context.Context, exec ecs.ExecutionContext) ecs.SystemResult {
	engine := exec.Engine()
	dt := exec.Delta().Seconds()
	gravity := 9.81
	if g, ok := engine.Resources().Get("gravity"); ok {
		gravity = g.(float64)
	}
	for _, id := range exec.Entities() {
		p, err := s.pos.Get(engine, id)
		if err != nil {
			return ecs.SystemResult{Err: err}
		}
		v, err := s.vel.Get(engine, id)
		if err != nil {
			return ecs.SystemResult{Err: err}
		}
		v.DY -= gravity * dt
		p.X += v.DX * dt
		p.Y += v.DY * dt
	}
	return ecs.SystemResult{}
}

type expirySystem struct {
	life ecs.ComponentCreator[lifetime]
}

func (s *expirySystem) Descriptor() ecs.SystemDescriptor {
	return ecs.SystemDescriptor{
		Name:     "expiry",
		Requires: []ecs.ComponentTypeID{s.life.ID()},
	}
}

func (s *expirySystem) Run(_ context.Context, exec ecs.ExecutionContext) ecs.SystemResult {
	engine := exec.Engine()
	for _, id := range exec.Entities() {
		l, err := s.life.Get(engine, id)
		if err != nil {
			return ecs.SystemResult{Err: err}
		}
		l.Remaining -= exec.Delta()
		if l.Remaining <= 0 {
			exec.Defer(ecs.NewDestroyEntityCommand(id))
		}
	}
	return ecs.SystemResult{}
}

type stdLogger struct {
	prefix string
}

func (l stdLogger) With(key string, value any) ecs.Logger {
	return stdLogger{prefix: fmt.Sprintf("%s%s=%v ", l.prefix, key, value)}
}

func (l stdLogger) Info(msg string, args ...any) {
	log.Println(l.prefix+msg, args)
}

func (l stdLogger) Error(msg string, args ...any) {
	log.Println("ERROR "+l.prefix+msg, args)
}

func main() {
	engine := ecs.NewEngine(
		ecs.WithLogger(stdLogger{}),
		ecs.WithInstrumentation(ecs.InstrumentationConfig{
			Observation: ecs.ObservationSettings{
				EnableStructuredLogging: true,
			},
		}),
	)

	pos := ecs.RegisterComponent[position](engine)
	vel := ecs.RegisterComponent[velocity](engine)
	life := ecs.RegisterComponent[lifetime](engine)

	engine.Resources().Set("gravity", 9.81)

	for i := 0; i < 16; i++ {
		id := engine.CreateEntity()
		must(engine.AddComponent(id, pos.New(position{X: float64(i)})))
		must(engine.AddComponent(id, vel.New(velocity{DX: 1, DY: 5})))
		must(engine.AddComponent(id, life.New(lifetime{Remaining: time.Duration(i+1) * 250 * time.Millisecond})))
	}

	if _, err := engine.AddSystem(&movementSystem{pos: pos, vel: vel}); err != nil {
		log.Fatal(err)
	}
	if _, err := engine.AddSystem(&expirySystem{life: life}); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()
	for engine.EntityCount() > 0 {
		<-ticker.C
		if err := engine.Update(ctx); err != nil {
			log.Fatal(err)
		}
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
