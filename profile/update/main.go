// Profiling:
// go build ./profile/update
// go tool pprof -http=":8000" -nodefraction=0.001 ./update cpu.pprof

package main

import (
	"context"
	"log"

	"github.com/pkg/profile"
	"github.com/stagewright/ecs"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	iters := 10000
	entities := 1000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(iters, entities)
	p.Stop()
}

func run(iters, numEntities int) {
	engine := ecs.NewEngine()
	a := ecs.RegisterComponent[comp1](engine)
	b := ecs.RegisterComponent[comp2](engine)

	for i := 0; i < numEntities; i++ {
		id := engine.CreateEntity()
		check(engine.AddComponent(id, a.New(comp1{V: int64(i)})))
		check(engine.AddComponent(id, b.New(comp2{V: 1, W: 1})))
	}

	sys := &accumulateSystem{a: a, b: b}
	if _, err := engine.AddSystem(sys); err != nil {
		log.Fatal(err)
	}

	if err := engine.Run(context.Background(), iters); err != nil {
		log.Fatal(err)
	}
}

type accumulateSystem struct {
	a ecs.ComponentCreator[comp1]
	b ecs.ComponentCreator[comp2]
}

func (s *accumulateSystem) Descriptor() ecs.SystemDescriptor {
	return ecs.SystemDescriptor{
		Name:     "accumulate",
		Requires: []ecs.ComponentTypeID{s.a.ID(), s.b.ID()},
	}
}

func (s *accumulateSystem) Run(_ context.Context, exec ecs.ExecutionContext) ecs.SystemResult {
	engine := exec.Engine()
	for _, id := range exec.Entities() {
		c1, err := s.a.Get(engine, id)
		if err != nil {
			return ecs.SystemResult{Err: err}
		}
		c2, err := s.b.Get(engine, id)
		if err != nil {
			return ecs.SystemResult{Err: err}
		}
		c1.V += c2.V
		c1.W += c2.W
	}
	return ecs.SystemResult{}
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
