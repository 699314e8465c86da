package ecs

import (
	"context"
	"fmt"
	"io"
	"runtime/trace"
	"time"
)

// Engine composes the entity registry, component type registry, system
// registry, and frame timing behind one handle. All engine state belongs to a
// single control goroutine: the mutation API and Update must be called from
// the same goroutine that drives the frame loop.
type Engine struct {
	types           typeRegistry
	entities        *entityRegistry
	systems         *systemRegistry
	resources       ResourceContainer
	pool            *CommandBufferPool
	clock           Clock
	logger          Logger
	observer        EngineObserver
	instrumentation InstrumentationConfig

	destroyQueue []EntityID
	queued       map[EntityID]struct{}

	lastUpdate time.Time
	delta      time.Duration
	tick       uint64
}

type EngineOption func(*Engine)

// NewEngine constructs an engine with default registries. Construction
// establishes the frame-delta baseline: the first Update call reports the
// time elapsed since NewEngine returned.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		entities:  newEntityRegistry(),
		systems:   newSystemRegistry(),
		resources: newResourceContainer(),
		pool:      NewCommandBufferPool(),
		clock:     systemClock{},
		logger:    noopLogger{},
		observer:  noopObserver{},
		queued:    make(map[EntityID]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.applyInstrumentation(e.instrumentation)
	e.lastUpdate = e.clock.Now()
	return e
}

// WithClock overrides the engine's time source.
func WithClock(clock Clock) EngineOption {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithLogger supplies the logger handed to systems and observers.
func WithLogger(logger Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithResourceContainer overrides the default resource container.
func WithResourceContainer(container ResourceContainer) EngineOption {
	return func(e *Engine) {
		if container != nil {
			e.resources = container
		}
	}
}

// WithInstrumentation configures observers, metrics, and tracing sinks.
func WithInstrumentation(cfg InstrumentationConfig) EngineOption {
	return func(e *Engine) {
		e.instrumentation = cfg
	}
}

func (e *Engine) applyInstrumentation(cfg InstrumentationConfig) {
	e.instrumentation = cfg
	e.observer = buildObserverChain(e.logger, cfg)
}

// Resources exposes the shared resource container.
func (e *Engine) Resources() ResourceContainer {
	return e.resources
}

// CreateEntity allocates a fresh entity with an empty component store. The
// new entity immediately joins the membership of any system whose required
// set is empty.
func (e *Engine) CreateEntity() EntityID {
	id := e.entities.create()
	if store, ok := e.entities.store(id); ok {
		e.systems.recompute(id, store)
	}
	return id
}

// Alive reports whether the identifier refers to a live entity. Entities
// queued for destruction remain alive until the end-of-update flush.
func (e *Engine) Alive(id EntityID) bool {
	return e.entities.contains(id)
}

// EntityCount returns the number of live entities.
func (e *Engine) EntityCount() int {
	return e.entities.count()
}

// DestroyEntity queues the entity for destruction at the end of the current
// or next update cycle. The entity stays queryable and keeps its memberships
// until the flush, so systems observe a stable entity set for a full pass.
// Queueing is idempotent; the return value reports whether the entity was
// alive when the call was made.
func (e *Engine) DestroyEntity(id EntityID) bool {
	if !e.entities.contains(id) {
		return false
	}
	if _, ok := e.queued[id]; ok {
		return true
	}
	e.queued[id] = struct{}{}
	e.destroyQueue = append(e.destroyQueue, id)
	return true
}

// AddComponent attaches the component to the entity, overwriting any existing
// component of the same type, and recomputes the entity's system memberships.
func (e *Engine) AddComponent(id EntityID, c Component) error {
	if c.IsZero() {
		return fmt.Errorf("%w: components must come from a ComponentCreator", ErrInvalidComponent)
	}
	store, ok := e.entities.store(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	store[c.typ] = c
	e.systems.recompute(id, store)
	return nil
}

// RemoveComponent detaches the entity's component of the given type, if
// present, and recomputes memberships. Removing an absent type is a no-op.
func (e *Engine) RemoveComponent(id EntityID, t ComponentTypeID) error {
	store, ok := e.entities.store(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	if _, present := store[t]; !present {
		return nil
	}
	delete(store, t)
	e.systems.recompute(id, store)
	return nil
}

// Components returns a copy of the entity's full component set.
func (e *Engine) Components(id EntityID) (map[ComponentTypeID]Component, error) {
	store, ok := e.entities.store(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	out := make(map[ComponentTypeID]Component, len(store))
	for t, c := range store {
		out[t] = c
	}
	return out, nil
}

func (e *Engine) component(id EntityID, t ComponentTypeID) (Component, error) {
	store, ok := e.entities.store(id)
	if !ok {
		return Component{}, fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	c, ok := store[t]
	if !ok {
		return Component{}, fmt.Errorf("%w: entity %d has no component of type %d", ErrMissingComponent, id, t)
	}
	return c, nil
}

// AddSystem registers the system and populates its membership set with a full
// scan over the existing entities.
func (e *Engine) AddSystem(sys System) (SystemHandle, error) {
	if sys == nil {
		return nil, ErrNilSystem
	}
	return e.systems.add(sys, e.entities), nil
}

// RemoveSystem deregisters the handle's system and discards its membership
// set. Removing an unknown handle is a no-op.
func (e *Engine) RemoveSystem(h SystemHandle) {
	if h == nil {
		return
	}
	e.systems.remove(h)
}

// Delta reports the frame delta computed by the most recent Update call.
func (e *Engine) Delta() time.Duration {
	return e.delta
}

// TickIndex reports the zero-based index of the next update cycle.
func (e *Engine) TickIndex() uint64 {
	return e.tick
}

// Update runs one frame: it computes the frame delta, invokes every
// registered system in registration order with its current membership
// snapshot, applies deferred commands, and flushes queued destructions.
//
// Component mutations made by a system take effect immediately and are
// visible to systems invoked later in the same pass. Entity destruction is
// only queued; destroyed entities disappear from the store and from every
// membership set when Update returns.
//
// A system failure aborts the pass: the error propagates immediately, the
// remaining systems do not run, deferred commands from the frame are
// discarded, and the destroy queue is left unflushed for this cycle.
func (e *Engine) Update(ctx context.Context) error {
	now := e.clock.Now()
	delta := now.Sub(e.lastUpdate)
	e.lastUpdate = now
	e.delta = delta
	tick := e.tick

	buf := e.pool.Get()
	defer e.pool.Put(buf)

	summary := UpdateSummary{Tick: tick, Delta: delta}
	start := time.Now()

	for _, state := range e.systems.ordered() {
		if err := ctx.Err(); err != nil {
			return e.abort(&summary, start, err)
		}
		summary.SystemsTotal++
		if !shouldRunTick(tick, state.runEvery) {
			summary.SystemsSkipped++
			continue
		}
		exec := &updateContext{
			engine:   e,
			entities: state.members.Snapshot(),
			delta:    delta,
			tick:     tick,
			logger:   e.logger.With("system", state.name),
			commands: buf,
		}
		snapshot := buf.Snapshot()
		result := state.system.Run(ctx, exec)
		if result.Err != nil {
			buf.Restore(snapshot)
			err := fmt.Errorf("ecs: system %s failed: %w", state.name, result.Err)
			return e.abort(&summary, start, err)
		}
		if result.Skipped {
			summary.SystemsSkipped++
			continue
		}
		summary.SystemsExecuted++
	}

	for _, cmd := range buf.Drain() {
		if cmd == nil {
			continue
		}
		if err := cmd.Apply(e); err != nil {
			return e.abort(&summary, start, err)
		}
		summary.CommandsApplied++
	}

	summary.EntitiesDestroyed = e.flushDestroyed()
	summary.Duration = time.Since(start)
	e.tick++
	e.publish(summary)
	return nil
}

func (e *Engine) abort(summary *UpdateSummary, start time.Time, err error) error {
	summary.Error = err
	summary.Duration = time.Since(start)
	e.publish(*summary)
	return err
}

// flushDestroyed removes every queued entity from the store and from all
// membership sets, then clears the queue.
func (e *Engine) flushDestroyed() int {
	destroyed := 0
	for _, id := range e.destroyQueue {
		if e.entities.remove(id) {
			e.systems.drop(id)
			destroyed++
		}
		delete(e.queued, id)
	}
	e.destroyQueue = e.destroyQueue[:0]
	return destroyed
}

func (e *Engine) publish(summary UpdateSummary) {
	if e.observer == nil {
		return
	}
	e.observer.UpdateCompleted(summary)
}

// Run drives Update for a fixed number of steps.
func (e *Engine) Run(ctx context.Context, steps int) error {
	for i := 0; i < steps; i++ {
		if err := e.Update(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RunWithTrace wraps fn in a runtime/trace session when tracing is enabled.
func (e *Engine) RunWithTrace(ctx context.Context, w io.Writer, fn func() error) error {
	if e.instrumentation.EnableTrace && w != nil {
		if err := trace.Start(w); err != nil {
			return err
		}
		defer trace.Stop()
	}
	return fn()
}

func shouldRunTick(tick uint64, interval TickInterval) bool {
	every := uint64(interval.Every)
	if every == 0 {
		return true
	}
	offset := uint64(interval.Offset % interval.Every)
	return (tick+offset)%every == 0
}

// updateContext is the execution context handed to systems during Update.
type updateContext struct {
	engine   *Engine
	entities []EntityID
	delta    time.Duration
	tick     uint64
	logger   Logger
	commands *CommandBuffer
}

func (c *updateContext) Engine() *Engine { return c.engine }

func (c *updateContext) Entities() []EntityID { return c.entities }

func (c *updateContext) Delta() time.Duration { return c.delta }

func (c *updateContext) TickIndex() uint64 { return c.tick }

func (c *updateContext) Logger() Logger { return c.logger }

func (c *updateContext) Defer(cmd Command) { c.commands.Push(cmd) }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// noopLogger is used until a real logger is supplied.
type noopLogger struct{}

func (noopLogger) With(string, any) Logger { return noopLogger{} }
func (noopLogger) Info(string, ...any)     {}
func (noopLogger) Error(string, ...any)    {}

type noopObserver struct{}

func (noopObserver) UpdateCompleted(UpdateSummary) {}
