package ecs

import (
	"context"
	"io"
	"time"
)

// EntityID identifies an entity. Identifiers are allocated monotonically by an
// Engine and are never reused for the lifetime of that Engine instance. The
// zero value is never allocated and identifies no entity.
type EntityID uint64

// ComponentTypeID identifies a distinct component kind. Identifiers are
// allocated by RegisterComponent, one per call, and are never reused. Their
// ordering carries no meaning beyond allocation sequence.
type ComponentTypeID uint32

// Component pairs a component type identifier with a type-erased payload.
// Components are produced exclusively through a ComponentCreator; the payload
// is shared between the store and any reference obtained from a lookup, so
// systems may mutate it in place across frames.
type Component struct {
	typ   ComponentTypeID
	value any
}

// Type returns the component's type identifier.
func (c Component) Type() ComponentTypeID {
	return c.typ
}

// Payload returns the type-erased payload pointer. Typed access goes through
// ComponentCreator.Get; this accessor exists for diagnostics and iteration.
func (c Component) Payload() any {
	return c.value
}

// IsZero reports whether the component is the zero value.
func (c Component) IsZero() bool {
	return c.typ == 0
}

// System represents a behavior unit executed once per update cycle over the
// entities satisfying its required component set.
type System interface {
	Descriptor() SystemDescriptor
	Run(ctx context.Context, exec ExecutionContext) SystemResult
}

// SystemDescriptor declares a system's identity and component requirements.
type SystemDescriptor struct {
	Name     string
	Requires []ComponentTypeID
	RunEvery TickInterval
}

// SystemResult indicates how a system behaved during execution.
type SystemResult struct {
	Skipped bool
	Err     error
}

// TickInterval controls how frequently a system runs. The zero value runs the
// system on every tick.
type TickInterval struct {
	Every  uint32
	Offset uint32
}

// SystemHandle references a registered system for later removal.
type SystemHandle interface {
	Name() string
}

// ExecutionContext supplies a running system with scoped access to the engine.
type ExecutionContext interface {
	// Engine returns the engine handle for component reads/writes and for
	// requesting entity or system mutations.
	Engine() *Engine
	// Entities returns the system's membership snapshot for this invocation:
	// every entity whose component set covered the system's required set at
	// the moment the system was dispatched.
	Entities() []EntityID
	// Delta reports the elapsed time between the start of this update call and
	// the start of the previous one.
	Delta() time.Duration
	// TickIndex reports the zero-based index of the current update call.
	TickIndex() uint64
	// Logger returns a logger scoped to the running system.
	Logger() Logger
	// Defer queues a command applied after all systems have run this frame.
	Defer(cmd Command)
}

// Command represents a deferred mutation applied at the end of an update
// cycle, outside system execution.
type Command interface {
	Apply(e *Engine) error
}

// Clock supplies the engine's notion of time. Injectable so frame-delta
// behavior is testable without sleeping.
type Clock interface {
	Now() time.Time
}

// Logger captures structured log output from the engine and from systems.
type Logger interface {
	With(key string, value any) Logger
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// EngineObserver receives a summary after each update cycle completes.
type EngineObserver interface {
	UpdateCompleted(summary UpdateSummary)
}

// UpdateSummary captures execution metadata for one update cycle.
type UpdateSummary struct {
	Tick              uint64
	Delta             time.Duration
	Duration          time.Duration
	SystemsTotal      int
	SystemsExecuted   int
	SystemsSkipped    int
	CommandsApplied   int
	EntitiesDestroyed int
	Error             error
}

// InstrumentationConfig configures logging, tracing, and metrics sinks.
type InstrumentationConfig struct {
	EnableTrace bool
	Observer    EngineObserver
	Observation ObservationSettings
}

// ObservationSettings toggles built-in observer integrations.
type ObservationSettings struct {
	EnableStructuredLogging bool
	LoggingFormat           ObservationLogFormat
	StructuredLogger        Logger
	EnableMetrics           bool
	MetricsCollector        MetricsCollector
	MetricsOptions          *MetricsCollectorOptions
	EnableSpans             bool
	SpanExporter            SpanExporter
	SpanOptions             *SpanExporterOptions
}

// ObservationLogFormat controls structured logging encoding.
type ObservationLogFormat uint8

const (
	ObservationLogFormatJSON ObservationLogFormat = iota
	ObservationLogFormatKeyValue
)

// MetricsCollector handles update summaries for Prometheus-style metrics.
type MetricsCollector interface {
	ObserveUpdate(summary UpdateSummary)
}

type MetricsCollectorOptions struct {
	Writer          io.Writer
	DurationBuckets []time.Duration
}

// SpanExporter handles update summaries for span-based tracing backends.
type SpanExporter interface {
	ExportUpdate(summary UpdateSummary)
}

type SpanExporterOptions struct {
	Writer      io.Writer
	ServiceName string
}

// ResourceContainer holds shared values accessible to systems: input state,
// tuning parameters, anything the simulation reads but no single entity owns.
type ResourceContainer interface {
	Get(name string) (any, bool)
	Set(name string, value any)
	Delete(name string)
	Len() int
	Range(func(string, any) bool)
}
