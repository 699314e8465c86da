package ecs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

type compositeObserver struct {
	observers []EngineObserver
}

func (c compositeObserver) UpdateCompleted(summary UpdateSummary) {
	for _, observer := range c.observers {
		observer.UpdateCompleted(summary)
	}
}

type loggingObserver struct {
	logger Logger
	format ObservationLogFormat
}

func newLoggingObserver(logger Logger, format ObservationLogFormat) EngineObserver {
	if logger == nil {
		return noopObserver{}
	}
	if format != ObservationLogFormatKeyValue {
		format = ObservationLogFormatJSON
	}
	return loggingObserver{logger: logger, format: format}
}

func (o loggingObserver) UpdateCompleted(summary UpdateSummary) {
	switch o.format {
	case ObservationLogFormatKeyValue:
		o.logKeyValue(summary)
	default:
		o.logJSON(summary)
	}
}

func (o loggingObserver) logJSON(summary UpdateSummary) {
	payload := map[string]any{
		"tick":               summary.Tick,
		"delta_ms":           float64(summary.Delta) / float64(time.Millisecond),
		"duration_ms":        float64(summary.Duration) / float64(time.Millisecond),
		"systems_total":      summary.SystemsTotal,
		"systems_executed":   summary.SystemsExecuted,
		"systems_skipped":    summary.SystemsSkipped,
		"commands_applied":   summary.CommandsApplied,
		"entities_destroyed": summary.EntitiesDestroyed,
	}
	if summary.Error != nil {
		payload["error"] = summary.Error.Error()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		o.logger.Error("update summary marshal error", "err", err)
		return
	}
	o.logger.Info(string(data))
}

func (o loggingObserver) logKeyValue(summary UpdateSummary) {
	args := []any{
		"tick", summary.Tick,
		"delta", summary.Delta,
		"duration", summary.Duration,
		"systems_total", summary.SystemsTotal,
		"systems_executed", summary.SystemsExecuted,
		"systems_skipped", summary.SystemsSkipped,
		"commands_applied", summary.CommandsApplied,
		"entities_destroyed", summary.EntitiesDestroyed,
	}
	if summary.Error != nil {
		args = append(args, "error", summary.Error.Error())
	}
	o.logger.Info("update summary", args...)
}

type metricsObserver struct {
	collector MetricsCollector
}

func newMetricsObserver(collector MetricsCollector) EngineObserver {
	if collector == nil {
		return noopObserver{}
	}
	return metricsObserver{collector: collector}
}

func (o metricsObserver) UpdateCompleted(summary UpdateSummary) {
	o.collector.ObserveUpdate(summary)
}

type spanObserver struct {
	exporter SpanExporter
}

func newSpanObserver(exporter SpanExporter) EngineObserver {
	if exporter == nil {
		return noopObserver{}
	}
	return spanObserver{exporter: exporter}
}

func (o spanObserver) UpdateCompleted(summary UpdateSummary) {
	o.exporter.ExportUpdate(summary)
}

func buildObserverChain(logger Logger, cfg InstrumentationConfig) EngineObserver {
	var observers []EngineObserver

	if cfg.Observer != nil {
		observers = append(observers, cfg.Observer)
	}

	obs := cfg.Observation

	if obs.EnableStructuredLogging {
		structuredLogger := obs.StructuredLogger
		if structuredLogger == nil {
			structuredLogger = logger
		}
		observers = append(observers, newLoggingObserver(structuredLogger, obs.LoggingFormat))
	}

	if obs.EnableMetrics {
		collector := obs.MetricsCollector
		if collector == nil {
			collector = NewPrometheusUpdateCollector(obs.MetricsOptions)
		}
		if collector != nil {
			observers = append(observers, newMetricsObserver(collector))
		}
	}

	if obs.EnableSpans {
		exporter := obs.SpanExporter
		if exporter == nil {
			exporter = NewJSONSpanExporter(obs.SpanOptions)
		}
		if exporter != nil {
			observers = append(observers, newSpanObserver(exporter))
		}
	}

	if len(observers) == 0 {
		return noopObserver{}
	}
	if len(observers) == 1 {
		return observers[0]
	}
	return compositeObserver{observers: observers}
}

// PrometheusUpdateCollector aggregates update summaries into Prometheus text
// format metrics.
type PrometheusUpdateCollector struct {
	options *MetricsCollectorOptions
	mu      sync.Mutex
	sample  prometheusSample
}

type prometheusSample struct {
	durationSum   float64
	durationCount float64
	buckets       []float64
	executed      float64
	skipped       float64
	commands      float64
	destroyed     float64
	errors        float64
}

func NewPrometheusUpdateCollector(opts *MetricsCollectorOptions) MetricsCollector {
	if opts == nil {
		opts = &MetricsCollectorOptions{}
	}
	c := &PrometheusUpdateCollector{options: opts}
	if buckets := opts.DurationBuckets; len(buckets) > 0 {
		c.sample.buckets = make([]float64, len(buckets))
	}
	return c
}

func (c *PrometheusUpdateCollector) ObserveUpdate(summary UpdateSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	durSeconds := summary.Duration.Seconds()
	c.sample.durationSum += durSeconds
	c.sample.durationCount++
	for i := range c.sample.buckets {
		if durSeconds <= c.options.DurationBuckets[i].Seconds() {
			c.sample.buckets[i]++
		}
	}
	c.sample.executed += float64(summary.SystemsExecuted)
	c.sample.skipped += float64(summary.SystemsSkipped)
	c.sample.commands += float64(summary.CommandsApplied)
	c.sample.destroyed += float64(summary.EntitiesDestroyed)
	if summary.Error != nil {
		c.sample.errors++
	}

	if writer := c.options.Writer; writer != nil {
		_ = c.writeMetricsLocked(writer)
	}
}

func (c *PrometheusUpdateCollector) WriteMetrics(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeMetricsLocked(w)
}

func (c *PrometheusUpdateCollector) writeMetricsLocked(w io.Writer) error {
	if w == nil {
		return nil
	}
	var buf bytes.Buffer
	buf.WriteString("# HELP ecs_update_duration_seconds Update cycle execution duration.\n")
	buf.WriteString("# TYPE ecs_update_duration_seconds summary\n")
	buf.WriteString(fmt.Sprintf("ecs_update_duration_seconds_sum %f\n", c.sample.durationSum))
	buf.WriteString(fmt.Sprintf("ecs_update_duration_seconds_count %f\n", c.sample.durationCount))
	for i, bucket := range c.sample.buckets {
		le := c.options.DurationBuckets[i].Seconds()
		buf.WriteString(fmt.Sprintf("ecs_update_duration_seconds_bucket{le=\"%.6f\"} %f\n", le, bucket))
	}

	buf.WriteString("# HELP ecs_update_systems_executed_total Systems executed per update.\n")
	buf.WriteString("# TYPE ecs_update_systems_executed_total counter\n")
	buf.WriteString(fmt.Sprintf("ecs_update_systems_executed_total %f\n", c.sample.executed))

	buf.WriteString("# HELP ecs_update_systems_skipped_total Systems skipped per update.\n")
	buf.WriteString("# TYPE ecs_update_systems_skipped_total counter\n")
	buf.WriteString(fmt.Sprintf("ecs_update_systems_skipped_total %f\n", c.sample.skipped))

	buf.WriteString("# HELP ecs_update_commands_applied_total Deferred commands applied.\n")
	buf.WriteString("# TYPE ecs_update_commands_applied_total counter\n")
	buf.WriteString(fmt.Sprintf("ecs_update_commands_applied_total %f\n", c.sample.commands))

	buf.WriteString("# HELP ecs_update_entities_destroyed_total Entities destroyed by the deferred flush.\n")
	buf.WriteString("# TYPE ecs_update_entities_destroyed_total counter\n")
	buf.WriteString(fmt.Sprintf("ecs_update_entities_destroyed_total %f\n", c.sample.destroyed))

	buf.WriteString("# HELP ecs_update_errors_total Update cycle error count.\n")
	buf.WriteString("# TYPE ecs_update_errors_total counter\n")
	buf.WriteString(fmt.Sprintf("ecs_update_errors_total %f\n", c.sample.errors))

	_, err := w.Write(buf.Bytes())
	return err
}

// JSONSpanExporter writes one JSON span per update cycle, suitable for
// ingestion by span-based tracing backends.
type JSONSpanExporter struct {
	opts *SpanExporterOptions
	mu   sync.Mutex
}

func NewJSONSpanExporter(opts *SpanExporterOptions) SpanExporter {
	if opts == nil {
		opts = &SpanExporterOptions{}
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "ecs-engine"
	}
	return &JSONSpanExporter{opts: opts}
}

func (e *JSONSpanExporter) ExportUpdate(summary UpdateSummary) {
	if e.opts.Writer == nil {
		return
	}
	span := map[string]any{
		"service_name": e.opts.ServiceName,
		"name":         fmt.Sprintf("update:%d", summary.Tick),
		"timestamp":    time.Now().UnixNano(),
		"duration_ms":  float64(summary.Duration) / float64(time.Millisecond),
		"attributes": map[string]any{
			"tick":               summary.Tick,
			"delta_ms":           float64(summary.Delta) / float64(time.Millisecond),
			"systems_total":      summary.SystemsTotal,
			"systems_executed":   summary.SystemsExecuted,
			"systems_skipped":    summary.SystemsSkipped,
			"commands_applied":   summary.CommandsApplied,
			"entities_destroyed": summary.EntitiesDestroyed,
		},
	}
	if summary.Error != nil {
		span["error"] = summary.Error.Error()
	}
	payload, err := json.Marshal(span)
	if err != nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	_, _ = e.opts.Writer.Write(append(payload, '\n'))
}
