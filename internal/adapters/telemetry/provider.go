package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/anvil/internal/core/ports"
)

// Setup installs a global TracerProvider that forwards every span to renderer.
// The returned provider must be shut down once the build is over.
func Setup(renderer ports.Renderer) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewBridge(renderer)),
	)
	otel.SetTracerProvider(tp)
	return tp
}

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
type OTelTracer struct {
	tracer   trace.Tracer
	renderer ports.Renderer
	mu       sync.RWMutex
}

// NewOTelTracer creates a new OTelTracer backed by the global TracerProvider.
func NewOTelTracer(name string) *OTelTracer {
	return &OTelTracer{
		tracer: otel.Tracer(name),
	}
}

// WithRenderer streams span output and plan announcements to r.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderer = r
	return t
}

func (t *OTelTracer) currentRenderer() ports.Renderer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.renderer
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var startOpts []trace.SpanStartOption
	if cfg.Root {
		startOpts = append(startOpts, trace.WithNewRoot())
	}
	ctx, span := t.tracer.Start(ctx, name, startOpts...)

	var batcher *LineBatcher
	if r := t.currentRenderer(); r != nil {
		spanID := span.SpanContext().SpanID().String()
		// Flushing synchronously keeps every chunk ahead of the completion event.
		batcher = NewLineBatcher(0, 0, func(data []byte) {
			r.OnTaskLog(spanID, data)
		})
	}

	return ctx, &OTelSpan{span: span, batcher: batcher}
}

// EmitPlan records the build plan on the current span and hands it to the renderer.
func (t *OTelTracer) EmitPlan(ctx context.Context, modules []string, deps map[string][]string, targets []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("modules", modules),
			attribute.StringSlice("targets", targets),
		))
	}

	if r := t.currentRenderer(); r != nil {
		r.OnPlanEmit(modules, deps, targets)
	}
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry.
type OTelSpan struct {
	span    trace.Span
	batcher *LineBatcher
}

// End flushes pending output and completes the span.
func (s *OTelSpan) End() {
	if s.batcher != nil {
		_ = s.batcher.Close()
	}
	s.span.End()
}

// RecordError records an error for the span and marks it failed.
func (s *OTelSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write satisfies io.Writer. Output goes to the renderer when one is attached
// and is recorded as a span event otherwise.
func (s *OTelSpan) Write(p []byte) (int, error) {
	if s.batcher != nil {
		if n, err := s.batcher.Write(p); err == nil {
			return n, nil
		}
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}
