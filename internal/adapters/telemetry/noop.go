package telemetry

import (
	"context"

	"go.trai.ch/anvil/internal/core/ports"
)

// NoOpTracer is a ports.Tracer that discards everything. Commands that touch
// the build layout without compiling anything use it.
type NoOpTracer struct{}

// NewNoOpTracer returns a tracer that records nothing.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// Start returns ctx unchanged and a span that discards its input.
func (*NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, noOpSpan{}
}

// EmitPlan does nothing.
func (*NoOpTracer) EmitPlan(context.Context, []string, map[string][]string, []string) {}

type noOpSpan struct{}

func (noOpSpan) Write(p []byte) (int, error) { return len(p), nil }
func (noOpSpan) End()                        {}
func (noOpSpan) RecordError(error)           {}
func (noOpSpan) SetAttribute(string, any)    {}
