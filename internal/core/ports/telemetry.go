package ports

import (
	"context"
	"io"
)

// UpToDateAttribute is set on a module span when the module needed no compile or link.
const UpToDateAttribute = "anvil.up_to_date"

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan announces the modules about to be built and their dependencies.
	EmitPlan(ctx context.Context, modules []string, deps map[string][]string, targets []string)
}

// Span represents a unit of work. Bytes written to it are progress output.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	// Root detaches the span from any parent found in the context.
	Root bool
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithRoot starts the span without a parent.
func WithRoot() SpanOption {
	return func(c *SpanConfig) {
		c.Root = true
	}
}
