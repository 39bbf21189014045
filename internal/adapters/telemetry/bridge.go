package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/anvil/internal/core/ports"
)

const (
	exceptionEvent      = "exception"
	exceptionMessageKey = attribute.Key("exception.message")
)

// Bridge is an sdktrace.SpanProcessor that turns module spans into Renderer events.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a Bridge feeding renderer. A nil renderer makes it inert.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart reports the span with the ID of its parent span, if any.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var parentID string
	if p := trace.SpanFromContext(parent).SpanContext(); p.IsValid() {
		parentID = p.SpanID().String()
	}

	b.renderer.OnTaskStart(sc.SpanID().String(), parentID, s.Name(), s.StartTime())
}

// OnEnd reports the outcome of the span.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	b.renderer.OnTaskComplete(sc.SpanID().String(), s.EndTime(), spanError(s), upToDate(s))
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

// spanError rebuilds the errors recorded on a failed span in recording order.
// The span status only keeps the last one, and a module can fail both its
// resource copy and its link.
func spanError(s sdktrace.ReadOnlySpan) error {
	if s.Status().Code != codes.Error {
		return nil
	}

	var errs []error
	for _, ev := range s.Events() {
		if ev.Name != exceptionEvent {
			continue
		}
		for _, kv := range ev.Attributes {
			if kv.Key == exceptionMessageKey {
				errs = append(errs, errors.New(kv.Value.AsString()))
			}
		}
	}

	switch len(errs) {
	case 0:
		desc := s.Status().Description
		if desc == "" {
			desc = "module failed"
		}
		return errors.New(desc)
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

func upToDate(s sdktrace.ReadOnlySpan) bool {
	for _, kv := range s.Attributes() {
		if string(kv.Key) == ports.UpToDateAttribute {
			return kv.Value.AsBool()
		}
	}
	return false
}
