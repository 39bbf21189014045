package telemetry_test

import (
	"context"
	"sync"
	"time"
)

// recordingRenderer is a ports.Renderer that keeps every event in arrival order.
type recordingRenderer struct {
	mu     sync.Mutex
	events []string
	logs   map[string][]byte
	plans  [][]string
	errs   map[string]error
	fresh  map[string]bool
	names  map[string]string
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{
		logs:  make(map[string][]byte),
		errs:  make(map[string]error),
		fresh: make(map[string]bool),
		names: make(map[string]string),
	}
}

func (*recordingRenderer) Start(context.Context) error { return nil }
func (*recordingRenderer) Stop() error                 { return nil }
func (*recordingRenderer) Wait() error                 { return nil }

func (r *recordingRenderer) OnPlanEmit(modules []string, _ map[string][]string, _ []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "plan")
	r.plans = append(r.plans, modules)
}

func (r *recordingRenderer) OnTaskStart(spanID, _, name string, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[spanID] = name
	r.events = append(r.events, "start "+name)
}

func (r *recordingRenderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[spanID] = append(r.logs[spanID], data...)
	r.events = append(r.events, "log "+r.names[spanID])
}

func (r *recordingRenderer) OnTaskComplete(spanID string, _ time.Time, err error, upToDate bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[spanID] = err
	r.fresh[spanID] = upToDate
	r.events = append(r.events, "complete "+r.names[spanID])
}

func (r *recordingRenderer) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// spanFor returns the span ID reported for the named span.
func (r *recordingRenderer) spanFor(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.names {
		if n == name {
			return id
		}
	}
	return ""
}
