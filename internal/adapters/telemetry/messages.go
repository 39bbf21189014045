package telemetry

import (
	"time"
)

// MsgPlan carries the build plan: modules in build order, the flattened
// dependencies of each and the modules that were requested.
type MsgPlan struct {
	Modules      []string
	Dependencies map[string][]string
	Targets      []string
}

// MsgModuleStart reports that a module span started. ParentID is empty for
// spans without a parent.
type MsgModuleStart struct {
	SpanID    string
	ParentID  string
	Name      string
	StartTime time.Time
}

// MsgModuleLog carries a batch of toolchain output, always ending on a line
// boundary unless the span was closed mid-line.
type MsgModuleLog struct {
	SpanID string
	Data   []byte
}

// MsgModuleComplete reports the outcome of a module span.
type MsgModuleComplete struct {
	SpanID   string
	EndTime  time.Time
	Err      error
	UpToDate bool
}
