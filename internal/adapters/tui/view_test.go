package tui_test

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/anvil/internal/adapters/telemetry"
	"go.trai.ch/anvil/internal/adapters/tui"
)

func TestView_Initializing(t *testing.T) {
	m := tui.NewModel(io.Discard)
	assert.Equal(t, "Initializing...", m.View())
}

func TestView_ModuleTree(t *testing.T) {
	m := plannedModel(t)
	view := m.View()

	assert.Contains(t, view, "MODULES")
	assert.Contains(t, view, "> ")
	assert.Contains(t, view, " ○ App")
	assert.Contains(t, view, "   ○ Engine")
	assert.Contains(t, view, "     ○ Core")
	assert.Contains(t, view, "LOGS: App (Following)")
}

func TestView_Statuses(t *testing.T) {
	m := plannedModel(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	m, _ = update(t, m, telemetry.MsgModuleStart{SpanID: "s-core", Name: "Core", StartTime: start})
	m, _ = update(t, m, telemetry.MsgModuleComplete{SpanID: "s-core", EndTime: start.Add(250 * time.Millisecond)})
	m, _ = update(t, m, telemetry.MsgModuleStart{SpanID: "s-engine", Name: "Engine", StartTime: start})
	m, _ = update(t, m, telemetry.MsgModuleComplete{SpanID: "s-engine", EndTime: start, UpToDate: true})
	m, _ = update(t, m, telemetry.MsgModuleStart{SpanID: "s-tools", Name: "Tools", StartTime: start})
	m, _ = update(t, m, telemetry.MsgModuleStart{SpanID: "s-app", Name: "App", StartTime: start})
	m, _ = update(t, m, telemetry.MsgModuleComplete{SpanID: "s-app", EndTime: start.Add(time.Second), Err: errors.New("link failed")})

	view := m.View()
	assert.Contains(t, view, "✓ Core 250ms")
	assert.Contains(t, view, "~ Engine")
	assert.Contains(t, view, "● Tools")
	assert.Contains(t, view, "✗ App 1s")
}

func TestView_CollapsedMarker(t *testing.T) {
	m := plannedModel(t)
	m, _ = update(t, m, key("enter"))

	view := m.View()
	assert.Contains(t, view, "+○ App")
	assert.NotContains(t, view, "Engine")
}

func TestView_ManualMode(t *testing.T) {
	m := plannedModel(t)
	m, _ = update(t, m, key("j"))

	assert.Contains(t, m.View(), "LOGS: Engine (Manual)")
}

func TestView_WaitingForPlan(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	m := tui.NewModel(io.Discard)
	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, struct{}{})
	m.ListHeight = 10

	assert.Contains(t, m.View(), "LOGS (Waiting...)")
}
