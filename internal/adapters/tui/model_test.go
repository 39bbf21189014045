package tui_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/anvil/internal/adapters/telemetry"
	"go.trai.ch/anvil/internal/adapters/tui"
)

func update(t *testing.T, m *tui.Model, msg tea.Msg) (*tui.Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(*tui.Model)
	require.True(t, ok)
	return updated, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// plannedModel returns a model for App -> Engine -> Core plus a standalone Tools target.
func plannedModel(t *testing.T) *tui.Model {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	m := tui.NewModel(io.Discard).WithDisableTick()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, telemetry.MsgPlan{
		Modules:      []string{"Core", "Engine", "App", "Tools"},
		Dependencies: map[string][]string{"App": {"Engine"}, "Engine": {"Core"}},
		Targets:      []string{"App", "Tools"},
	})
	return m
}

func TestModel_InitPlan(t *testing.T) {
	m := plannedModel(t)

	require.Len(t, m.Modules, 4)
	assert.Equal(t, []string{"App", "Engine", "Core", "Tools"}, rowNames(m.Rows))
	for _, node := range m.Modules {
		assert.Equal(t, tui.StatusPending, node.Status)
		assert.Equal(t, m.LogHeight, node.Term.Height())
	}
	assert.Equal(t, "App", m.ActiveModule().Name)
}

func TestModel_WindowSize(t *testing.T) {
	m := plannedModel(t)

	listWidth := int(float64(100) * 0.3)
	assert.Equal(t, 100-listWidth-4, m.LogWidth)
	assert.Positive(t, m.ListHeight)
	assert.Less(t, m.ListHeight, 30)
	assert.Positive(t, m.LogHeight)
}

func TestModel_ModuleLifecycle(t *testing.T) {
	m := plannedModel(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	m, _ = update(t, m, telemetry.MsgModuleStart{SpanID: "s-core", Name: "Core", StartTime: start})
	assert.Equal(t, tui.StatusRunning, m.Modules[0].Status)
	assert.Equal(t, "Core", m.ActiveModule().Name, "follow mode selects the running module")

	m, _ = update(t, m, telemetry.MsgModuleLog{SpanID: "s-core", Data: []byte("Compile [Core]: core.cpp")})
	assert.Contains(t, m.Modules[0].Term.View(), "Compile [Core]: core.cpp")

	m, _ = update(t, m, telemetry.MsgModuleComplete{SpanID: "s-core", EndTime: start.Add(1500 * time.Millisecond)})
	assert.Equal(t, tui.StatusDone, m.Modules[0].Status)
	assert.Equal(t, 1500*time.Millisecond, m.Modules[0].Duration)

	m, _ = update(t, m, telemetry.MsgModuleStart{SpanID: "s-engine", Name: "Engine", StartTime: start})
	m, _ = update(t, m, telemetry.MsgModuleComplete{SpanID: "s-engine", EndTime: start, UpToDate: true})
	assert.Equal(t, tui.StatusUpToDate, m.Modules[1].Status)

	m, _ = update(t, m, telemetry.MsgModuleStart{SpanID: "s-app", Name: "App", StartTime: start})
	m, _ = update(t, m, telemetry.MsgModuleComplete{SpanID: "s-app", EndTime: start, Err: errors.New("module failed to link")})
	assert.Equal(t, tui.StatusFailed, m.Modules[2].Status)
	assert.True(t, m.Failed())
}

func TestModel_UnknownEventsAreIgnored(t *testing.T) {
	m := plannedModel(t)

	m, _ = update(t, m, telemetry.MsgModuleStart{SpanID: "s-x", Name: "Unplanned"})
	m, _ = update(t, m, telemetry.MsgModuleLog{SpanID: "s-x", Data: []byte("noise")})
	m, _ = update(t, m, telemetry.MsgModuleComplete{SpanID: "s-x"})

	for _, node := range m.Modules {
		assert.Equal(t, tui.StatusPending, node.Status)
	}
}

func TestModel_Navigation(t *testing.T) {
	m := plannedModel(t)

	m, _ = update(t, m, key("j"))
	assert.Equal(t, 1, m.SelectedIdx)
	assert.False(t, m.FollowMode)

	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("down"))
	assert.Equal(t, 3, m.SelectedIdx, "selection stops at the last row")

	m, _ = update(t, m, key("k"))
	m, _ = update(t, m, key("up"))
	m, _ = update(t, m, key("up"))
	m, _ = update(t, m, key("up"))
	assert.Equal(t, 0, m.SelectedIdx, "selection stops at the first row")

	m, _ = update(t, m, telemetry.MsgModuleStart{SpanID: "s-core", Name: "Core"})
	assert.Equal(t, 0, m.SelectedIdx, "manual mode keeps the selection")

	m, _ = update(t, m, key("esc"))
	assert.True(t, m.FollowMode)
	assert.Equal(t, "Core", m.ActiveModule().Name)
}

func TestModel_CollapseRow(t *testing.T) {
	m := plannedModel(t)

	m, _ = update(t, m, key("enter"))
	assert.Equal(t, []string{"App", "Tools"}, rowNames(m.Rows))

	m, _ = update(t, m, key("enter"))
	assert.Equal(t, []string{"App", "Engine", "Core", "Tools"}, rowNames(m.Rows))

	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, key("enter"))
	assert.Len(t, m.Rows, 4, "leaf rows do not collapse")
}

func TestModel_ScrollLogPane(t *testing.T) {
	m := plannedModel(t)
	m, _ = update(t, m, telemetry.MsgModuleStart{SpanID: "s-app", Name: "App"})
	m, _ = update(t, m, telemetry.MsgModuleLog{SpanID: "s-app", Data: []byte(strings.Repeat("line\n", 100))})

	term := m.ActiveModule().Term
	bottom := term.Offset()
	require.Positive(t, bottom)

	m, _ = update(t, m, key("home"))
	assert.Equal(t, 0, term.Offset())

	_, _ = update(t, m, key("end"))
	assert.Equal(t, bottom, term.Offset())
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := plannedModel(t)

			m, cmd := update(t, m, key(k))
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.True(t, m.Interrupted)
		})
	}
}

func TestModel_InitWithoutTick(t *testing.T) {
	m := tui.NewModel(io.Discard).WithDisableTick()
	assert.Nil(t, m.Init())

	ticking := tui.NewModel(io.Discard)
	assert.NotNil(t, ticking.Init())
}
