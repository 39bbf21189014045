package tui_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/anvil/internal/adapters/tui"
	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/zerr"
)

func headlessRenderer(model *tui.Model, input io.Reader) *tui.Renderer {
	return tui.NewRenderer(
		model,
		tea.WithInput(input),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)
}

func TestRenderer_Lifecycle(t *testing.T) {
	model := tui.NewModel(io.Discard).WithDisableTick()
	renderer := headlessRenderer(model, strings.NewReader(""))

	require.NoError(t, renderer.Start(context.Background()))
	require.NoError(t, renderer.Stop())
	require.NoError(t, renderer.Wait())
	assert.False(t, model.Interrupted)
}

func TestRenderer_ForwardsEvents(t *testing.T) {
	model := tui.NewModel(io.Discard).WithDisableTick()
	renderer := headlessRenderer(model, strings.NewReader(""))
	require.NoError(t, renderer.Start(context.Background()))

	start := time.Now()
	renderer.OnPlanEmit([]string{"Core", "App"}, map[string][]string{"App": {"Core"}}, []string{"App"})
	renderer.OnTaskStart("span-core", "", "Core", start)
	renderer.OnTaskLog("span-core", []byte("Compile [Core]: core.cpp\n"))
	renderer.OnTaskComplete("span-core", start.Add(time.Second), nil, false)
	renderer.OnTaskStart("span-app", "", "App", start)
	renderer.OnTaskComplete("span-app", start, zerr.New("module failed to link"), false)

	require.NoError(t, renderer.Stop())
	require.NoError(t, renderer.Wait())

	require.Len(t, model.Modules, 2)
	assert.Equal(t, tui.StatusDone, model.Modules[0].Status)
	assert.Contains(t, model.Modules[0].Term.View(), "Compile [Core]: core.cpp")
	assert.Equal(t, tui.StatusFailed, model.Modules[1].Status)
}

func TestRenderer_QuitInterruptsBuild(t *testing.T) {
	model := tui.NewModel(io.Discard).WithDisableTick()
	renderer := headlessRenderer(model, strings.NewReader("q"))

	require.NoError(t, renderer.Start(context.Background()))
	err := renderer.Wait()

	require.ErrorIs(t, err, domain.ErrBuildInterrupted)
	assert.True(t, model.Interrupted)
}
