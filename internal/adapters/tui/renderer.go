package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/anvil/internal/adapters/telemetry"
	"go.trai.ch/anvil/internal/core/domain"
)

// Renderer wraps the TUI Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop signals the TUI to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated. Quitting from the keyboard while
// the build runs reports domain.ErrBuildInterrupted so the build is cancelled.
func (r *Renderer) Wait() error {
	if err := <-r.errCh; err != nil {
		return err
	}
	if r.model.Interrupted {
		return domain.ErrBuildInterrupted
	}
	return nil
}

// OnPlanEmit forwards the build plan to the TUI.
func (r *Renderer) OnPlanEmit(modules []string, deps map[string][]string, targets []string) {
	r.program.Send(telemetry.MsgPlan{
		Modules:      modules,
		Dependencies: deps,
		Targets:      targets,
	})
}

// OnTaskStart forwards module start events to the TUI.
func (r *Renderer) OnTaskStart(spanID, parentID, name string, startTime time.Time) {
	r.program.Send(telemetry.MsgModuleStart{
		SpanID:    spanID,
		ParentID:  parentID,
		Name:      name,
		StartTime: startTime,
	})
}

// OnTaskLog forwards toolchain output to the TUI.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.program.Send(telemetry.MsgModuleLog{
		SpanID: spanID,
		Data:   data,
	})
}

// OnTaskComplete forwards module completion events to the TUI.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error, upToDate bool) {
	r.program.Send(telemetry.MsgModuleComplete{
		SpanID:   spanID,
		EndTime:  endTime,
		Err:      err,
		UpToDate: upToDate,
	})
}
