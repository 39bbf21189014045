// Package linear provides a synchronous, line-buffered renderer for CI environments.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/anvil/internal/ui/output"
	"go.trai.ch/anvil/internal/ui/style"
)

// Renderer implements ports.Renderer for CI and non-interactive terminals.
// Toolchain output goes to stdout one line at a time, prefixed with the module
// name. Progress and results go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	modules map[string]*moduleState
}

type moduleState struct {
	name      string
	startTime time.Time
	pending   bytes.Buffer
}

// NewRenderer creates a new Renderer. Nil writers select os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  output.New(stderr, output.ANSI),
		modules: make(map[string]*moduleState),
	}
}

// Start is a no-op, the renderer writes synchronously.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes partial lines of modules that never completed.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, state := range r.modules {
		r.flushLocked(state)
	}
	return nil
}

// Wait is a no-op, the renderer writes synchronously.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the modules about to be built.
func (r *Renderer) OnPlanEmit(modules []string, _ map[string][]string, targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "Building %d module(s) for %s: %s\n",
		len(modules), strings.Join(targets, ", "), strings.Join(modules, ", "))
}

// OnTaskStart prints a module start message.
func (r *Renderer) OnTaskStart(spanID, _, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.modules[spanID] = &moduleState{name: name, startTime: startTime}

	prefix := r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "%s Building...\n", prefix)
}

// OnTaskLog prints complete lines with the module prefix and keeps the rest.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.modules[spanID]
	if !ok {
		return
	}

	state.pending.Write(data)
	for {
		i := bytes.IndexByte(state.pending.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := state.pending.Next(i + 1)
		r.printLineLocked(state.name, line)
	}
}

// OnTaskComplete flushes the module's partial line and prints its result.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error, upToDate bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.modules[spanID]
	if !ok {
		return
	}
	r.flushLocked(state)
	delete(r.modules, spanID)

	prefix := fmt.Sprintf("[%s]", state.name)
	duration := endTime.Sub(state.startTime).Round(time.Millisecond)

	switch {
	case err != nil:
		symbol := r.output.String(style.Failed).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)
	case upToDate:
		symbol := r.output.String(style.UpToDate).Faint().String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Up to date\n", prefix, symbol)
	default:
		symbol := r.output.String(style.Built).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Done in %v\n", prefix, symbol, duration)
	}
}

// flushLocked prints whatever partial line is left. Must be called with r.mu held.
func (r *Renderer) flushLocked(state *moduleState) {
	if state.pending.Len() > 0 {
		r.printLineLocked(state.name, state.pending.Bytes())
		state.pending.Reset()
	}
}

// printLineLocked prints one line with the module prefix. Must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}
