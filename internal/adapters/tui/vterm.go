package tui

import (
	"bytes"
	"sync"

	"github.com/vito/midterm"
)

// Vterm is the scrollable log pane of one module. Toolchain output is fed
// through a virtual terminal so progress bars and colors render as they would
// in a real one.
type Vterm struct {
	mu     sync.Mutex
	vt     *midterm.Terminal
	offset int
	height int
	width  int
	buf    bytes.Buffer
}

// NewVterm creates an empty pane one line high.
func NewVterm() *Vterm {
	return &Vterm{
		vt:     midterm.NewAutoResizingTerminal(),
		height: 1,
	}
}

// Write feeds p to the terminal. A pane scrolled to the bottom follows new output.
func (v *Vterm) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	follow := v.offset >= v.maxOffset()
	n, err := v.vt.Write(p)
	if follow {
		v.offset = v.maxOffset()
	}
	return n, err
}

// Resize sets the visible area. Values below one are raised to one.
func (v *Vterm) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	follow := v.offset >= v.maxOffset()
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.vt.ResizeX(v.width)

	if follow {
		v.offset = v.maxOffset()
	}
	v.clamp()
}

// Scroll moves the view by delta lines, negative values scroll up.
func (v *Vterm) Scroll(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset += delta
	v.clamp()
}

// ScrollPage moves the view by pages, negative values scroll up.
func (v *Vterm) ScrollPage(pages int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset += pages * v.height
	v.clamp()
}

// ScrollToTop shows the first line.
func (v *Vterm) ScrollToTop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = 0
}

// ScrollToBottom shows the last lines and resumes following output.
func (v *Vterm) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = v.maxOffset()
}

// Offset returns the index of the first visible line.
func (v *Vterm) Offset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.offset
}

// Height returns the number of visible lines.
func (v *Vterm) Height() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.height
}

// Lines returns the number of lines written so far.
func (v *Vterm) Lines() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vt.UsedHeight()
}

// View renders the visible lines.
func (v *Vterm) View() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.clamp()
	v.buf.Reset()
	used := v.vt.UsedHeight()
	for i := 0; i < v.height && v.offset+i < used; i++ {
		if i > 0 {
			_ = v.buf.WriteByte('\n')
		}
		_ = v.vt.RenderLine(&v.buf, v.offset+i)
	}
	return v.buf.String()
}

func (v *Vterm) maxOffset() int {
	return max(v.vt.UsedHeight()-v.height, 0)
}

func (v *Vterm) clamp() {
	v.offset = min(max(v.offset, 0), v.maxOffset())
}
