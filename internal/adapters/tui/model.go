package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/anvil/internal/adapters/telemetry"
)

const (
	moduleListWidthRatio = 0.3
	logPaneBorderWidth   = 4
)

// ModuleStatus is the state of one module in the tree.
type ModuleStatus int

const (
	// StatusPending indicates the module is waiting for a worker.
	StatusPending ModuleStatus = iota
	// StatusRunning indicates the module is compiling or linking.
	StatusRunning
	// StatusDone indicates the module compiled and linked.
	StatusDone
	// StatusUpToDate indicates nothing had to be compiled or linked.
	StatusUpToDate
	// StatusFailed indicates the module failed or was skipped.
	StatusFailed
)

// ModuleNode is the live state of one planned module.
type ModuleNode struct {
	Name      string
	Status    ModuleStatus
	Term      *Vterm
	StartTime time.Time
	Duration  time.Duration
	Err       error
}

// Model is the Bubble Tea model of the build view.
type Model struct {
	Modules []*ModuleNode
	Rows    []*TreeRow

	SelectedIdx int
	ListOffset  int
	ListHeight  int
	LogWidth    int
	LogHeight   int
	FollowMode  bool

	// Interrupted is set when the user quits before the build is over.
	Interrupted bool

	byName      map[string]*ModuleNode
	bySpan      map[string]*ModuleNode
	roots       []*TreeRow
	spinner     spinner.Model
	disableTick bool
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	if m.disableTick {
		return nil
	}
	return m.spinner.Tick
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		if m.disableTick {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case telemetry.MsgPlan:
		m.initPlan(msg)
	case telemetry.MsgModuleStart:
		m.startModule(msg)
	case telemetry.MsgModuleLog:
		if node, ok := m.bySpan[msg.SpanID]; ok {
			_, _ = node.Term.Write(msg.Data)
		}
	case telemetry.MsgModuleComplete:
		m.completeModule(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Interrupted = true
		return m, tea.Quit
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.FollowMode = false
			m.ensureVisible()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.Rows)-1 {
			m.SelectedIdx++
			m.FollowMode = false
			m.ensureVisible()
		}
	case "enter", " ":
		if row := m.selectedRow(); row != nil && len(row.Children) > 0 {
			row.Expanded = !row.Expanded
			m.Rows = flattenTree(m.roots)
			m.ensureVisible()
		}
	case "esc", "f":
		m.FollowMode = true
		for _, node := range m.Modules {
			if node.Status == StatusRunning {
				m.selectModule(node.Name)
				break
			}
		}
	default:
		m.scrollLog(msg.String())
	}
	return m, nil
}

func (m *Model) scrollLog(key string) {
	node := m.ActiveModule()
	if node == nil {
		return
	}
	switch key {
	case "pgup", "ctrl+u":
		node.Term.ScrollPage(-1)
	case "pgdown", "ctrl+d":
		node.Term.ScrollPage(1)
	case "home", "g":
		node.Term.ScrollToTop()
	case "end", "G":
		node.Term.ScrollToBottom()
	}
}

func (m *Model) resize(width, height int) {
	listWidth := int(float64(width) * moduleListWidthRatio)
	m.LogWidth = width - listWidth - logPaneBorderWidth
	m.LogHeight = height - lipgloss.Height(titleStyle.Render("LOGS"))
	m.ListHeight = height - lipgloss.Height(titleStyle.Render("MODULES")+"\n\n")
	m.ensureVisible()

	for _, node := range m.Modules {
		node.Term.Resize(m.LogWidth, m.LogHeight)
	}
}

func (m *Model) initPlan(msg telemetry.MsgPlan) {
	m.Modules = make([]*ModuleNode, len(msg.Modules))
	m.byName = make(map[string]*ModuleNode, len(msg.Modules))
	m.bySpan = make(map[string]*ModuleNode)

	for i, name := range msg.Modules {
		term := NewVterm()
		if m.LogWidth > 0 && m.LogHeight > 0 {
			term.Resize(m.LogWidth, m.LogHeight)
		}
		m.Modules[i] = &ModuleNode{Name: name, Status: StatusPending, Term: term}
		m.byName[name] = m.Modules[i]
	}

	m.roots = buildTree(msg.Targets, msg.Dependencies, m.byName)
	m.Rows = flattenTree(m.roots)
	m.SelectedIdx = 0
	m.ListOffset = 0
}

func (m *Model) startModule(msg telemetry.MsgModuleStart) {
	node, ok := m.byName[msg.Name]
	if !ok {
		return
	}
	node.Status = StatusRunning
	node.StartTime = msg.StartTime
	m.bySpan[msg.SpanID] = node

	if m.FollowMode {
		m.selectModule(node.Name)
	}
}

func (m *Model) completeModule(msg telemetry.MsgModuleComplete) {
	node, ok := m.bySpan[msg.SpanID]
	if !ok {
		return
	}
	node.Duration = msg.EndTime.Sub(node.StartTime)
	node.Err = msg.Err
	switch {
	case msg.Err != nil:
		node.Status = StatusFailed
	case msg.UpToDate:
		node.Status = StatusUpToDate
	default:
		node.Status = StatusDone
	}
}

// selectModule moves the cursor to the first row showing name.
func (m *Model) selectModule(name string) {
	for i, row := range m.Rows {
		if row.Module.Name == name {
			m.SelectedIdx = i
			break
		}
	}
	m.ensureVisible()
}

func (m *Model) selectedRow() *TreeRow {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Rows) {
		return m.Rows[m.SelectedIdx]
	}
	return nil
}

// ActiveModule returns the module whose log pane is shown.
func (m *Model) ActiveModule() *ModuleNode {
	if row := m.selectedRow(); row != nil {
		return row.Module
	}
	return nil
}

// Failed reports whether any module failed.
func (m *Model) Failed() bool {
	for _, node := range m.Modules {
		if node.Status == StatusFailed {
			return true
		}
	}
	return false
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}
