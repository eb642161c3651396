// Package ui renders live progress of multi-file runs in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"snep/internal/driver"
)

// maxRows ограничивает список файлов; завершённые сворачиваются первыми.
const maxRows = 16

type stageInfo struct {
	label  string
	weight float64 // доля работы, выполненная к началу стадии
}

var stages = map[driver.Stage]stageInfo{
	driver.StageLoad:   {"loading", 0.1},
	driver.StageParse:  {"parsing", 0.4},
	driver.StageRender: {"rendering", 0.7},
	driver.StageWrite:  {"writing", 0.9},
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

type fileItem struct {
	path   string
	status string
	stage  driver.Stage
	final  bool
	failed bool
}

type progressModel struct {
	title      string
	events     <-chan driver.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []fileItem
	index      map[string]int
	stageLabel string
	width      int
	done       bool
}

type (
	eventMsg driver.Event
	doneMsg  struct{}
)

// NewProgressModel returns a Bubble Tea model that renders driver progress.
// Files appear in the order their first event arrives.
func NewProgressModel(title string, events <-chan driver.Event) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(activeStyle))
	prog := progress.New(progress.WithDefaultGradient(), progress.WithWidth(76))
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		index:   make(map[string]int),
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		next, cmd := m.prog.Update(msg)
		if pm, ok := next.(progress.Model); ok {
			m.prog = pm
		}
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-16, 20)
	shown, hidden := m.visible()
	for _, item := range shown {
		status := statusStyle(item).Render(fmt.Sprintf("%12s", item.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(item.path, nameWidth))
	}
	if hidden > 0 {
		b.WriteString(faintStyle.Render(fmt.Sprintf("  ... %d finished files hidden", hidden)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) header() string {
	head := m.title
	if m.stageLabel != "" {
		head += " (" + m.stageLabel + ")"
	}
	finished, failed := 0, 0
	for _, item := range m.items {
		if item.final {
			finished++
		}
		if item.failed {
			failed++
		}
	}
	head += fmt.Sprintf(" %d/%d", finished, len(m.items))
	if failed > 0 {
		head += fmt.Sprintf(", %d failed", failed)
	}
	if m.done {
		return "done: " + head
	}
	return m.spinner.View() + " " + head
}

// visible keeps the order of items but drops the oldest finished ones once
// the list is longer than maxRows. Failed files are never hidden.
func (m *progressModel) visible() ([]fileItem, int) {
	excess := len(m.items) - maxRows
	if excess <= 0 {
		return m.items, 0
	}
	shown := make([]fileItem, 0, maxRows)
	hidden := 0
	for _, item := range m.items {
		if hidden < excess && item.final && !item.failed {
			hidden++
			continue
		}
		shown = append(shown, item)
	}
	return shown, hidden
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.File == "" {
		if label != "" {
			m.stageLabel = label
		}
		return nil
	}

	idx, ok := m.index[ev.File]
	if !ok {
		idx = len(m.items)
		m.index[ev.File] = idx
		m.items = append(m.items, fileItem{path: ev.File})
	}
	item := &m.items[idx]
	if label != "" {
		item.status = label
		item.stage = ev.Stage
	}
	switch ev.Status {
	case driver.StatusError:
		item.final, item.failed = true, true
	case driver.StatusDone:
		// load завершается до парсинга, это ещё не конец файла
		item.final = ev.Stage != driver.StageLoad
	default:
		item.final = false
	}
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var total float64
	for _, item := range m.items {
		if item.final {
			total++
			continue
		}
		total += stages[item.stage].weight
	}
	return total / float64(len(m.items))
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	if status == driver.StatusWorking {
		return stages[stage].label
	}
	switch status {
	case driver.StatusQueued, driver.StatusDone, driver.StatusError:
		return string(status)
	}
	return ""
}

func statusStyle(item fileItem) lipgloss.Style {
	switch {
	case item.failed:
		return errorStyle
	case item.final:
		return doneStyle
	case item.status == "" || item.status == string(driver.StatusQueued):
		return pendingStyle
	}
	return activeStyle
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// хвост "..." входит в width
	return runewidth.Truncate(value, width, "...")
}
