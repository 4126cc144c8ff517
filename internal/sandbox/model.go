package sandbox

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/ballistics"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/platform"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/trainer"
)

const (
	headerHeight = 1
	footerHeight = 2
	logHeight    = 8
	tableWidth   = 26
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	arenaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7"))
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

type tickMsg time.Time

// windField is the sandbox wind prompt: it returns the last committed value.
type windField struct {
	value float64
}

func (w *windField) ReadWind() float64 {
	return w.value
}

// Model implements the Bubble Tea sandbox UI.
type Model struct {
	session  *trainer.Session
	handle   *Handle
	bindings platform.Bindings
	wind     *windField
	tick     time.Duration

	width  int
	height int

	logBuf    *bytes.Buffer
	logLen    int
	logView   viewport.Model
	windInput textinput.Model
	hitsTable table.Model
	errMsg    string
	shown     *trainer.Result
}

// NewModel constructs a sandbox model around a fresh trainer session.
func NewModel(cfg model.Config, bindings platform.Bindings, cellW, cellH int) *Model {
	buf := &bytes.Buffer{}
	wind := &windField{}
	m := &Model{
		handle:   NewHandle(cellW, cellH),
		bindings: bindings,
		wind:     wind,
		tick:     cfg.Tick,
		logBuf:   buf,
		logView:  viewport.New(0, logHeight),
	}
	if m.tick <= 0 {
		m.tick = trainer.DefaultTick
	}
	m.session = trainer.NewSession(cfg, bindings, wind, trainer.NewLogger(buf))
	m.initWindInput()
	m.initHitsTable()
	m.session.PrintControls()
	m.syncLog()
	return m
}

// Session exposes the trainer session driven by the model.
func (m *Model) Session() *trainer.Session {
	return m.session
}

// Handle exposes the simulated window.
func (m *Model) Handle() *Handle {
	return m.handle
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tickMsg:
		m.session.Tick(m.handle)
		m.handle.EndTick()
		m.syncLog()
		m.syncResult()
		return m, m.tickCmd()
	case tea.MouseMsg:
		m.handle.MoveTo(msg.X, msg.Y-headerHeight)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.windInput.Focused() {
			return m.updateWindInput(msg)
		}
		switch msg.Type {
		case tea.KeyTab:
			m.errMsg = ""
			m.windInput.SetValue("")
			return m, m.windInput.Focus()
		case tea.KeyRunes:
			if len(msg.Runes) == 1 && msg.Runes[0] == 'q' {
				if _, bound := m.bindings.Lookup('q'); !bound {
					return m, tea.Quit
				}
			}
			for _, r := range msg.Runes {
				if cmd, ok := m.bindings.Lookup(r); ok {
					m.handle.Press(cmd)
				}
			}
			return m, nil
		default:
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) updateWindInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.windInput.Blur()
		m.errMsg = ""
		return m, nil
	case tea.KeyEnter:
		wind, err := trainer.ParseWind(m.windInput.Value())
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.wind.value = wind
		m.windInput.Blur()
		m.handle.Press(platform.SetWind)
		return m, nil
	}
	var cmd tea.Cmd
	m.windInput, cmd = m.windInput.Update(msg)
	return m, cmd
}

func (m *Model) initWindInput() {
	input := textinput.New()
	input.Prompt = "Wind: "
	input.Placeholder = "-100..100"
	input.CharLimit = 8
	input.Width = 10
	input.Cursor.SetMode(cursor.CursorBlink)
	m.windInput = input
}

func (m *Model) initHitsTable() {
	columns := []table.Column{
		{Title: "Velocity", Width: 8},
		{Title: "Angle", Width: 5},
		{Title: "Bucket", Width: 6},
	}
	m.hitsTable = table.New(
		table.WithColumns(columns),
		table.WithHeight(ballistics.DefaultMaxHits+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	styles.Selected = styles.Cell
	m.hitsTable.SetStyles(styles)
}

// arenaSize returns the arena in cells for the current terminal size.
func (m *Model) arenaSize() (int, int) {
	cols := m.width
	if cols > tableWidth*3 {
		cols -= tableWidth
	}
	rows := m.height - headerHeight - footerHeight - logHeight
	return max(cols, 0), max(rows, 0)
}

func (m *Model) updateLayout() {
	cols, rows := m.arenaSize()
	m.handle.Resize(cols, rows)
	m.logView.Width = m.width
	m.logView.Height = logHeight
}

func (m *Model) syncLog() {
	if m.logBuf.Len() == m.logLen {
		return
	}
	m.logLen = m.logBuf.Len()
	m.logView.SetContent(strings.TrimRight(m.logBuf.String(), "\n"))
	m.logView.GotoBottom()
}

func (m *Model) syncResult() {
	res, ok := m.session.LastResult()
	if !ok {
		return
	}
	if m.shown != nil && sameResult(*m.shown, res) {
		return
	}
	m.shown = &res
	rows := make([]table.Row, 0, len(res.Aggregated.Best))
	for _, hit := range res.Aggregated.Best {
		rows = append(rows, table.Row{
			strconv.Itoa(hit.Velocity),
			strconv.Itoa(hit.Angle),
			fmt.Sprintf("~%d", ballistics.BucketKey(hit.Angle)),
		})
	}
	m.hitsTable.SetRows(rows)
}

func sameResult(a, b trainer.Result) bool {
	if a.Mode != b.Mode || a.Target != b.Target || a.Wind != b.Wind || len(a.Hits) != len(b.Hits) {
		return false
	}
	for i := range a.Hits {
		if a.Hits[i] != b.Hits[i] {
			return false
		}
	}
	return true
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	cols, rows := m.arenaSize()
	arena := fitLines(m.renderArena(cols, rows), cols, rows)
	body := arena
	if cols < m.width {
		side := fitLines(m.hitsTable.View(), m.width-cols, rows)
		body = lipgloss.JoinHorizontal(lipgloss.Top, arena, side)
	}
	sections := []string{
		fitLines(m.renderHeader(), m.width, headerHeight),
		body,
		fitLines(m.logView.View(), m.width, logHeight),
		fitLines(m.renderFooter(), m.width, footerHeight),
	}
	return strings.Join(sections, "\n")
}

func (m *Model) renderHeader() string {
	st := m.session.State()
	ext := m.handle.WindowExtent()
	cached := "live"
	if st.Extent != nil {
		cached = fmt.Sprintf("cached %dx%d", st.Extent.Width, st.Extent.Height)
	}
	return headerStyle.Render(fmt.Sprintf("Sandbox  mode %s  wind %.1f  window %dx%d (%s)", st.Mode, st.Wind, ext.Width, ext.Height, cached))
}

func (m *Model) renderFooter() string {
	input := m.windInput.View()
	if m.errMsg != "" {
		input += "  " + errStyle.Render(m.errMsg)
	}
	help := footerStyle.Render("mouse: aim  tab: edit wind  enter: apply wind  esc: cancel  q: quit")
	return input + "\n" + help
}

func (m *Model) renderArena(cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	c := newArena(cols, rows, m.handle)
	st := m.session.State()
	if st.Source != nil && m.shown != nil && len(m.shown.Aggregated.Best) > 0 {
		extent := m.handle.WindowExtent()
		if st.Extent != nil {
			extent = *st.Extent
		}
		best := m.shown.Aggregated.Best[0]
		path := ballistics.Trace(m.session.Params(), float64(best.Velocity), float64(best.Angle), m.shown.Target, m.shown.Wind)
		c.drawPath(path, *st.Source, extent)
	}
	var markers []marker
	if st.Source != nil {
		markers = append(markers, marker{at: *st.Source, char: 'S'})
	}
	if st.Target != nil {
		markers = append(markers, marker{at: *st.Target, char: 'T'})
	}
	return strings.Join(c.render(markers), "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
