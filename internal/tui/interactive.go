package tui

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/lifecal/internal/birthdate"
	"github.com/san-kum/lifecal/internal/render"
	"github.com/san-kum/lifecal/internal/storage"
	"github.com/san-kum/lifecal/internal/timeline"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

type mode int

const (
	modeGrid mode = iota
	modeBirth
)

// chrome is the number of lines around the grid.
const chrome = 10

type Options struct {
	KV    storage.KV
	Rand  timeline.IntNer
	Scale timeline.Scale
	Theme render.Theme
	// Now defaults to time.Now.
	Now func() time.Time
}

type model struct {
	ctx  context.Context
	kv   storage.KV
	rng  timeline.IntNer
	now  func() time.Time
	mode mode

	state   timeline.State
	started bool
	grid    timeline.Grid
	err     error

	theme   render.Theme
	editBuf string
	notice  string
	offset  int
	column  int

	width  int
	height int
}

// NewApp loads the stored birthday. Without one the app opens on the
// birthday prompt.
func NewApp(ctx context.Context, opts Options) (*model, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Theme.Name == "" {
		opts.Theme = render.ThemeClassic
	}
	if !opts.Scale.Valid() {
		return nil, &timeline.ScaleError{Value: string(opts.Scale)}
	}

	m := &model{
		ctx:    ctx,
		kv:     opts.KV,
		rng:    opts.Rand,
		now:    opts.Now,
		theme:  opts.Theme,
		state:  timeline.State{Scale: opts.Scale},
		width:  80,
		height: 24,
	}

	stored, ok, err := opts.KV.Get(ctx, birthdate.Key)
	if err != nil {
		return nil, err
	}
	if ok && birthdate.Valid(stored) {
		start, _ := birthdate.Parse(stored)
		m.begin(start)
	} else {
		m.mode = modeBirth
		m.notice = birthdate.Message
	}
	return m, nil
}

func (m *model) begin(start time.Time) {
	years := timeline.Lifespan(m.rng)
	m.state = timeline.State{
		Start: start,
		End:   timeline.EndFor(start, years),
		Scale: m.state.Scale,
		Years: years,
	}
	m.started = true
	m.rebuild()
}

func (m *model) apply(ev timeline.Event) {
	next, err := timeline.Apply(m.state, ev)
	if err != nil {
		m.err = err
		return
	}
	m.state = next
	m.rebuild()
}

func (m *model) rebuild() {
	m.grid, m.err = m.state.Build(m.now())
	m.clampOffset()
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.mode {
	case modeBirth:
		return m.birthKey(msg)
	default:
		return m.gridKey(msg)
	}
}

func (m model) gridKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "m", "w", "d":
		m.apply(timeline.ScaleSelected{Scale: timeline.Scale(msg.String())})
	case "b":
		m.mode = modeBirth
		m.editBuf = ""
		m.notice = birthdate.Message
	case "x":
		m.apply(timeline.DeathRerolled{Years: timeline.Lifespan(m.rng)})
	case "t":
		m.theme = render.NextTheme(m.theme.Name)
	case "up", "k":
		m.offset--
		m.clampOffset()
	case "down", "j":
		m.offset++
		m.clampOffset()
	case "pgup":
		m.offset -= m.visibleRows()
		m.clampOffset()
	case "pgdown", " ":
		m.offset += m.visibleRows()
		m.clampOffset()
	case "left", "h":
		m.column -= max(m.visibleCols()/2, 1)
		m.clampOffset()
	case "right", "l":
		m.column += max(m.visibleCols()/2, 1)
		m.clampOffset()
	case "0":
		m.column = 0
	case "$":
		m.column = timeline.ScaleCount[m.state.Scale]
		m.clampOffset()
	case "home", "g":
		m.offset = 0
	case "end", "G":
		m.offset = len(m.grid)
		m.clampOffset()
	}
	return m, nil
}

func (m model) birthKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		start, err := birthdate.Save(m.ctx, m.kv, m.editBuf)
		if err != nil {
			m.notice = "not a date, try again. " + birthdate.Message
			m.editBuf = ""
			return m, nil
		}
		m.mode = modeGrid
		m.editBuf = ""
		m.notice = ""
		if m.started {
			m.apply(timeline.BirthEntered{Date: start})
		} else {
			m.begin(start)
		}
	case "esc":
		if m.started {
			m.mode = modeGrid
			m.editBuf = ""
			m.notice = ""
		}
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	case " ":
		m.editBuf += " "
	default:
		if msg.Type == tea.KeyRunes {
			for _, c := range msg.Runes {
				if unicode.IsLetter(c) || unicode.IsDigit(c) || strings.ContainsRune("-/:, ", c) {
					m.editBuf += string(c)
				}
			}
		}
	}
	return m, nil
}

func (m model) visibleRows() int {
	return max(m.height-chrome, 1)
}

func (m *model) clampOffset() {
	maxOffset := max(len(m.grid)-m.visibleRows(), 0)
	m.offset = min(max(m.offset, 0), maxOffset)

	maxColumn := max(timeline.ScaleCount[m.state.Scale]-m.visibleCols(), 0)
	m.column = min(max(m.column, 0), maxColumn)
}

// visibleCols is how many cells fit beside the year label.
func (m model) visibleCols() int {
	return max(m.width-3-5-1, 1)
}

// visibleSpan returns the half-open cell range shown for each row.
func (m model) visibleSpan() (from, to int) {
	n := timeline.ScaleCount[m.state.Scale]
	from = min(m.column, n)
	return from, min(from+m.visibleCols(), n)
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("   " + cyan.Render("l i f e c a l") + "   " + m.viewScales() + "\n")
	b.WriteString(dimmer.Render("   "+strings.Repeat("─", 30)) + "\n")

	if m.started {
		b.WriteString(fmt.Sprintf("   %s %s  %s %s  %s %s\n",
			dim.Render("born"), white.Render(m.state.Start.Format(time.DateOnly)),
			dim.Render("lifespan"), magenta.Render(fmt.Sprintf("%d", m.state.Years)),
			dim.Render("until"), white.Render(m.state.End.Format(time.DateOnly))))
		lived := render.Lived(m.state.Start, m.state.End, m.now())
		b.WriteString(fmt.Sprintf("   %s %s\n",
			render.ProgressBar(lived, 36, m.theme), dim.Render(fmt.Sprintf("%.1f%% lived", lived*100))))
	} else {
		b.WriteString("\n")
		b.WriteString("\n")
	}

	if m.mode == modeBirth {
		b.WriteString("\n   " + yellow.Render(m.notice) + "\n")
		b.WriteString("   " + magenta.Render(m.editBuf+"▋") + "\n\n")
		hint := "enter accept   esc cancel"
		if !m.started {
			hint = "enter accept   ctrl+c quit"
		}
		b.WriteString(dim.Render("   "+hint) + "\n")
		return b.String()
	}

	if m.err != nil {
		b.WriteString("\n   " + yellow.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.viewGrid())
	b.WriteString("   " + render.Legend(m.theme) + "\n")
	b.WriteString(dim.Render("   m/w/d scale  b birth  x death  t theme  ↑↓←→ scroll  q quit") + "\n")

	return b.String()
}

func (m model) viewScales() string {
	parts := make([]string, 0, len(timeline.Scales))
	for _, s := range timeline.Scales {
		if s == m.state.Scale {
			parts = append(parts, cyan.Render("▸"+s.Name()))
		} else {
			parts = append(parts, dim.Render(" "+s.Name()))
		}
	}
	return strings.Join(parts, " ")
}

// viewGrid shows the rows in the scroll window, cut to the terminal width.
func (m model) viewGrid() string {
	var b strings.Builder
	from, to := m.visibleSpan()
	n := timeline.ScaleCount[m.state.Scale]
	if to-from < n {
		b.WriteString(dim.Render(fmt.Sprintf("   %s %d-%d of %d  ←→ pan", m.state.Scale.Name(), from+1, to, n)) + "\n")
	}

	end := min(m.offset+m.visibleRows(), len(m.grid))
	for _, row := range m.grid[m.offset:end] {
		row = timeline.Row{Year: row.Year, Cells: row.Cells[from:to]}
		b.WriteString("   " + render.Row(row, m.theme) + "\n")
	}
	return b.String()
}

func RunInteractive(ctx context.Context, opts Options) error {
	app, err := NewApp(ctx, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
