package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/countrylookup/internal/emoji"
	"github.com/yildizm/countrylookup/internal/logger"
	"github.com/yildizm/countrylookup/internal/search"
	"github.com/yildizm/countrylookup/internal/view"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "show country"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to list"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// Options configures the terminal UI
type Options struct {
	Debounce time.Duration
	Logger   *logger.Logger
}

// Model is the interactive search screen. Keystrokes pass through a debounce
// gate, lookups run as commands and every response is applied by the
// controller on the update loop.
type Model struct {
	ctx  context.Context
	ctrl *search.Controller
	gate *search.Gate
	log  *logger.Logger

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	styles  *Styles

	notice      *search.Notice
	cursor      int
	pending     int
	lastValue   string
	lastTicket  search.Ticket
	lastRequest search.Request

	width    int
	height   int
	quitting bool
}

// NewModel creates the search screen around ctrl
func NewModel(ctx context.Context, ctrl *search.Controller, opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	input := textinput.New()
	input.Prompt = emoji.GetEmoji("search") + " "
	input.Placeholder = "Search for a country"
	input.CharLimit = 100
	input.Width = 40
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	styles := GetStyles()
	s.Style = styles.Muted

	return &Model{
		ctx:     ctx,
		ctrl:    ctrl,
		gate:    search.NewGate(opts.Debounce),
		log:     log.WithComponent("ui"),
		input:   input,
		spinner: s,
		help:    help.New(),
		keys:    defaultKeyMap(),
		styles:  styles,
	}
}

// Init starts the cursor blinking
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case debounceMsg:
		return m.handleDebounce(msg)

	case lookupResultMsg:
		return m.handleLookupResult(msg)

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		return m.handleEscape()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.Select):
		return m.handleSelect()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == m.lastValue {
		return m, cmd
	}

	m.lastValue = m.input.Value()
	m.lastTicket = m.gate.Trigger(m.lastValue)
	return m, tea.Batch(cmd, debounceCmd(m.gate, m.lastTicket))
}

func (m *Model) handleDebounce(msg debounceMsg) (tea.Model, tea.Cmd) {
	value, ok := m.gate.Fire(msg.ticket)
	if !ok {
		return m, nil
	}

	req, ok := m.ctrl.Prepare(value)
	if !ok {
		return m, nil
	}

	m.lastRequest = req
	m.pending++
	m.log.DebugWithFields("dispatching lookup", []logger.Field{
		logger.F("query", req.Name),
		logger.F("generation", req.Generation),
	})

	return m, tea.Batch(lookupCmd(m.ctx, m.ctrl.Lookuper(), req), m.spinner.Tick)
}

func (m *Model) handleLookupResult(msg lookupResultMsg) (tea.Model, tea.Cmd) {
	if m.pending > 0 {
		m.pending--
	}

	out := m.ctrl.Apply(msg.resp)
	if out.Notice != nil {
		m.notice = out.Notice
		return m, nil
	}
	if !out.Changed {
		return m, nil
	}

	m.notice = nil
	m.cursor = 0
	return m, nil
}

func (m *Model) handleSelect() (tea.Model, tea.Cmd) {
	list := m.ctrl.State().List
	if m.cursor < 0 || m.cursor >= len(list) {
		return m, nil
	}

	name := list[m.cursor].OfficialName()
	if _, err := m.ctrl.Select(name); err != nil {
		m.log.WarnWithFields("selection failed", []logger.Field{
			logger.F("name", name),
			logger.Error(err),
		})
		return m, nil
	}

	m.notice = nil
	return m, nil
}

func (m *Model) handleEscape() (tea.Model, tea.Cmd) {
	if out := m.ctrl.Escape(); out.Changed {
		m.notice = nil
		m.clampCursor()
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.State().List)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the search screen
func (m *Model) View() string {
	if m.quitting {
		return emoji.GetEmoji("door") + " Goodbye!\n"
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render(emoji.GetEmoji("globe") + " Country lookup"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	if m.pending > 0 {
		b.WriteString(" ")
		b.WriteString(m.spinner.View())
	}
	b.WriteString("\n")

	if notice := renderNotice(m.styles, m.notice); notice != "" {
		b.WriteString("\n")
		b.WriteString(notice)
		b.WriteString("\n")
	}

	if content := m.renderPanes(); content != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Panel.Render(content))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")

	return b.String()
}

func (m *Model) renderPanes() string {
	state := m.ctrl.State()
	switch {
	case state.Detail != nil:
		return renderDetail(m.styles, view.NewDetail(state.Detail))
	case len(state.List) > 0:
		return renderList(m.styles, view.NewList(state.List), m.cursor)
	default:
		return ""
	}
}

// Run starts the terminal UI and blocks until the user quits or ctx is done
func Run(ctx context.Context, ctrl *search.Controller, opts Options) error {
	model := NewModel(ctx, ctrl, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
