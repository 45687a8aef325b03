package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"bobbin/dialogue"
)

type entryKind uint8

const (
	entryLine entryKind = iota
	entryPick
	entryError
)

type entry struct {
	kind entryKind
	text string
}

type playKeys struct {
	Next key.Binding
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

var defaultPlayKeys = playKeys{
	Next: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "continue/pick")),
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("\u2191/k", "up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("\u2193/j", "down")),
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	playTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	playPickStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	playErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	playCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	playHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// PlayModel is the Bubble Tea model behind `bobbin play`: a scrolling
// transcript with the pending choices underneath.
type PlayModel struct {
	title   string
	rt      *dialogue.Runtime
	keys    playKeys
	help    help.Model
	history []entry
	cursor  int
	width   int
	height  int
	done    bool
	err     error
}

// NewPlayModel wraps a runtime that has already made its first step.
func NewPlayModel(title string, rt *dialogue.Runtime) *PlayModel {
	m := &PlayModel{title: title, rt: rt, keys: defaultPlayKeys, help: help.New(), width: 80, height: 24}
	m.sync()
	return m
}

// Err returns the runtime error that stopped the dialogue, if any.
func (m *PlayModel) Err() error { return m.err }

// Finished reports whether the dialogue ran to its end.
func (m *PlayModel) Finished() bool { return m.done && m.err == nil }

// Transcript returns what was shown so far, one entry per line, with picks
// prefixed by "> ".
func (m *PlayModel) Transcript() []string {
	out := make([]string, 0, len(m.history))
	for _, e := range m.history {
		switch e.kind {
		case entryPick:
			out = append(out, "> "+e.text)
		case entryError:
			out = append(out, "error: "+e.text)
		default:
			out = append(out, e.text)
		}
	}
	return out
}

func (m *PlayModel) Init() tea.Cmd { return nil }

func (m *PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.help.Width = msg.Width
		}
		if msg.Height > 0 {
			m.height = msg.Height
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.done {
		// любая клавиша после конца закрывает окно
		return m, tea.Quit
	}
	choices := m.rt.CurrentChoices()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(choices)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Next):
		if m.rt.IsWaitingForChoice() {
			m.pick(m.cursor)
		} else {
			m.advance()
		}
	default:
		// 1..9 выбирают вариант напрямую
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if i := int(s[0] - '1'); i < len(choices) {
				m.pick(i)
			}
		}
	}
	return m, nil
}

func (m *PlayModel) pick(i int) {
	choices := m.rt.CurrentChoices()
	if i < 0 || i >= len(choices) {
		return
	}
	m.history = append(m.history, entry{kind: entryPick, text: choices[i]})
	m.cursor = 0
	m.fail(m.rt.SelectChoice(i))
	m.sync()
}

func (m *PlayModel) advance() {
	m.fail(m.rt.Advance())
	m.sync()
}

func (m *PlayModel) fail(err error) {
	if err == nil {
		return
	}
	m.err = err
	m.done = true
	m.history = append(m.history, entry{kind: entryError, text: err.Error()})
}

// sync records the line the runtime stopped at and notices the end.
func (m *PlayModel) sync() {
	if m.done {
		return
	}
	if line := m.rt.CurrentLine(); line != "" {
		m.history = append(m.history, entry{kind: entryLine, text: line})
		return
	}
	if !m.rt.IsWaitingForChoice() {
		m.done = true
	}
}

func (m *PlayModel) View() string {
	var footer []string
	if choices := m.rt.CurrentChoices(); !m.done && len(choices) > 0 {
		for i, c := range choices {
			label := fmt.Sprintf("%d. %s", i+1, truncate(c, m.width-6))
			if i == m.cursor {
				footer = append(footer, playCursorStyle.Render("> "+label))
			} else {
				footer = append(footer, "  "+label)
			}
		}
	}
	footer = append(footer, "", playHintStyle.Render(m.hint()), m.help.ShortHelpView(m.bindings()))

	// заголовок + пустая строка + footer, остальное под историю
	room := m.height - len(footer) - 3
	lines := m.renderHistory()
	if room > 0 && len(lines) > room {
		lines = lines[len(lines)-room:]
	}

	var b strings.Builder
	b.WriteString(playTitleStyle.Render(truncate(m.title, m.width)))
	b.WriteString("\n\n")
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(strings.Join(footer, "\n"))
	b.WriteByte('\n')
	return b.String()
}

func (m *PlayModel) renderHistory() []string {
	out := make([]string, 0, len(m.history))
	for _, e := range m.history {
		switch e.kind {
		case entryPick:
			out = append(out, playPickStyle.Render("> "+e.text))
		case entryError:
			out = append(out, playErrorStyle.Render("error: "+e.text))
		default:
			out = append(out, runewidth.Wrap(e.text, max(m.width-2, 20)))
		}
	}
	return out
}

func (m *PlayModel) hint() string {
	switch {
	case m.err != nil:
		return "dialogue stopped; press any key to exit"
	case m.done:
		return "the end; press any key to exit"
	case m.rt.IsWaitingForChoice():
		return "pick an option, or press 1-9"
	default:
		return ""
	}
}

// bindings lists only the keys that do something right now.
func (m *PlayModel) bindings() []key.Binding {
	if m.done {
		return []key.Binding{m.keys.Quit}
	}
	if m.rt.IsWaitingForChoice() {
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Next, m.keys.Quit}
	}
	return []key.Binding{m.keys.Next, m.keys.Quit}
}
