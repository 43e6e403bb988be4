// Package tui is a terminal find/replace dialog over a text document.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"go.dw1.io/regcompat"
	"go.dw1.io/regcompat/internal/finder"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	selectStyle = lipgloss.NewStyle().Reverse(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

const help = "enter find • ctrl+r replace • ctrl+a all • ctrl+o native • ctrl+e ecmascript • ctrl+t icase • tab focus • esc quit"

// Model is the Bubble Tea model of the dialog. The document is held as
// runes and searched as a wide range, so selections count characters.
type Model struct {
	doc     []rune
	sel     finder.Selection
	flags   regcompat.Flag
	pattern textinput.Model
	repl    textinput.Model
	view    viewport.Model
	focus   int
	status  string
	failed  bool
	width   int
	changed bool
}

// Option presets a dialog created by New.
type Option func(*Model)

// WithPattern fills in the pattern field.
func WithPattern(s string) Option {
	return func(m *Model) { m.pattern.SetValue(s) }
}

// WithReplacement fills in the replacement field.
func WithReplacement(s string) Option {
	return func(m *Model) { m.repl.SetValue(s) }
}

// WithFlags replaces the compile flags.
func WithFlags(f regcompat.Flag) Option {
	return func(m *Model) { m.flags = f }
}

// New returns a dialog over text, in the native dialect unless WithFlags
// says otherwise.
func New(text string, opts ...Option) *Model {
	pattern := textinput.New()
	pattern.Placeholder = "pattern"
	pattern.Prompt = "find:    "
	pattern.Focus()

	repl := textinput.New()
	repl.Placeholder = "replacement"
	repl.Prompt = "replace: "

	m := &Model{
		doc:     []rune(text),
		flags:   regcompat.Native,
		pattern: pattern,
		repl:    repl,
		view:    viewport.New(80, 16),
		width:   80,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.refresh()

	return m
}

// Text returns the current document.
func (m *Model) Text() string {
	return string(m.doc)
}

// Changed reports whether the document was modified.
func (m *Model) Changed() bool {
	return m.changed
}

// Selection returns the current selection in characters.
func (m *Model) Selection() finder.Selection {
	return m.sel
}

// Status returns the last status message.
func (m *Model) Status() string {
	return m.status
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.view.Width = msg.Width
		m.view.Height = max(msg.Height-7, 3)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			m.find()
			return m, nil
		case "ctrl+r":
			m.replace()
			return m, nil
		case "ctrl+a":
			m.replaceAll()
			return m, nil
		case "ctrl+o":
			m.flags = m.flags&^regcompat.ECMAScript | regcompat.Native
			m.setStatus(nil, "dialect: native")
			return m, nil
		case "ctrl+e":
			m.flags = m.flags&^regcompat.Native | regcompat.ECMAScript
			m.setStatus(nil, "dialect: ecmascript")
			return m, nil
		case "ctrl+t":
			m.flags ^= regcompat.ICase
			m.setStatus(nil, "case-insensitive: "+onOff(m.flags&regcompat.ICase != 0))
			return m, nil
		case "tab", "shift+tab":
			m.toggleFocus()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.pattern, cmd = m.pattern.Update(msg)
	} else {
		m.repl, cmd = m.repl.Update(msg)
	}

	return m, cmd
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("regcompat find/replace"))
	b.WriteString("\n")
	b.WriteString(m.pattern.View())
	b.WriteString("\n")
	b.WriteString(m.repl.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(m.describeFlags()))
	b.WriteString("\n")
	b.WriteString(m.view.View())
	b.WriteString("\n")

	status := runewidth.Truncate(m.status, max(m.width, 10), "…")
	if m.failed {
		status = errorStyle.Render(status)
	}
	b.WriteString(status)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(runewidth.Truncate(help, max(m.width, 10), "…")))

	return b.String()
}

func (m *Model) compile() (*regcompat.Pattern, bool) {
	p, err := regcompat.CompileRunes([]rune(m.pattern.Value()), m.flags)
	if err != nil {
		m.setStatus(err, "")
		return nil, false
	}

	return p, true
}

func (m *Model) find() {
	p, ok := m.compile()
	if !ok {
		return
	}

	sel, found, err := finder.Find(regcompat.Runes(m.doc), p, m.sel)
	if err != nil || !found {
		m.setStatus(err, "no more match")
		return
	}

	m.sel = sel
	m.setStatus(nil, fmt.Sprintf("match at %d:%d", sel.Start, sel.End))
}

func (m *Model) replace() {
	p, ok := m.compile()
	if !ok {
		return
	}

	res, err := finder.Replace(regcompat.Runes(m.doc), p, m.repl.Value(), m.sel)
	if err != nil {
		m.setStatus(err, "")
		return
	}

	if res.Replaced {
		m.doc = []rune(res.Text)
		m.changed = true
	}
	m.sel = res.Selection

	switch {
	case res.Replaced && res.Found:
		m.setStatus(nil, "replaced; next match selected")
	case res.Replaced:
		m.setStatus(nil, "replaced; no more match")
	case res.Found:
		m.setStatus(nil, fmt.Sprintf("match at %d:%d", res.Selection.Start, res.Selection.End))
	default:
		m.setStatus(nil, "no more match")
	}
}

func (m *Model) replaceAll() {
	p, ok := m.compile()
	if !ok {
		return
	}

	out, n, err := finder.ReplaceAll(regcompat.Runes(m.doc), p, m.repl.Value())
	if err != nil {
		m.setStatus(err, "")
		return
	}

	if n > 0 {
		m.doc = []rune(out)
		m.changed = true
	}
	m.sel = finder.Selection{}
	m.setStatus(nil, fmt.Sprintf("%d replaced", n))
}

func (m *Model) toggleFocus() {
	if m.focus == 0 {
		m.focus = 1
		m.pattern.Blur()
		m.repl.Focus()
		return
	}

	m.focus = 0
	m.repl.Blur()
	m.pattern.Focus()
}

func (m *Model) setStatus(err error, msg string) {
	m.failed = err != nil
	m.status = msg
	if err != nil {
		m.status = "error: " + err.Error()

		var rerr *regcompat.Error
		if errors.As(err, &rerr) {
			if code, ok := rerr.Code(regcompat.EncodingNative); ok {
				m.status = fmt.Sprintf("error %d (%s): %s", code, rerr.Kind, rerr.Msg)
			}
		}
	}

	m.refresh()
}

func (m *Model) describeFlags() string {
	dialect := "ecmascript"
	if m.flags&regcompat.Native != 0 {
		dialect = "native"
	}

	return fmt.Sprintf("dialect: %s  icase: %s", dialect, onOff(m.flags&regcompat.ICase != 0))
}

// refresh renders the document with the selection highlighted and scrolls
// it into view.
func (m *Model) refresh() {
	sel := m.sel
	sel.Start = min(max(sel.Start, 0), len(m.doc))
	sel.End = min(max(sel.End, sel.Start), len(m.doc))

	var b strings.Builder
	b.WriteString(string(m.doc[:sel.Start]))
	if sel.Len() > 0 {
		b.WriteString(selectStyle.Render(string(m.doc[sel.Start:sel.End])))
	}
	b.WriteString(string(m.doc[sel.End:]))
	m.view.SetContent(b.String())

	line := strings.Count(string(m.doc[:sel.Start]), "\n")
	m.view.SetYOffset(max(line-m.view.Height/2, 0))
}

func onOff(v bool) string {
	if v {
		return "on"
	}

	return "off"
}
