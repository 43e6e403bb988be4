package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"go.dw1.io/regcompat"
	"go.dw1.io/regcompat/internal/finder"
)

const doc = "This is a test.\r\n\r\nThis is a test.\r\n"

func newModel(t *testing.T, pattern, repl string) *Model {
	t.Helper()

	g, err := regcompat.Init()
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })

	m := New(doc)
	m.pattern.SetValue(pattern)
	m.repl.SetValue(repl)
	return m
}

func press(m *Model, key tea.KeyType) {
	m.Update(tea.KeyMsg{Type: key})
}

func TestFindCycles(t *testing.T) {
	m := newModel(t, `t(es)t`, "")

	press(m, tea.KeyEnter)
	require.Equal(t, finder.Selection{Start: 10, End: 14}, m.Selection())

	press(m, tea.KeyEnter)
	require.Equal(t, finder.Selection{Start: 29, End: 33}, m.Selection())

	press(m, tea.KeyEnter)
	require.Equal(t, finder.Selection{Start: 10, End: 14}, m.Selection())
	require.Contains(t, m.Status(), "match at 10:14")
}

func TestReplaceAndReplaceAll(t *testing.T) {
	m := newModel(t, `(?<w>test)`, "<${w}>")

	press(m, tea.KeyEnter)
	press(m, tea.KeyCtrlR)
	require.Equal(t, "This is a <test>.\r\n\r\nThis is a test.\r\n", m.Text())
	require.True(t, m.Changed())
	require.Equal(t, finder.Selection{Start: 31, End: 35}, m.Selection())

	press(m, tea.KeyCtrlA)
	require.Equal(t, "This is a <<test>>.\r\n\r\nThis is a <test>.\r\n", m.Text())
	require.Equal(t, "2 replaced", m.Status())
}

func TestDialectAndCaseToggles(t *testing.T) {
	m := newModel(t, `(?<w>THIS)`, "")

	press(m, tea.KeyEnter)
	require.Equal(t, "no more match", m.Status())

	press(m, tea.KeyCtrlT)
	press(m, tea.KeyEnter)
	require.Equal(t, finder.Selection{Start: 0, End: 4}, m.Selection())
	press(m, tea.KeyEnter)
	require.Equal(t, finder.Selection{Start: 19, End: 23}, m.Selection())

	m.pattern.SetValue(`a(?i)b`)
	press(m, tea.KeyCtrlE)
	require.Contains(t, m.View(), "dialect: ecmascript")
	press(m, tea.KeyEnter)
	require.Contains(t, m.Status(), "badpattern")

	press(m, tea.KeyCtrlO)
	require.Contains(t, m.View(), "dialect: native")
}

func TestFocusAndQuit(t *testing.T) {
	m := newModel(t, "", "")

	press(m, tea.KeyTab)
	require.True(t, m.repl.Focused())
	require.False(t, m.pattern.Focused())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.Equal(t, "x", m.repl.Value())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWindowSize(t *testing.T) {
	m := newModel(t, "", "")

	m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	require.Equal(t, 40, m.view.Width)
	require.Equal(t, 13, m.view.Height)
	require.NotEmpty(t, m.View())
}

func TestOptions(t *testing.T) {
	g, err := regcompat.Init()
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })

	m := New(doc, WithPattern("a (test)"), WithReplacement("the $1"), WithFlags(regcompat.ECMAScript))
	require.Contains(t, m.View(), "dialect: ecmascript")

	press(m, tea.KeyCtrlA)
	require.Equal(t, "This is the test.\r\n\r\nThis is the test.\r\n", m.Text())
}
