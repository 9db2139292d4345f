package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/acrostic/pkg/acrostic"
)

func testLayouts(t *testing.T) []*acrostic.Layout {
	t.Helper()
	layouts, err := acrostic.Alternatives("...I bomb atomically, socrates, ^^^philosophies and hypoth&&&ses can't define h***ow I be dropping these mockeries...", "cebi", acrostic.Options{}, 0)
	require.NoError(t, err)
	require.Len(t, layouts, 2)
	return layouts
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m LayoutListModel, keys ...string) (LayoutListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(LayoutListModel)
	}
	return m, cmd
}

func TestLayoutListNavigation(t *testing.T) {
	m := NewLayoutListModel(testLayouts(t))

	m, _ = update(m, "up")
	assert.Equal(t, 0, m.Cursor, "cursor stays at the top")

	m, _ = update(m, "down", "down", "down")
	assert.Equal(t, 1, m.Cursor, "cursor stops at the last layout")

	m, _ = update(m, "k")
	assert.Equal(t, 0, m.Cursor)
}

func TestLayoutListSelect(t *testing.T) {
	layouts := testLayouts(t)
	m := NewLayoutListModel(layouts)

	m, cmd := update(m, "j", "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Same(t, layouts[1], m.Selected)
}

func TestLayoutListQuitWithoutSelection(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		m, cmd := update(NewLayoutListModel(testLayouts(t)), k)
		require.NotNil(t, cmd, k)
		assert.Equal(t, tea.QuitMsg{}, cmd(), k)
		assert.Nil(t, m.Selected, k)
	}
}

func TestLayoutListScrolls(t *testing.T) {
	layouts := testLayouts(t)
	m := NewLayoutListModel(layouts)
	m.Height = 1

	m, _ = update(m, "down")
	assert.Equal(t, 1, m.Offset)
	m, _ = update(m, "up")
	assert.Equal(t, 0, m.Offset)
}

func TestLayoutListWindowSize(t *testing.T) {
	m := NewLayoutListModel(testLayouts(t))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	assert.Equal(t, 3, next.(LayoutListModel).Height)
}

func TestLayoutListView(t *testing.T) {
	layouts := testLayouts(t)
	view := NewLayoutListModel(layouts).View()

	assert.Contains(t, view, "Select Layout")
	assert.Contains(t, view, "First line")
	assert.Contains(t, view, "[1/2]")
	for _, line := range layouts[0].Lines {
		assert.Contains(t, view, strings.TrimSpace(line.Text))
	}

	empty := NewLayoutListModel(nil)
	assert.Contains(t, empty.View(), "no layouts")
	_, cmd := update(empty, "enter")
	assert.NotNil(t, cmd)
}

func TestPreviewLayout(t *testing.T) {
	l := &acrostic.Layout{
		Column: 4,
		Lines: []acrostic.Line{
			{Text: "someTimes"},
			{Text: "    Under"},
			{Text: "the Sun"},
		},
	}
	preview := previewLayout(l)
	lines := strings.Split(preview, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "some"))
	assert.Contains(t, lines[0], "T")
	assert.True(t, strings.HasSuffix(lines[2], "un"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10!", truncate("exactly10!", 10))
	assert.Equal(t, "too long…", truncate("too long for it", 9))
	assert.Equal(t, "ñañañ…", truncate("ñañañañaña", 6))
}
