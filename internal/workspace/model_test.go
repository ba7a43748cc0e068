package workspace

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/jask/tilework/internal/drag"
	"github.com/jask/tilework/internal/panel"
)

func newModel(t *testing.T, opts Options) *Model {
	t.Helper()
	m, err := New(opts)
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 101, Height: 20})
	return m
}

func mouse(m *Model, action tea.MouseAction, x, y int) tea.Cmd {
	_, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
	return cmd
}

func changed(t *testing.T, cmd tea.Cmd) ChangedMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(ChangedMsg)
	require.True(t, ok)
	return msg
}

func sizeOf(t *testing.T, tree panel.Tree, id string) float64 {
	t.Helper()
	n, ok := panel.Find(tree, id)
	require.True(t, ok, "node %s", id)
	return n.Size
}

func TestNewRejectsInvalidTree(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)

	tree := codingLayout(t)
	tree.Root.Items[0].Size = 90
	_, err = New(Options{Value: &tree})
	var ve *panel.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestDividerDrag(t *testing.T) {
	m := newModel(t, Options{Initial: codingLayout(t)})

	require.Nil(t, mouse(m, tea.MouseActionPress, 40, 5))
	require.True(t, m.Dragging())

	require.Nil(t, mouse(m, tea.MouseActionMotion, 30, 5))
	require.InDelta(t, 30, sizeOf(t, m.viewTree(), "problem"), 1e-9)
	require.InDelta(t, 40, sizeOf(t, m.Tree(), "problem"), 1e-9)

	msg := changed(t, mouse(m, tea.MouseActionRelease, 30, 5))
	require.Equal(t, "resize", msg.Op)
	require.InDelta(t, 30, sizeOf(t, msg.Tree, "problem"), 1e-9)
	require.InDelta(t, 30, sizeOf(t, m.Tree(), "problem"), 1e-9)
	require.False(t, m.Dragging())
}

func TestDragPastMinimumCollapses(t *testing.T) {
	m := newModel(t, Options{Initial: codingLayout(t), MinPaneCells: 3})

	// divider between editor and console sits on row 13
	mouse(m, tea.MouseActionPress, 60, 13)
	require.True(t, m.Dragging())
	msg := changed(t, mouse(m, tea.MouseActionRelease, 60, 19))

	console, _ := panel.Find(msg.Tree, "console")
	require.True(t, console.Collapsed)
	require.InDelta(t, 100, sizeOf(t, msg.Tree, "editor"), 1e-9)
}

func TestControlledWaitsForSetValue(t *testing.T) {
	tree := codingLayout(t)
	var reported []panel.Tree
	m := newModel(t, Options{Value: &tree, OnChange: func(next panel.Tree) { reported = append(reported, next) }})
	require.True(t, m.Controlled())

	cmd, err := m.CloseTab("problem", "hints")
	require.NoError(t, err)
	require.Len(t, reported, 1)
	require.Equal(t, reported[0], changed(t, cmd).Tree)

	problem, _ := panel.Find(m.Tree(), "problem")
	require.Len(t, problem.Tabs, 2)

	require.NoError(t, m.SetValue(reported[0]))
	problem, _ = panel.Find(m.Tree(), "problem")
	require.Len(t, problem.Tabs, 1)
}

func TestClickTabsAndGlyphs(t *testing.T) {
	m := newModel(t, Options{Initial: codingLayout(t)})

	// " description " spans columns 0-12, its close glyph 13-14
	changed(t, mouse(m, tea.MouseActionPress, 16, 0))
	problem, _ := panel.Find(m.Tree(), "problem")
	require.Equal(t, "hints", problem.ActiveTabID)

	changed(t, mouse(m, tea.MouseActionPress, 13, 0))
	problem, _ = panel.Find(m.Tree(), "problem")
	require.Len(t, problem.Tabs, 1)

	changed(t, mouse(m, tea.MouseActionPress, 99, 14))
	console, _ := panel.Find(m.Tree(), "console")
	require.True(t, console.Collapsed)

	f := m.Frame()
	require.Len(t, f.Strips, 1)
	require.Equal(t, 19, f.Strips[0].Rect.Y)

	changed(t, mouse(m, tea.MouseActionPress, 50, 19))
	console, _ = panel.Find(m.Tree(), "console")
	require.False(t, console.Collapsed)
	require.InDelta(t, 30, console.Size, 1e-9)
}

func TestOperationErrorsLeaveTreeAlone(t *testing.T) {
	m := newModel(t, Options{Initial: codingLayout(t)})
	before := m.Tree()

	cmd, err := m.CloseTab("problem", "nope")
	require.ErrorIs(t, err, panel.ErrTabNotFound)
	require.Nil(t, cmd)

	_, err = m.Collapse("editor")
	require.ErrorIs(t, err, panel.ErrNotCollapsible)

	mouse(m, tea.MouseActionPress, 40, 5)
	_, err = m.SetActiveTab("problem", "hints")
	require.ErrorIs(t, err, drag.ErrDragActive)
	mouse(m, tea.MouseActionRelease, 40, 5)

	require.Equal(t, before, m.Tree())
}

func TestCloseMidDrag(t *testing.T) {
	keep := newModel(t, Options{Initial: codingLayout(t)})
	mouse(keep, tea.MouseActionPress, 40, 5)
	mouse(keep, tea.MouseActionMotion, 30, 5)
	msg := changed(t, keep.Close())
	require.InDelta(t, 30, sizeOf(t, msg.Tree, "problem"), 1e-9)
	require.False(t, keep.Dragging())
	require.Empty(t, keep.View())
	require.Nil(t, keep.Close())

	_, err := keep.AddTab("problem", panel.Tab{ID: "late"}, true)
	require.ErrorIs(t, err, ErrClosed)

	discard := newModel(t, Options{Initial: codingLayout(t), UnmountPolicy: drag.DiscardLive})
	mouse(discard, tea.MouseActionPress, 40, 5)
	mouse(discard, tea.MouseActionMotion, 30, 5)
	require.Nil(t, discard.Close())
	require.InDelta(t, 40, sizeOf(t, discard.Tree(), "problem"), 1e-9)
}

func TestContentMouse(t *testing.T) {
	var got []RenderContext
	var at []tea.MouseMsg
	cb := Callbacks{ContentMouse: func(ctx RenderContext, msg tea.MouseMsg) tea.Cmd {
		got = append(got, ctx)
		at = append(at, msg)
		return nil
	}}
	wheel := tea.MouseMsg{X: 60, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown}

	m := newModel(t, Options{Initial: codingLayout(t), Callbacks: cb})
	mouse(m, tea.MouseActionPress, 60, 5)
	require.Len(t, got, 1)
	require.Equal(t, "editor", got[0].ItemID)
	require.Equal(t, "main.go", got[0].Tab.ID)
	require.Equal(t, 60, got[0].Width)
	require.Equal(t, 12, got[0].Height)
	require.True(t, got[0].Focused)
	require.Equal(t, 19, at[0].X)
	require.Equal(t, 4, at[0].Y)

	itemID, tab, ok := m.Focused()
	require.True(t, ok)
	require.Equal(t, "editor", itemID)
	require.Equal(t, "main.go", tab.ID)

	// wheel events still reach content during a drag unless suppressed
	mouse(m, tea.MouseActionPress, 40, 5)
	m.Update(wheel)
	require.Len(t, got, 2)
	mouse(m, tea.MouseActionRelease, 40, 5)

	got = nil
	s := newModel(t, Options{Initial: codingLayout(t), Callbacks: cb, DisablePointerEventsDuringResize: true})
	mouse(s, tea.MouseActionPress, 40, 5)
	s.Update(wheel)
	require.Empty(t, got)
	mouse(s, tea.MouseActionRelease, 40, 5)
	s.Update(wheel)
	require.Len(t, got, 1)
	require.True(t, got[0].PointerEvents)
}

func TestViewFillsWindow(t *testing.T) {
	plain := PlainTheme()
	m := newModel(t, Options{
		Initial: codingLayout(t),
		Theme:   &plain,
		Callbacks: Callbacks{
			TabLabel:  func(tabID string) TabLabel { return TabLabel{Label: strings.ToUpper(tabID)} },
			RenderTab: func(ctx RenderContext) string { return "body of " + ctx.Tab.ID },
		},
	})

	view := m.View()
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 20)
	for _, line := range lines {
		require.Equal(t, 101, ansi.StringWidth(line))
	}
	require.Contains(t, view, " DESCRIPTION ")
	require.Contains(t, view, "body of main.go")
	require.Contains(t, view, "body of output")
	require.Contains(t, view, "│")
	require.Contains(t, view, strings.Repeat("─", 60))
}

func TestViewIdleRoot(t *testing.T) {
	tree := build(t, item("solo", 100, "only"))
	m := newModel(t, Options{Initial: tree})
	cmd, err := m.CloseTab("solo", "only")
	require.NoError(t, err)
	changed(t, cmd)

	require.Contains(t, m.View(), "no open tabs")
	_, _, ok := m.Focused()
	require.False(t, ok)

	cmd, err = m.AddTab("solo", panel.Tab{ID: "fresh"}, true)
	require.NoError(t, err)
	changed(t, cmd)
	_, tab, ok := m.Focused()
	require.True(t, ok)
	require.Equal(t, "fresh", tab.ID)
}

func TestFocusNext(t *testing.T) {
	m := newModel(t, Options{Initial: codingLayout(t)})
	id, _, _ := m.Focused()
	require.Equal(t, "problem", id)

	m.FocusNext(1)
	id, _, _ = m.Focused()
	require.Equal(t, "editor", id)

	m.FocusNext(-2)
	id, _, _ = m.Focused()
	require.Equal(t, "console", id)

	require.Error(t, m.Focus("right"))
	require.NoError(t, m.Focus("editor"))
}
