package workbench

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/jask/tilework/internal/panel"
	"github.com/jask/tilework/internal/workspace"
)

func renderTab(c *Content, tabID string) string {
	return c.Render(workspace.RenderContext{ItemID: "x", Tab: panel.Tab{ID: tabID}, Width: 60, Height: 12})
}

func TestContentRendersEachTab(t *testing.T) {
	c := NewContent(SampleProblem(), "notty")

	require.Contains(t, ansi.Strip(renderTab(c, tabDescription)), "Two Sum")
	require.Contains(t, ansi.Strip(renderTab(c, tabHints)), "brute force")
	require.Contains(t, ansi.Strip(renderTab(c, tabSolution)), "twoSum")
	require.Contains(t, ansi.Strip(renderTab(c, tabTests)), "duplicates")
	require.Contains(t, ansi.Strip(renderTab(c, tabOutput)), "ready")
	require.Contains(t, renderTab(c, "unknown"), "nothing to show")
}

func TestContentLabels(t *testing.T) {
	c := NewContent(SampleProblem(), "")
	require.Equal(t, "Two Sum", c.TabLabel(tabDescription).Label)
	require.Equal(t, "scratch ab12", c.TabLabel(scratchPrefix+"ab12").Label)
	require.Equal(t, workspace.TabLabel{}, c.TabLabel("elsewhere"))
}

func TestRunMarksTests(t *testing.T) {
	c := NewContent(SampleProblem(), "notty")
	require.NotContains(t, renderTab(c, tabTests), "●")
	c.Run()
	require.Contains(t, ansi.Strip(renderTab(c, tabTests)), "●")
	require.Contains(t, ansi.Strip(c.Console()), "exit status 0")
}

func TestConsoleScrollsWithWheel(t *testing.T) {
	c := NewContent(SampleProblem(), "notty")
	for i := 0; i < 10; i++ {
		c.Run()
	}
	ctx := workspace.RenderContext{Tab: panel.Tab{ID: tabOutput}, Width: 40, Height: 5}
	c.Render(ctx)
	require.True(t, c.console.AtBottom())

	c.Mouse(ctx, tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	require.False(t, c.console.AtBottom())
}

func TestScratchEditors(t *testing.T) {
	c := NewContent(SampleProblem(), "notty")
	id := c.NewScratch()
	require.True(t, c.Editable(id))

	_, ok := c.StartEditing(id)
	require.True(t, ok)
	require.Equal(t, id, c.Editing())

	c.Forget(id)
	require.False(t, c.Editable(id))
	require.Empty(t, c.Editing())

	c.Forget(tabSource)
	require.True(t, c.Editable(tabSource))
}
