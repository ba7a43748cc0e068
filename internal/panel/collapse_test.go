package panel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollapseExpandRoundTrip(t *testing.T) {
	tree := mustBuild(t, workspaceCfg())
	before := mustFind(t, tree, "console").Size

	collapsed, err := Collapse(tree, "console")
	require.NoError(t, err)
	console := mustFind(t, collapsed, "console")
	require.True(t, console.Collapsed)
	require.Equal(t, 0.0, console.Size)
	require.InDelta(t, 100, mustFind(t, collapsed, "editor").Size, 1e-9)
	require.NoError(t, Validate(collapsed))

	expanded, err := Expand(collapsed, "console")
	require.NoError(t, err)
	require.Equal(t, before, mustFind(t, expanded, "console").Size)
	require.InDelta(t, 70, mustFind(t, expanded, "editor").Size, 1e-9)
	require.False(t, mustFind(t, expanded, "console").Collapsed)
}

func TestCollapseSharesProportionally(t *testing.T) {
	a := sized(itemCfg("a", "x"), 40)
	a.Collapsible = true
	tree := mustBuild(t, groupCfg("root", Horizontal,
		a,
		sized(itemCfg("b", "y"), 45),
		sized(itemCfg("c", "z"), 15),
	))

	tree, err := Collapse(tree, "a")
	require.NoError(t, err)
	require.InDelta(t, 75, mustFind(t, tree, "b").Size, 1e-9)
	require.InDelta(t, 25, mustFind(t, tree, "c").Size, 1e-9)
}

func TestExpandRespectsSiblingMinimums(t *testing.T) {
	a := sized(itemCfg("a", "x"), 40)
	a.Collapsible = true
	b := sized(itemCfg("b", "y"), 30)
	b.MinSize = 40
	c := sized(itemCfg("c", "z"), 30)
	c.MinSize = 40
	tree := mustBuild(t, groupCfg("root", Horizontal, a, b, c))

	tree, err := Collapse(tree, "a")
	require.NoError(t, err)
	require.InDelta(t, 50, mustFind(t, tree, "b").Size, 1e-9)

	tree, err = Expand(tree, "a")
	require.NoError(t, err)
	require.InDelta(t, 20, mustFind(t, tree, "a").Size, 1e-9)
	require.InDelta(t, 40, mustFind(t, tree, "b").Size, 1e-9)
	require.InDelta(t, 40, mustFind(t, tree, "c").Size, 1e-9)
	require.NoError(t, Validate(tree))
}

func TestCollapseErrors(t *testing.T) {
	a := itemCfg("a", "x")
	a.Collapsible = true
	b := itemCfg("b", "y")
	b.Collapsible = true
	tree := mustBuild(t, pairCfg(a, b))

	_, err := Collapse(tree, "root")
	require.ErrorIs(t, err, ErrRoot)

	tree, err = Collapse(tree, "a")
	require.NoError(t, err)

	_, err = Collapse(tree, "a")
	require.ErrorIs(t, err, ErrAlreadyCollapsed)

	out, err := Collapse(tree, "b")
	require.ErrorIs(t, err, ErrLastExpanded)
	require.Equal(t, tree, out)

	_, err = Expand(tree, "b")
	require.ErrorIs(t, err, ErrNotCollapsed)

	plain := mustBuild(t, pairCfg(itemCfg("p", "x"), itemCfg("q", "y")))
	_, err = Collapse(plain, "p")
	require.ErrorIs(t, err, ErrNotCollapsible)
}

func TestToggleCollapse(t *testing.T) {
	tree := mustBuild(t, workspaceCfg())

	tree, err := ToggleCollapse(tree, "console")
	require.NoError(t, err)
	require.True(t, mustFind(t, tree, "console").Collapsed)

	tree, err = ToggleCollapse(tree, "console")
	require.NoError(t, err)
	require.False(t, mustFind(t, tree, "console").Collapsed)
	require.InDelta(t, 30, mustFind(t, tree, "console").Size, 1e-9)
}

func TestCollapsedGroupHoistsAsCollapsed(t *testing.T) {
	right := sized(groupCfg("right", Vertical,
		itemCfg("editor", "main.go"),
		itemCfg("scratch", "scratch.go"),
	), 60)
	right.Collapsible = true
	tree := mustBuild(t, pairCfg(sized(itemCfg("problem", "description"), 40), right))

	tree, err := Collapse(tree, "right")
	require.NoError(t, err)
	tree, err = CloseTab(tree, "scratch", "scratch.go")
	require.NoError(t, err)

	editor := mustFind(t, tree, "editor")
	require.True(t, editor.Collapsed)
	require.InDelta(t, 60, editor.RestoreSize, 1e-9)
	require.NoError(t, Validate(tree))

	tree, err = Expand(tree, "editor")
	require.NoError(t, err)
	require.InDelta(t, 60, mustFind(t, tree, "editor").Size, 1e-9)
}
