package panel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func size(v float64) *float64 { return &v }

func itemCfg(id string, tabs ...string) NodeConfig {
	cfg := NodeConfig{Type: "item", ID: id}
	for _, tab := range tabs {
		cfg.Tabs = append(cfg.Tabs, TabConfig{ID: tab, Closeable: true})
	}
	return cfg
}

func sized(cfg NodeConfig, v float64) NodeConfig {
	cfg.DefaultSize = size(v)
	return cfg
}

func groupCfg(id string, dir Direction, items ...NodeConfig) NodeConfig {
	return NodeConfig{Type: "group", ID: id, Direction: string(dir), Items: items}
}

func mustBuild(t *testing.T, cfg NodeConfig) Tree {
	t.Helper()
	tree, err := Build(cfg)
	require.NoError(t, err)
	return tree
}

func mustFind(t *testing.T, tree Tree, id string) Node {
	t.Helper()
	n, ok := Find(tree, id)
	require.True(t, ok, "node %s not found", id)
	return n
}

// workspaceCfg mirrors the coding workspace: a problem pane on the left, an
// editor above a collapsible console on the right.
func workspaceCfg() NodeConfig {
	console := sized(itemCfg("console", "output", "tests"), 30)
	console.Collapsible = true
	return groupCfg("root", Horizontal,
		sized(itemCfg("problem", "description", "hints"), 40),
		sized(groupCfg("right", Vertical,
			sized(itemCfg("editor", "main.go"), 70),
			console,
		), 60),
	)
}

func TestBuildNormalizesShares(t *testing.T) {
	tree := mustBuild(t, groupCfg("root", Horizontal,
		sized(itemCfg("a", "x"), 1),
		sized(itemCfg("b", "y"), 3),
	))
	require.Equal(t, Total, tree.Root.Size)
	require.InDelta(t, 25, mustFind(t, tree, "a").Size, 1e-9)
	require.InDelta(t, 75, mustFind(t, tree, "b").Size, 1e-9)
	require.NoError(t, Validate(tree))
}

func TestBuildFillsMissingSizes(t *testing.T) {
	tree := mustBuild(t, groupCfg("root", Vertical,
		itemCfg("a", "x"),
		itemCfg("b", "y"),
		itemCfg("c", "z"),
		itemCfg("d", "w"),
	))
	for _, id := range []string{"a", "b", "c", "d"} {
		require.InDelta(t, 25, mustFind(t, tree, id).Size, 1e-9)
	}

	tree = mustBuild(t, groupCfg("root", Vertical,
		sized(itemCfg("a", "x"), 60),
		itemCfg("b", "y"),
	))
	require.InDelta(t, 50, mustFind(t, tree, "a").Size, 1e-9)
	require.InDelta(t, 50, mustFind(t, tree, "b").Size, 1e-9)
}

func TestBuildDefaultsActiveTabToFirst(t *testing.T) {
	tree := mustBuild(t, itemCfg("solo", "one", "two"))
	require.Equal(t, "one", tree.Root.ActiveTabID)
}

func TestBuildAppliesInitialCollapse(t *testing.T) {
	cfg := workspaceCfg()
	cfg.Items[1].Items[1].Collapsed = true
	tree := mustBuild(t, cfg)

	console := mustFind(t, tree, "console")
	require.True(t, console.Collapsed)
	require.Equal(t, 0.0, console.Size)
	require.InDelta(t, 30, console.RestoreSize, 1e-9)
	require.InDelta(t, 100, mustFind(t, tree, "editor").Size, 1e-9)
	require.NoError(t, Validate(tree))
}

func TestFindReturnsCopy(t *testing.T) {
	tree := mustBuild(t, workspaceCfg())
	n := mustFind(t, tree, "right")
	n.Items[0].ID = "changed"
	require.Equal(t, "editor", mustFind(t, tree, "editor").ID)
}

func TestPath(t *testing.T) {
	tree := mustBuild(t, workspaceCfg())

	path, ok := Path(tree, "console")
	require.True(t, ok)
	require.Equal(t, []string{"root", "right"}, path)

	path, ok = Path(tree, "root")
	require.True(t, ok)
	require.Empty(t, path)

	_, ok = Path(tree, "missing")
	require.False(t, ok)
}

func TestItemsInVisualOrder(t *testing.T) {
	tree := mustBuild(t, workspaceCfg())
	var ids []string
	for _, it := range Items(tree) {
		ids = append(ids, it.ID)
	}
	require.Equal(t, []string{"problem", "editor", "console"}, ids)
	require.ElementsMatch(t, []string{"root", "problem", "right", "editor", "console"}, IDs(tree))
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := workspaceCfg()
	cfg.Items[1].Items[1].Collapsed = true
	tree := mustBuild(t, cfg)

	again := mustBuild(t, Config(tree))
	require.InDelta(t, mustFind(t, tree, "problem").Size, mustFind(t, again, "problem").Size, 1e-9)
	console := mustFind(t, again, "console")
	require.True(t, console.Collapsed)
	require.InDelta(t, 30, console.RestoreSize, 1e-9)
}

func TestOperationsDoNotModifyInput(t *testing.T) {
	tree := mustBuild(t, workspaceCfg())
	before := tree.Clone()

	_, err := CloseTab(tree, "problem", "hints")
	require.NoError(t, err)
	_, err = Collapse(tree, "console")
	require.NoError(t, err)
	_, _, err = ApplyResize(tree, "root", 0, 5, 100, 1)
	require.NoError(t, err)
	_, err = Split(tree, "editor", Horizontal, Node{ID: "scratch", Tabs: []Tab{{ID: "scratch.go", Closeable: true}}}, true)
	require.NoError(t, err)

	require.Equal(t, before, tree)
}
