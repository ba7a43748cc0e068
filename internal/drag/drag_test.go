package drag

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/tilework/internal/panel"
)

func twoPanes(t *testing.T, collapsible bool) panel.Tree {
	t.Helper()
	half := 50.0
	a := panel.NodeConfig{Type: "item", ID: "a", Tabs: []panel.TabConfig{{ID: "x"}}, DefaultSize: &half, Collapsible: collapsible}
	b := panel.NodeConfig{Type: "item", ID: "b", Tabs: []panel.TabConfig{{ID: "y"}}, DefaultSize: &half}
	tree, err := panel.Build(panel.NodeConfig{Type: "group", ID: "root", Direction: "horizontal", Items: []panel.NodeConfig{a, b}})
	require.NoError(t, err)
	return tree
}

func share(t *testing.T, tree panel.Tree, id string) float64 {
	t.Helper()
	n, ok := panel.Find(tree, id)
	require.True(t, ok)
	return n.Size
}

// counter tracks acquisitions and releases of a capture.
type counter struct {
	acquired, released int
}

func (c *counter) capture() func() {
	c.acquired++
	return func() { c.released++ }
}

var rootHandle = Handle{GroupID: "root", Index: 0, Direction: panel.Horizontal, Extent: 100}

func TestDragResolvesFromOrigin(t *testing.T) {
	tree := twoPanes(t, false)
	c := New(Options{})

	require.NoError(t, c.Begin(tree, rootHandle, Point{X: 50}))
	require.Equal(t, Dragging, c.State())

	live, _, err := c.Move(Point{X: 45})
	require.NoError(t, err)
	require.InDelta(t, 45, share(t, live, "a"), 1e-9)

	// each move is solved against the gesture's start, not the last move
	live, _, err = c.Move(Point{X: 40})
	require.NoError(t, err)
	require.InDelta(t, 40, share(t, live, "a"), 1e-9)

	shown, ok := c.Live()
	require.True(t, ok)
	require.Equal(t, live, shown)

	final, ok := c.End(Point{X: 60})
	require.True(t, ok)
	require.InDelta(t, 60, share(t, final, "a"), 1e-9)
	require.InDelta(t, 40, share(t, final, "b"), 1e-9)
	require.Equal(t, Idle, c.State())
	require.InDelta(t, 50, share(t, tree, "a"), 1e-9)
}

func TestDragVerticalUsesRows(t *testing.T) {
	half := 50.0
	tree, err := panel.Build(panel.NodeConfig{Type: "group", ID: "root", Direction: "vertical", Items: []panel.NodeConfig{
		{Type: "item", ID: "top", Tabs: []panel.TabConfig{{ID: "x"}}, DefaultSize: &half},
		{Type: "item", ID: "bottom", Tabs: []panel.TabConfig{{ID: "y"}}, DefaultSize: &half},
	}})
	require.NoError(t, err)

	c := New(Options{})
	require.NoError(t, c.Begin(tree, Handle{GroupID: "root", Extent: 20}, Point{X: 3, Y: 10}))
	final, ok := c.End(Point{X: 70, Y: 12})
	require.True(t, ok)
	require.InDelta(t, 60, share(t, final, "top"), 1e-9)
}

func TestDragAcquiresAndReleasesOnce(t *testing.T) {
	tree := twoPanes(t, false)
	var pointer, content counter
	c := New(Options{Capture: pointer.capture, Suppress: content.capture, DisablePointerEvents: true})

	require.NoError(t, c.Begin(tree, rootHandle, Point{X: 50}))
	require.Equal(t, 1, pointer.acquired)
	require.Equal(t, 1, content.acquired)

	require.ErrorIs(t, c.Begin(tree, rootHandle, Point{X: 50}), ErrDragActive)
	require.Equal(t, 1, pointer.acquired)

	_, ok := c.End(Point{X: 50})
	require.True(t, ok)
	require.Equal(t, 1, pointer.released)
	require.Equal(t, 1, content.released)

	_, ok = c.End(Point{X: 50})
	require.False(t, ok)
	c.Unmount()
	require.Equal(t, 1, pointer.released)
	require.Equal(t, 1, content.released)
}

func TestDragSkipsSuppressionWhenDisabled(t *testing.T) {
	tree := twoPanes(t, false)
	var pointer, content counter
	c := New(Options{Capture: pointer.capture, Suppress: content.capture})

	require.NoError(t, c.Begin(tree, rootHandle, Point{X: 50}))
	c.Cancel()
	require.Equal(t, 0, content.acquired)
	require.Equal(t, 1, pointer.released)
}

func TestDragCancelRestoresStart(t *testing.T) {
	tree := twoPanes(t, false)
	c := New(Options{})

	require.NoError(t, c.Begin(tree, rootHandle, Point{X: 50}))
	_, _, err := c.Move(Point{X: 30})
	require.NoError(t, err)

	base, ok := c.Cancel()
	require.True(t, ok)
	require.Equal(t, tree, base)
	require.False(t, c.Dragging())
}

func TestDragUnmountPolicies(t *testing.T) {
	tree := twoPanes(t, false)

	var pointer counter
	keep := New(Options{Capture: pointer.capture})
	require.NoError(t, keep.Begin(tree, rootHandle, Point{X: 50}))
	_, _, err := keep.Move(Point{X: 35})
	require.NoError(t, err)
	live, ok := keep.Unmount()
	require.True(t, ok)
	require.InDelta(t, 35, share(t, live, "a"), 1e-9)
	require.Equal(t, 1, pointer.released)

	discard := New(Options{Capture: pointer.capture, UnmountPolicy: DiscardLive})
	require.NoError(t, discard.Begin(tree, rootHandle, Point{X: 50}))
	_, _, err = discard.Move(Point{X: 35})
	require.NoError(t, err)
	_, ok = discard.Unmount()
	require.False(t, ok)
	require.Equal(t, 2, pointer.released)
	require.False(t, discard.Dragging())
}

func TestDragCollapsesPastMinimum(t *testing.T) {
	tree := twoPanes(t, true)
	c := New(Options{})

	require.NoError(t, c.Begin(tree, Handle{GroupID: "root", Extent: 100, MinPx: 10}, Point{X: 50}))
	_, res, err := c.Move(Point{X: 5})
	require.NoError(t, err)
	require.True(t, res.Collapse)

	final, ok := c.End(Point{X: 5})
	require.True(t, ok)
	a, _ := panel.Find(final, "a")
	require.True(t, a.Collapsed)
	require.InDelta(t, 50, a.RestoreSize, 1e-9)
}

func TestDragBeginRejectsUnknownDivider(t *testing.T) {
	tree := twoPanes(t, false)
	var pointer counter
	c := New(Options{Capture: pointer.capture})

	err := c.Begin(tree, Handle{GroupID: "rooot", Extent: 100}, Point{})
	require.ErrorIs(t, err, panel.ErrNotFound)
	err = c.Begin(tree, Handle{GroupID: "root", Index: 1, Extent: 100}, Point{})
	require.ErrorIs(t, err, panel.ErrNotAdjacent)
	err = c.Begin(tree, Handle{GroupID: "a", Extent: 100}, Point{})
	require.ErrorIs(t, err, panel.ErrNotGroup)
	err = c.Begin(tree, Handle{GroupID: "root"}, Point{})
	require.ErrorIs(t, err, panel.ErrBadExtent)

	require.Equal(t, 0, pointer.acquired)
	require.Equal(t, Idle, c.State())

	_, _, err = c.Move(Point{})
	require.ErrorIs(t, err, ErrNotDragging)
}

func TestParseUnmountPolicy(t *testing.T) {
	p, err := ParseUnmountPolicy("discard")
	require.NoError(t, err)
	require.Equal(t, DiscardLive, p)

	p, err = ParseUnmountPolicy("")
	require.NoError(t, err)
	require.Equal(t, KeepLive, p)

	_, err = ParseUnmountPolicy("sometimes")
	require.Error(t, err)
}
