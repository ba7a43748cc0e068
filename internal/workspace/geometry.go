package workspace

import (
	"math"
	"sort"

	"github.com/charmbracelet/x/ansi"

	"github.com/jask/tilework/internal/panel"
)

const (
	closeCells  = 2
	toggleCells = 3
)

// Rect is a cell rectangle. X and Y are the top-left corner.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// TabBox is the header area of one tab. Close is empty for tabs that cannot
// be closed.
type TabBox struct {
	TabID  string
	Active bool
	Label  Rect
	Close  Rect
}

type ItemFrame struct {
	ID     string
	Rect   Rect
	Header Rect
	Body   Rect
	Tabs   []TabBox
	// Toggle is the collapse glyph; empty when the item cannot collapse.
	Toggle Rect
}

// StripFrame is the fixed-size strip a collapsed node is drawn as.
// Direction is the direction of the group holding it.
type StripFrame struct {
	ID        string
	Rect      Rect
	Direction panel.Direction
}

// DividerFrame is the draggable line between children Index and Index+1 of a
// group. Extent is the number of cells shared by the group's expanded
// children, the length one full share maps onto.
type DividerFrame struct {
	GroupID   string
	Index     int
	Direction panel.Direction
	Rect      Rect
	Extent    int
}

// Frame is the cell geometry of a tree inside some bounds.
type Frame struct {
	Bounds   Rect
	Items    []ItemFrame
	Strips   []StripFrame
	Dividers []DividerFrame
	rects    map[string]Rect
}

// Rect returns the area given to the node id.
func (f Frame) Rect(id string) (Rect, bool) {
	r, ok := f.rects[id]
	return r, ok
}

func (f Frame) Item(id string) (ItemFrame, bool) {
	for _, it := range f.Items {
		if it.ID == id {
			return it, true
		}
	}
	return ItemFrame{}, false
}

func (f Frame) Divider(groupID string, index int) (DividerFrame, bool) {
	for _, d := range f.Dividers {
		if d.GroupID == groupID && d.Index == index {
			return d, true
		}
	}
	return DividerFrame{}, false
}

type ArrangeOptions struct {
	// CollapsedCells is the thickness of a collapsed strip. Defaults to 1.
	CollapsedCells int
	// TabWidth is the width of a tab's label box, without its close glyph.
	TabWidth func(panel.Tab) int
}

func (o ArrangeOptions) withDefaults() ArrangeOptions {
	if o.CollapsedCells <= 0 {
		o.CollapsedCells = 1
	}
	if o.TabWidth == nil {
		o.TabWidth = func(tab panel.Tab) int { return ansi.StringWidth(tab.ID) + 2 }
	}
	return o
}

// Arrange lays t out inside bounds. Dividers are one cell thick, collapsed
// nodes get CollapsedCells, and the remaining cells of a group are split
// among its expanded children by share using largest-remainder rounding, so
// the children and dividers of a group always fill it exactly.
func Arrange(t panel.Tree, bounds Rect, opts ArrangeOptions) Frame {
	opts = opts.withDefaults()
	f := Frame{Bounds: bounds, rects: make(map[string]Rect)}
	arrangeNode(&f, t.Root, bounds, "", true, opts)
	return f
}

func arrangeNode(f *Frame, n panel.Node, r Rect, parentDir panel.Direction, root bool, opts ArrangeOptions) {
	f.rects[n.ID] = r
	if n.Collapsed && !root {
		f.Strips = append(f.Strips, StripFrame{ID: n.ID, Rect: r, Direction: parentDir})
		return
	}
	switch n.Kind {
	case panel.KindGroup:
		arrangeGroup(f, n, r, opts)
	default:
		f.Items = append(f.Items, arrangeItem(n, r, !root && n.Collapsible, opts))
	}
}

func arrangeGroup(f *Frame, g panel.Node, r Rect, opts ArrangeOptions) {
	horizontal := g.Direction != panel.Vertical
	extent, start := r.H, r.Y
	if horizontal {
		extent, start = r.W, r.X
	}

	fixed := len(g.Items) - 1
	weights := make([]float64, len(g.Items))
	for i, c := range g.Items {
		if c.Collapsed {
			fixed += opts.CollapsedCells
			weights[i] = -1
			continue
		}
		weights[i] = c.Size
	}
	free := max(0, extent-fixed)
	cells := apportion(free, weights)

	end := start + extent
	pos := start
	span := func(length int) (int, int) {
		length = max(0, min(length, end-pos))
		at := pos
		pos += length
		return at, length
	}
	along := func(at, length int) Rect {
		if horizontal {
			return Rect{X: at, Y: r.Y, W: length, H: r.H}
		}
		return Rect{X: r.X, Y: at, W: r.W, H: length}
	}

	for i, c := range g.Items {
		length := cells[i]
		if c.Collapsed {
			length = opts.CollapsedCells
		}
		arrangeNode(f, c, along(span(length)), g.Direction, false, opts)
		if i < len(g.Items)-1 {
			f.Dividers = append(f.Dividers, DividerFrame{
				GroupID:   g.ID,
				Index:     i,
				Direction: g.Direction,
				Rect:      along(span(1)),
				Extent:    free,
			})
		}
	}
}

// apportion splits total cells by weight. Negative weights are skipped and
// get zero cells.
func apportion(total int, weights []float64) []int {
	out := make([]int, len(weights))
	var sum float64
	count := 0
	for _, w := range weights {
		if w >= 0 {
			sum += w
			count++
		}
	}
	if count == 0 || total <= 0 {
		return out
	}
	type remainder struct {
		index int
		frac  float64
	}
	rems := make([]remainder, 0, count)
	used := 0
	for i, w := range weights {
		if w < 0 {
			continue
		}
		exact := float64(total) / float64(count)
		if sum > 0 {
			exact = float64(total) * w / sum
		}
		out[i] = int(math.Floor(exact))
		used += out[i]
		rems = append(rems, remainder{index: i, frac: exact - float64(out[i])})
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for k := 0; used < total; k++ {
		out[rems[k%len(rems)].index]++
		used++
	}
	return out
}

func arrangeItem(n panel.Node, r Rect, collapsible bool, opts ArrangeOptions) ItemFrame {
	it := ItemFrame{ID: n.ID, Rect: r}
	headerH := min(1, r.H)
	it.Header = Rect{X: r.X, Y: r.Y, W: r.W, H: headerH}
	it.Body = Rect{X: r.X, Y: r.Y + headerH, W: r.W, H: r.H - headerH}

	limit := r.X + r.W
	if collapsible && r.W > toggleCells {
		it.Toggle = Rect{X: limit - toggleCells, Y: r.Y, W: toggleCells, H: headerH}
		limit -= toggleCells
	}
	x := r.X
	for _, tab := range n.Tabs {
		closeW := 0
		if tab.Closeable {
			closeW = closeCells
		}
		w := opts.TabWidth(tab)
		if x+w+closeW > limit {
			w = limit - x - closeW
			if w < 1 {
				break
			}
		}
		box := TabBox{TabID: tab.ID, Active: tab.ID == n.ActiveTabID}
		box.Label = Rect{X: x, Y: r.Y, W: w, H: headerH}
		x += w
		if tab.Closeable {
			box.Close = Rect{X: x, Y: r.Y, W: closeCells, H: headerH}
			x += closeCells
		}
		it.Tabs = append(it.Tabs, box)
	}
	return it
}

type HitKind int

const (
	HitNone HitKind = iota
	HitDivider
	HitStrip
	HitTab
	HitClose
	HitToggle
	HitHeader
	HitBody
)

// Hit is what lies under a cell. NodeID is the item or collapsed node hit.
type Hit struct {
	Kind    HitKind
	NodeID  string
	TabID   string
	Divider DividerFrame
}

func (f Frame) HitTest(x, y int) Hit {
	for _, d := range f.Dividers {
		if d.Rect.Contains(x, y) {
			return Hit{Kind: HitDivider, NodeID: d.GroupID, Divider: d}
		}
	}
	for _, s := range f.Strips {
		if s.Rect.Contains(x, y) {
			return Hit{Kind: HitStrip, NodeID: s.ID}
		}
	}
	for _, it := range f.Items {
		if !it.Rect.Contains(x, y) {
			continue
		}
		if it.Toggle.Contains(x, y) {
			return Hit{Kind: HitToggle, NodeID: it.ID}
		}
		for _, tab := range it.Tabs {
			if tab.Close.Contains(x, y) {
				return Hit{Kind: HitClose, NodeID: it.ID, TabID: tab.TabID}
			}
			if tab.Label.Contains(x, y) {
				return Hit{Kind: HitTab, NodeID: it.ID, TabID: tab.TabID}
			}
		}
		if it.Header.Contains(x, y) {
			return Hit{Kind: HitHeader, NodeID: it.ID}
		}
		return Hit{Kind: HitBody, NodeID: it.ID}
	}
	return Hit{}
}
