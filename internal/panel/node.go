// Package panel holds the tiling layout tree: split groups and tabbed items,
// plus the pure operations that resize, collapse and retab it. Every
// operation takes a Tree and returns a new Tree; inputs are never modified.
package panel

// Kind discriminates the two node variants.
type Kind string

const (
	KindGroup Kind = "group"
	KindItem  Kind = "item"
)

// Direction is the axis a group splits along.
type Direction string

const (
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
)

func (d Direction) valid() bool { return d == Horizontal || d == Vertical }

// Total is the sum the child shares of every group are normalized to.
const Total = 100.0

// Tab is an addressable unit of content inside an item.
type Tab struct {
	ID        string `json:"id"`
	Closeable bool   `json:"closeable"`
}

// Node is either a group (Direction, Items) or an item (Tabs, ActiveTabID).
// Size is the node's share of its parent group. RestoreSize remembers the
// share a collapsed node held before collapsing.
type Node struct {
	Kind        Kind      `json:"type"`
	ID          string    `json:"id"`
	Size        float64   `json:"size"`
	MinSize     float64   `json:"minSize,omitempty"`
	Collapsible bool      `json:"collapsible,omitempty"`
	Collapsed   bool      `json:"collapsed,omitempty"`
	RestoreSize float64   `json:"restoreSize,omitempty"`
	Direction   Direction `json:"direction,omitempty"`
	Items       []Node    `json:"items,omitempty"`
	Tabs        []Tab     `json:"tabs,omitempty"`
	ActiveTabID string    `json:"activeTabId,omitempty"`
}

// Tree is a complete layout.
type Tree struct {
	Root Node `json:"root"`
}

func (n Node) IsGroup() bool { return n.Kind == KindGroup }
func (n Node) IsItem() bool  { return n.Kind == KindItem }

// Empty reports whether n is an item without tabs (the idle root).
func (n Node) Empty() bool { return n.Kind == KindItem && len(n.Tabs) == 0 }

// TabIndex returns the position of tab id in an item, or -1.
func (n Node) TabIndex(id string) int {
	for i, tab := range n.Tabs {
		if tab.ID == id {
			return i
		}
	}
	return -1
}

// ActiveTab returns the item's active tab.
func (n Node) ActiveTab() (Tab, bool) {
	if i := n.TabIndex(n.ActiveTabID); i >= 0 {
		return n.Tabs[i], true
	}
	return Tab{}, false
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	out := n
	if n.Items != nil {
		out.Items = make([]Node, len(n.Items))
		for i, child := range n.Items {
			out.Items[i] = child.Clone()
		}
	}
	if n.Tabs != nil {
		out.Tabs = make([]Tab, len(n.Tabs))
		copy(out.Tabs, n.Tabs)
	}
	return out
}

// Clone returns a deep copy of t.
func (t Tree) Clone() Tree {
	return Tree{Root: t.Root.Clone()}
}

// Find returns a copy of the node with the given id.
func Find(t Tree, id string) (Node, bool) {
	path, ok := locate(&t.Root, id)
	if !ok {
		return Node{}, false
	}
	return nodeAt(&t.Root, path).Clone(), true
}

// Path returns the ids of the groups from the root down to the node's parent.
// The root itself has an empty path.
func Path(t Tree, id string) ([]string, bool) {
	path, ok := locate(&t.Root, id)
	if !ok {
		return nil, false
	}
	ids := make([]string, 0, len(path))
	n := &t.Root
	for _, idx := range path {
		ids = append(ids, n.ID)
		n = &n.Items[idx]
	}
	return ids, true
}

// Walk visits every node depth first, parents before children. parentID is
// empty for the root.
func Walk(t Tree, fn func(n Node, parentID string)) {
	var visit func(n *Node, parentID string)
	visit = func(n *Node, parentID string) {
		fn(*n, parentID)
		for i := range n.Items {
			visit(&n.Items[i], n.ID)
		}
	}
	visit(&t.Root, "")
}

// Items returns copies of all leaf items in visual order.
func Items(t Tree) []Node {
	var out []Node
	Walk(t, func(n Node, _ string) {
		if n.IsItem() {
			out = append(out, n.Clone())
		}
	})
	return out
}

// IDs returns every node id in the tree.
func IDs(t Tree) []string {
	return nodeIDs(&t.Root)
}

func nodeIDs(root *Node) []string {
	var ids []string
	var visit func(n *Node)
	visit = func(n *Node) {
		ids = append(ids, n.ID)
		for i := range n.Items {
			visit(&n.Items[i])
		}
	}
	visit(root)
	return ids
}

// locate returns the child index path from root to the node with id.
func locate(root *Node, id string) ([]int, bool) {
	if root.ID == id {
		return []int{}, true
	}
	for i := range root.Items {
		if sub, ok := locate(&root.Items[i], id); ok {
			return append([]int{i}, sub...), true
		}
	}
	return nil, false
}

func nodeAt(root *Node, path []int) *Node {
	n := root
	for _, idx := range path {
		n = &n.Items[idx]
	}
	return n
}

// parentAt returns the parent group of the node at path and the node's index
// within it. It returns nil for the root.
func parentAt(root *Node, path []int) (*Node, int) {
	if len(path) == 0 {
		return nil, -1
	}
	return nodeAt(root, path[:len(path)-1]), path[len(path)-1]
}

func shareSum(items []Node) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Size
	}
	return sum
}
