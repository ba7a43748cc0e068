package panel

import "github.com/google/uuid"

// newID generates ids for groups created by Split.
var newID = func() string { return "group-" + uuid.NewString() }

// Split places item next to the node target along dir. If target's parent
// already splits along dir the item becomes a sibling, otherwise target and
// item are wrapped in a new group taking target's place. Either way target
// gives up half of its share. after puts item behind target.
func Split(t Tree, target string, dir Direction, item Node, after bool) (Tree, error) {
	if err := checkNewItem(t, &item); err != nil {
		return t, opErr("split", item.ID, err)
	}
	if !dir.valid() {
		return t, opErr("split", target, ErrInvalidNode)
	}
	return mutate(t, "split", target, func(out *Tree, path []int) error {
		n := nodeAt(&out.Root, path)
		if n.Collapsed {
			return ErrAlreadyCollapsed
		}
		g, idx := parentAt(&out.Root, path)
		if g == nil && n.Empty() {
			item.Size = Total
			*n = item
			return nil
		}
		if g != nil && g.Direction == dir {
			half := n.Size / 2
			n.Size = half
			item.Size = half
			at := idx
			if after {
				at = idx + 1
			}
			g.Items = append(g.Items[:at], append([]Node{item}, g.Items[at:]...)...)
			normalize(g, -1)
			return nil
		}
		wrapped := Node{Kind: KindGroup, ID: newID(), Direction: dir, Size: n.Size}
		first := n.Clone()
		first.Size = Total / 2
		item.Size = Total / 2
		if after {
			wrapped.Items = []Node{first, item}
		} else {
			wrapped.Items = []Node{item, first}
		}
		*n = wrapped
		if g == nil {
			n.Size = Total
		}
		return nil
	})
}

func checkNewItem(t Tree, item *Node) error {
	if item.ID == "" {
		return ErrEmptyID
	}
	if item.Kind == "" {
		item.Kind = KindItem
	}
	if item.Kind != KindItem || len(item.Tabs) == 0 || len(item.Items) > 0 {
		return ErrInvalidNode
	}
	if _, exists := locate(&t.Root, item.ID); exists {
		return ErrDuplicateID
	}
	for _, tab := range item.Tabs {
		if _, exists := locate(&t.Root, tab.ID); exists || tab.ID == item.ID {
			return ErrDuplicateID
		}
	}
	for _, existing := range Items(t) {
		if existing.TabIndex(item.ID) >= 0 {
			return ErrDuplicateID
		}
	}
	if item.TabIndex(item.ActiveTabID) < 0 {
		item.ActiveTabID = item.Tabs[0].ID
	}
	item.Collapsed = false
	item.RestoreSize = 0
	return nil
}

// MoveTab moves a tab from one item to another and focuses it there. The
// source item follows the same rules as CloseTab once the tab leaves it,
// whether or not the tab is closeable.
func MoveTab(t Tree, fromItem, tabID, toItem string) (Tree, error) {
	if fromItem == toItem {
		return SetActiveTab(t, fromItem, tabID)
	}
	toPath, ok := locate(&t.Root, toItem)
	if !ok {
		return t, notFound("move tab", toItem, ErrNotFound, IDs(t))
	}
	if nodeAt(&t.Root, toPath).Kind != KindItem {
		return t, opErr("move tab", toItem, ErrNotItem)
	}
	return mutate(t, "move tab", fromItem, func(out *Tree, path []int) error {
		src, err := itemAt(out, path)
		if err != nil {
			return err
		}
		idx := src.TabIndex(tabID)
		if idx < 0 {
			return tabNotFound("move tab", src, tabID)
		}
		tab := src.Tabs[idx]
		dst := nodeAt(&out.Root, toPath)
		if dst.TabIndex(tab.ID) < 0 {
			dst.Tabs = append(dst.Tabs, tab)
		}
		dst.ActiveTabID = tab.ID
		detachTab(out, path, idx)
		return nil
	})
}

// RemoveItem drops an item with all its tabs. The root item is emptied
// instead.
func RemoveItem(t Tree, itemID string) (Tree, error) {
	return mutate(t, "remove item", itemID, func(out *Tree, path []int) error {
		item, err := itemAt(out, path)
		if err != nil {
			return err
		}
		item.Tabs = nil
		item.ActiveTabID = ""
		if len(path) > 0 {
			simplifyTree(out)
		}
		return nil
	})
}
