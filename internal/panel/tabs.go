package panel

import "errors"

// mutate clones t, resolves id and runs fn on the clone. On error the
// original tree is returned untouched.
func mutate(t Tree, op, id string, fn func(out *Tree, path []int) error) (Tree, error) {
	path, ok := locate(&t.Root, id)
	if !ok {
		return t, notFound(op, id, ErrNotFound, IDs(t))
	}
	out := t.Clone()
	if err := fn(&out, path); err != nil {
		var oe *OpError
		if errors.As(err, &oe) {
			return t, oe
		}
		return t, opErr(op, id, err)
	}
	return out, nil
}

func itemAt(out *Tree, path []int) (*Node, error) {
	n := nodeAt(&out.Root, path)
	if n.Kind != KindItem {
		return nil, ErrNotItem
	}
	return n, nil
}

// AddTab opens tab in the item itemID. A tab with the same id already in the
// item is focused instead of duplicated. A new tab may not reuse a node id.
// activate makes the tab active; the first tab of an empty item is always
// active.
func AddTab(t Tree, itemID string, tab Tab, activate bool) (Tree, error) {
	return mutate(t, "add tab", itemID, func(out *Tree, path []int) error {
		item, err := itemAt(out, path)
		if err != nil {
			return err
		}
		if tab.ID == "" {
			return ErrEmptyID
		}
		if item.TabIndex(tab.ID) < 0 {
			if _, taken := locate(&out.Root, tab.ID); taken {
				return ErrDuplicateID
			}
			item.Tabs = append(item.Tabs, tab)
		}
		if activate || item.ActiveTabID == "" {
			item.ActiveTabID = tab.ID
		}
		return nil
	})
}

// CloseTab removes a closeable tab. When the active tab closes, its right
// neighbour becomes active, else its left one. An item left without tabs is
// removed from its group and the tree is simplified, except for the root
// item, which stays as an empty idle root.
func CloseTab(t Tree, itemID, tabID string) (Tree, error) {
	return mutate(t, "close tab", itemID, func(out *Tree, path []int) error {
		item, err := itemAt(out, path)
		if err != nil {
			return err
		}
		idx := item.TabIndex(tabID)
		if idx < 0 {
			return tabNotFound("close tab", item, tabID)
		}
		if !item.Tabs[idx].Closeable {
			return opErr("close tab", tabID, ErrNotCloseable)
		}
		detachTab(out, path, idx)
		return nil
	})
}

// detachTab removes the tab at idx from the item at path, applies the
// active-selection rule and simplifies the tree if the item emptied.
func detachTab(out *Tree, path []int, idx int) {
	item := nodeAt(&out.Root, path)
	wasActive := item.Tabs[idx].ID == item.ActiveTabID
	item.Tabs = append(item.Tabs[:idx], item.Tabs[idx+1:]...)
	if wasActive {
		switch {
		case idx < len(item.Tabs):
			item.ActiveTabID = item.Tabs[idx].ID
		case idx > 0:
			item.ActiveTabID = item.Tabs[idx-1].ID
		default:
			item.ActiveTabID = ""
		}
	}
	if len(item.Tabs) > 0 {
		return
	}
	item.Tabs = nil
	if len(path) == 0 {
		return
	}
	simplifyTree(out)
}

// SetActiveTab focuses an existing tab.
func SetActiveTab(t Tree, itemID, tabID string) (Tree, error) {
	return mutate(t, "activate tab", itemID, func(out *Tree, path []int) error {
		item, err := itemAt(out, path)
		if err != nil {
			return err
		}
		if item.TabIndex(tabID) < 0 {
			return tabNotFound("activate tab", item, tabID)
		}
		item.ActiveTabID = tabID
		return nil
	})
}

func tabNotFound(op string, item *Node, tabID string) *OpError {
	ids := make([]string, len(item.Tabs))
	for i, tab := range item.Tabs {
		ids[i] = tab.ID
	}
	return notFound(op, tabID, ErrTabNotFound, ids)
}
