package panel

import "math"

// shareEpsilon is the drift tolerated when checking that shares sum to Total.
const shareEpsilon = 1e-6

// Validate checks every structural rule on a live tree and reports all
// violations at once. An empty root item (the idle root) is accepted.
func Validate(t Tree) error {
	var vs violations
	seen := make(map[string]int)
	var visit func(n *Node, isRoot bool)
	visit = func(n *Node, isRoot bool) {
		if n.ID == "" {
			vs.add(n.ID, InvStructure, "node has an empty id")
		} else {
			seen[n.ID]++
			if seen[n.ID] == 2 {
				vs.add(n.ID, InvUniqueID, "id is used by more than one node")
			}
		}
		if n.Size < 0 || math.IsNaN(n.Size) || math.IsInf(n.Size, 0) {
			vs.add(n.ID, InvShareSum, "share %v is not a non-negative number", n.Size)
		}
		switch n.Kind {
		case KindGroup:
			validateGroup(n, &vs)
			for i := range n.Items {
				visit(&n.Items[i], false)
			}
		case KindItem:
			validateItem(n, isRoot, &vs)
		default:
			vs.add(n.ID, InvStructure, "unknown node type %q", n.Kind)
		}
	}
	visit(&t.Root, true)
	checkTabIDs(&t.Root, seen, &vs)
	return vs.err()
}

func validateGroup(n *Node, vs *violations) {
	if !n.Direction.valid() {
		vs.add(n.ID, InvStructure, "group direction %q must be horizontal or vertical", n.Direction)
	}
	if len(n.Tabs) > 0 {
		vs.add(n.ID, InvStructure, "group must not carry tabs")
	}
	if len(n.Items) < 2 {
		vs.add(n.ID, InvGroupArity, "group has %d children, needs at least 2", len(n.Items))
	}
	if len(n.Items) == 0 {
		return
	}
	if sum := shareSum(n.Items); math.Abs(sum-Total) > shareEpsilon {
		vs.add(n.ID, InvShareSum, "child shares sum to %.6f, want %.0f", sum, Total)
	}
	expanded := 0
	for _, c := range n.Items {
		if !c.Collapsed {
			expanded++
		}
	}
	if expanded == 0 {
		vs.add(n.ID, InvShareSum, "every child is collapsed")
	}
}

func validateItem(n *Node, isRoot bool, vs *violations) {
	if len(n.Items) > 0 {
		vs.add(n.ID, InvStructure, "item must not contain child nodes")
	}
	if len(n.Tabs) == 0 {
		if !isRoot {
			vs.add(n.ID, InvItemTabs, "item has no tabs")
		}
		if n.ActiveTabID != "" {
			vs.add(n.ID, InvActiveTab, "active tab %q set on an item without tabs", n.ActiveTabID)
		}
		return
	}
	seen := make(map[string]bool, len(n.Tabs))
	for _, tab := range n.Tabs {
		if tab.ID == "" {
			vs.add(n.ID, InvItemTabs, "tab with empty id")
			continue
		}
		if seen[tab.ID] {
			vs.add(n.ID, InvItemTabs, "duplicate tab id %q", tab.ID)
		}
		seen[tab.ID] = true
	}
	if !seen[n.ActiveTabID] {
		vs.add(n.ID, InvActiveTab, "active tab %q is not one of the item's tabs", n.ActiveTabID)
	}
}

// checkTabIDs flags tabs whose id is also a node id.
func checkTabIDs(n *Node, nodeIDs map[string]int, vs *violations) {
	for _, tab := range n.Tabs {
		if tab.ID != "" && nodeIDs[tab.ID] > 0 {
			vs.add(n.ID, InvUniqueID, "tab id %q is also a node id", tab.ID)
		}
	}
	for i := range n.Items {
		checkTabIDs(&n.Items[i], nodeIDs, vs)
	}
}
