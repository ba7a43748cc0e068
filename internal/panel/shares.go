package panel

// normalize rescales the shares of g's children so they sum to exactly Total.
// When pinned is a valid index that child keeps its share and the others are
// scaled into the remaining space. Float residue lands on the largest
// unpinned child.
func normalize(g *Node, pinned int) {
	n := len(g.Items)
	if n == 0 {
		return
	}
	if pinned >= n {
		pinned = -1
	}
	target := Total
	if pinned >= 0 {
		target -= g.Items[pinned].Size
		if target < 0 {
			g.Items[pinned].Size = Total
			target = 0
		}
	}
	var sum float64
	for i := range g.Items {
		if i == pinned {
			continue
		}
		if g.Items[i].Size < 0 {
			g.Items[i].Size = 0
		}
		sum += g.Items[i].Size
	}
	if sum > 0 {
		scale := target / sum
		for i := range g.Items {
			if i != pinned {
				g.Items[i].Size *= scale
			}
		}
	} else {
		count := 0
		for i := range g.Items {
			if i != pinned && !g.Items[i].Collapsed {
				count++
			}
		}
		for i := range g.Items {
			if i != pinned && !g.Items[i].Collapsed && count > 0 {
				g.Items[i].Size = target / float64(count)
			}
		}
	}

	largest := -1
	for i := range g.Items {
		if i == pinned || g.Items[i].Collapsed {
			continue
		}
		if largest < 0 || g.Items[i].Size > g.Items[largest].Size {
			largest = i
		}
	}
	if largest >= 0 {
		g.Items[largest].Size += Total - shareSum(g.Items)
	}
}

// removeChild drops g.Items[idx] and hands its share to the remaining
// children in proportion to their shares.
func removeChild(g *Node, idx int) {
	g.Items = append(g.Items[:idx], g.Items[idx+1:]...)
	if len(g.Items) == 0 {
		return
	}
	if shareSum(g.Items) <= 0 {
		// only collapsed siblings remain; reopen the nearest one
		reopen := idx
		if reopen >= len(g.Items) {
			reopen = len(g.Items) - 1
		}
		c := &g.Items[reopen]
		c.Collapsed = false
		c.RestoreSize = 0
		c.Size = Total
	}
	normalize(g, -1)
}

func isEmpty(n *Node) bool {
	switch n.Kind {
	case KindItem:
		return len(n.Tabs) == 0
	case KindGroup:
		return len(n.Items) == 0
	}
	return false
}

// simplify removes empty nodes below g and replaces every single-child group
// by its child, bottom up.
func simplify(g *Node) {
	if g.Kind != KindGroup {
		return
	}
	for i := range g.Items {
		simplify(&g.Items[i])
	}
	for i := len(g.Items) - 1; i >= 0; i-- {
		if isEmpty(&g.Items[i]) {
			removeChild(g, i)
		}
	}
	for i := range g.Items {
		if c := &g.Items[i]; c.Kind == KindGroup && len(c.Items) == 1 {
			g.Items[i] = hoist(*c)
		}
	}
}

// hoist returns the only child of g, taking over g's place in its parent.
func hoist(g Node) Node {
	child := g.Items[0]
	child.Size = g.Size
	if g.Collapsed {
		child.Collapsible = true
		child.Collapsed = true
		child.RestoreSize = g.RestoreSize
	}
	return child
}

// simplifyTree canonicalizes the whole tree. The root keeps Total as its
// share and can never be collapsed.
func simplifyTree(t *Tree) {
	simplify(&t.Root)
	for t.Root.Kind == KindGroup && len(t.Root.Items) <= 1 {
		if len(t.Root.Items) == 0 {
			t.Root = Node{Kind: KindItem, ID: t.Root.ID}
			break
		}
		t.Root = hoist(t.Root)
	}
	t.Root.Size = Total
	t.Root.Collapsed = false
	t.Root.RestoreSize = 0
}
