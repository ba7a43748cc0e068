package panel

import "math"

// Collapse reduces a collapsible node to a strip. Its share is remembered and
// handed to its expanded siblings in proportion to their shares.
func Collapse(t Tree, id string) (Tree, error) {
	return mutate(t, "collapse", id, func(out *Tree, path []int) error {
		g, idx := parentAt(&out.Root, path)
		if g == nil {
			return ErrRoot
		}
		n := &g.Items[idx]
		switch {
		case !n.Collapsible:
			return ErrNotCollapsible
		case n.Collapsed:
			return ErrAlreadyCollapsed
		}
		var kept float64
		expanded := 0
		for i, c := range g.Items {
			if i != idx && !c.Collapsed {
				kept += c.Size
				expanded++
			}
		}
		if expanded == 0 {
			return ErrLastExpanded
		}
		freed := n.Size
		n.RestoreSize = freed
		n.Size = 0
		n.Collapsed = true
		for i := range g.Items {
			c := &g.Items[i]
			if i == idx || c.Collapsed {
				continue
			}
			if kept > 0 {
				c.Size += freed * c.Size / kept
			} else {
				c.Size += freed / float64(expanded)
			}
		}
		normalize(g, -1)
		return nil
	})
}

// Expand reopens a collapsed node at the share it held before collapsing.
// Expanded siblings shrink in proportion to their shares but never below
// their MinSize; when they run out of room the node reopens smaller than
// before.
func Expand(t Tree, id string) (Tree, error) {
	return mutate(t, "expand", id, func(out *Tree, path []int) error {
		g, idx := parentAt(&out.Root, path)
		if g == nil {
			return ErrRoot
		}
		n := &g.Items[idx]
		switch {
		case !n.Collapsible:
			return ErrNotCollapsible
		case !n.Collapsed:
			return ErrNotCollapsed
		}
		want := n.RestoreSize
		if want <= 0 {
			want = Total / float64(len(g.Items))
		}

		room := make(map[int]float64)
		var roomTotal float64
		for i, c := range g.Items {
			if i == idx || c.Collapsed {
				continue
			}
			if r := c.Size - c.MinSize; r > 0 {
				room[i] = r
				roomTotal += r
			}
		}
		take := math.Min(want, roomTotal)
		remaining := take
		active := make([]int, 0, len(room))
		for i := range g.Items {
			if _, ok := room[i]; ok {
				active = append(active, i)
			}
		}
		for remaining > shareEpsilon && len(active) > 0 {
			var sum float64
			for _, i := range active {
				sum += g.Items[i].Size
			}
			if sum <= 0 {
				break
			}
			var next []int
			var spent float64
			for _, i := range active {
				cut := remaining * g.Items[i].Size / sum
				if cut >= room[i] {
					cut = room[i]
				} else {
					next = append(next, i)
				}
				g.Items[i].Size -= cut
				room[i] -= cut
				spent += cut
			}
			remaining -= spent
			active = next
		}
		got := take
		if remaining > shareEpsilon {
			got = take - remaining
		}

		n.Size = got
		n.Collapsed = false
		n.RestoreSize = 0
		normalize(g, idx)
		return nil
	})
}

// ToggleCollapse collapses an expanded node or expands a collapsed one.
func ToggleCollapse(t Tree, id string) (Tree, error) {
	n, ok := Find(t, id)
	if ok && n.Collapsed {
		return Expand(t, id)
	}
	return Collapse(t, id)
}
