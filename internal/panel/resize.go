package panel

import "math"

// ResizeResult is the outcome of moving one divider. SizeA and SizeB are the
// new shares of the two siblings on either side of it. Collapse is set when
// the shrinking sibling is collapsible and was pushed below its minimum; it
// then takes the place of a clamped size.
type ResizeResult struct {
	SizeA         float64
	SizeB         float64
	Clamped       bool
	Collapse      bool
	CollapseIndex int
}

// ComputeResize solves a divider drag between the adjacent children a and b
// of group. pixelDelta is converted into a share delta relative to the
// group's extent; a positive delta moves the divider towards a, shrinking a
// and growing b by the same share. No other child is affected.
func ComputeResize(group Node, a, b int, pixelDelta, groupPx, minPx float64) (ResizeResult, error) {
	if group.Kind != KindGroup {
		return ResizeResult{}, ErrNotGroup
	}
	if a < 0 || b != a+1 || b >= len(group.Items) {
		return ResizeResult{}, ErrNotAdjacent
	}
	if groupPx <= 0 || math.IsNaN(groupPx) || math.IsInf(groupPx, 0) {
		return ResizeResult{}, ErrBadExtent
	}
	if math.IsNaN(pixelDelta) || math.IsInf(pixelDelta, 0) {
		return ResizeResult{}, ErrBadDelta
	}
	total := shareSum(group.Items)
	ca, cb := group.Items[a], group.Items[b]
	pair := ca.Size + cb.Size
	shareDelta := pixelDelta / groupPx * total

	res := ResizeResult{
		SizeA:         ca.Size - shareDelta,
		SizeB:         cb.Size + shareDelta,
		CollapseIndex: -1,
	}
	minA := minShare(ca, minPx, groupPx, total)
	minB := minShare(cb, minPx, groupPx, total)

	switch {
	case shareDelta > 0 && res.SizeA < minA:
		return shrinkPast(ca, a, minA, pair, false), nil
	case shareDelta < 0 && res.SizeB < minB:
		return shrinkPast(cb, b, minB, pair, true), nil
	}
	// a collapsed sibling only reopens once it is dragged past its minimum
	if ca.Collapsed && res.SizeA < minA {
		return ResizeResult{SizeA: ca.Size, SizeB: cb.Size, Clamped: true, CollapseIndex: -1}, nil
	}
	if cb.Collapsed && res.SizeB < minB {
		return ResizeResult{SizeA: ca.Size, SizeB: cb.Size, Clamped: true, CollapseIndex: -1}, nil
	}
	return res, nil
}

// shrinkPast resolves a sibling pushed below its minimum share. second
// reports whether the shrinking sibling is b rather than a.
func shrinkPast(c Node, index int, min, pair float64, second bool) ResizeResult {
	var res ResizeResult
	res.CollapseIndex = -1
	switch {
	case c.Collapsed:
		res.Clamped = true
		if second {
			res.SizeA, res.SizeB = pair-c.Size, c.Size
		} else {
			res.SizeA, res.SizeB = c.Size, pair-c.Size
		}
		return res
	case c.Collapsible:
		res.Collapse = true
		res.CollapseIndex = index
		if second {
			res.SizeA, res.SizeB = pair, 0
		} else {
			res.SizeA, res.SizeB = 0, pair
		}
		return res
	}
	clamped := math.Min(min, pair)
	res.Clamped = true
	if second {
		res.SizeA, res.SizeB = pair-clamped, clamped
	} else {
		res.SizeA, res.SizeB = clamped, pair-clamped
	}
	return res
}

func minShare(c Node, minPx, groupPx, total float64) float64 {
	m := 0.0
	if minPx > 0 {
		m = minPx / groupPx * total
	}
	return math.Max(m, c.MinSize)
}

// ApplyResize moves the divider between children index and index+1 of the
// group groupID and returns the resulting tree. A collapse transition hands
// the collapsing sibling's share to its drag partner only, so no other child
// of the group changes; the collapsed sibling remembers the share it had in t.
func ApplyResize(t Tree, groupID string, index int, pixelDelta, groupPx, minPx float64) (Tree, ResizeResult, error) {
	path, ok := locate(&t.Root, groupID)
	if !ok {
		return t, ResizeResult{CollapseIndex: -1}, notFound("resize", groupID, ErrNotFound, IDs(t))
	}
	res, err := ComputeResize(*nodeAt(&t.Root, path), index, index+1, pixelDelta, groupPx, minPx)
	if err != nil {
		return t, res, opErr("resize", groupID, err)
	}

	out := t.Clone()
	g := nodeAt(&out.Root, path)
	a, b := &g.Items[index], &g.Items[index+1]
	if res.Collapse {
		shrinking, partner := a, b
		if res.CollapseIndex == index+1 {
			shrinking, partner = b, a
		}
		partner.Size += shrinking.Size
		if partner.Collapsed {
			partner.Collapsed = false
			partner.RestoreSize = 0
		}
		shrinking.RestoreSize = shrinking.Size
		shrinking.Size = 0
		shrinking.Collapsed = true
		settlePair(g, index)
		return out, res, nil
	}
	a.Size, b.Size = res.SizeA, res.SizeB
	for _, c := range []*Node{a, b} {
		if c.Collapsed && c.Size > 0 {
			c.Collapsed = false
			c.RestoreSize = 0
		}
	}
	settlePair(g, index)
	return out, res, nil
}

// settlePair absorbs float residue into the larger of children index and
// index+1 so the group sums to Total without touching any other child.
func settlePair(g *Node, index int) {
	a, b := &g.Items[index], &g.Items[index+1]
	target := b
	if a.Size >= b.Size {
		target = a
	}
	target.Size += Total - shareSum(g.Items)
	if target.Size < 0 {
		target.Size = 0
	}
}
