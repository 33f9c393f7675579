package layout

// Geometry computes the screen rectangle of every Tile in the tree, given
// the display's working area and the configured gaps. outerGap is applied
// once around the working area; innerGap is reserved between adjacent
// siblings at every split. While the tree is in fullscreen mode, only the
// focused Tile is reported, covering the full (outer-gapped) working area.
func (t *Tree) Geometry(workArea Rect, outerGap, innerGap int) map[NodeID]Rect {
	out := make(map[NodeID]Rect)
	if t.root == NoNode {
		return out
	}
	area := shrinkRect(workArea, outerGap)
	if t.fullscreen && t.focused != NoNode {
		out[t.focused] = area
		return out
	}
	t.assignRect(t.root, area, innerGap, out)
	return out
}

func shrinkRect(r Rect, gap int) Rect {
	r.X += gap
	r.Y += gap
	r.Width -= 2 * gap
	r.Height -= 2 * gap
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

func (t *Tree) assignRect(id NodeID, rect Rect, innerGap int, out map[NodeID]Rect) {
	n := t.nodes[id]
	if n.kind == kindTile {
		out[id] = rect
		return
	}

	children := t.sortedChildren(n)
	count := len(children)
	gapTotal := innerGap * (count - 1)
	weights := make([]uint32, count)
	for i, c := range children {
		weights[i] = t.nodes[c].size
	}

	if n.axis() == AxisColumn {
		avail := rect.Width - gapTotal
		if avail < 0 {
			avail = 0
		}
		widths := distributeProportional(weights, uint32(avail))
		x := rect.X
		for i, c := range children {
			w := int(widths[i])
			childRect := Rect{X: x, Y: rect.Y, Width: w, Height: rect.Height}
			t.assignRect(c, childRect, innerGap, out)
			x += w + innerGap
		}
		return
	}

	avail := rect.Height - gapTotal
	if avail < 0 {
		avail = 0
	}
	heights := distributeProportional(weights, uint32(avail))
	y := rect.Y
	for i, c := range children {
		h := int(heights[i])
		childRect := Rect{X: rect.X, Y: y, Width: rect.Width, Height: h}
		t.assignRect(c, childRect, innerGap, out)
		y += h + innerGap
	}
}
