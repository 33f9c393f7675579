package layout

import "sort"

// Tree is a single workspace's tiling tree: an arena of Row/Column/Tile
// nodes reachable from root, plus the cursor state (focused tile, and the
// axis/direction a subsequent push will use).
type Tree struct {
	nodes      map[NodeID]*node
	nextID     NodeID
	root       NodeID
	focused    NodeID
	nextAxis   Axis
	nextDir    Direction
	fullscreen bool
}

// NewTree returns an empty tree. New splits default to Column/Right, matching
// the behavior observed when no axis or direction has been set explicitly.
func NewTree() *Tree {
	return &Tree{
		nodes:    make(map[NodeID]*node),
		nextID:   NoNode + 1,
		root:     NoNode,
		focused:  NoNode,
		nextAxis: AxisColumn,
		nextDir:  Right,
	}
}

// IsEmpty reports whether the tree holds no nodes.
func (t *Tree) IsEmpty() bool { return t.root == NoNode }

// Len returns the number of nodes (interior and leaf) in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Focused returns the currently focused Tile, or NoNode if the tree is empty.
func (t *Tree) Focused() NodeID { return t.focused }

// SetNextAxis sets the axis used by the next Push.
func (t *Tree) SetNextAxis(a Axis) { t.nextAxis = a }

// SetNextDirection sets the direction used by the next Push.
func (t *Tree) SetNextDirection(d Direction) { t.nextDir = d }

// Fullscreen reports whether the tree is currently in fullscreen mode.
func (t *Tree) Fullscreen() bool { return t.fullscreen }

// ToggleFullscreen flips fullscreen mode. While set, Geometry reports only
// the focused Tile's rectangle, covering the full working area.
func (t *Tree) ToggleFullscreen() { t.fullscreen = !t.fullscreen }

func (t *Tree) alloc() NodeID {
	id := t.nextID
	t.nextID++
	return id
}

func axisKind(a Axis) kind {
	if a == AxisRow {
		return kindRow
	}
	return kindColumn
}

func (t *Tree) sortedChildren(n *node) []NodeID {
	children := make([]NodeID, len(n.children))
	copy(children, n.children)
	sort.Slice(children, func(i, j int) bool {
		return t.nodes[children[i]].order < t.nodes[children[j]].order
	})
	return children
}

func removeID(ids []NodeID, target NodeID) []NodeID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

func replaceChildID(n *node, old, new NodeID) {
	for i, c := range n.children {
		if c == old {
			n.children[i] = new
			return
		}
	}
}

// distributeProportional splits total among weights (same length result),
// proportionally, with the exact integer remainder handed out by largest
// fractional remainder so the result always sums to exactly total.
func distributeProportional(weights []uint32, total uint32) []uint32 {
	n := len(weights)
	result := make([]uint32, n)
	if n == 0 {
		return result
	}
	var weightSum uint32
	for _, w := range weights {
		weightSum += w
	}
	if weightSum == 0 {
		// even split when there's nothing to be proportional to
		base := total / uint32(n)
		rem := total - base*uint32(n)
		for i := range result {
			result[i] = base
			if uint32(i) < rem {
				result[i]++
			}
		}
		return result
	}

	type frac struct {
		idx int
		rem uint64
	}
	fracs := make([]frac, n)
	var assigned uint32
	for i, w := range weights {
		num := uint64(w) * uint64(total)
		share := num / uint64(weightSum)
		result[i] = uint32(share)
		assigned += result[i]
		fracs[i] = frac{idx: i, rem: num % uint64(weightSum)}
	}
	leftover := total - assigned
	sort.Slice(fracs, func(i, j int) bool { return fracs[i].rem > fracs[j].rem })
	for i := uint32(0); i < leftover; i++ {
		result[fracs[i].idx]++
	}
	return result
}

func (t *Tree) redistributeOnInsert(parent, newChild NodeID) {
	pnode := t.nodes[parent]
	total := pnode.size
	existing := make([]NodeID, 0, len(pnode.children)-1)
	for _, c := range pnode.children {
		if c != newChild {
			existing = append(existing, c)
		}
	}
	n := len(existing)
	newShare := total / uint32(n+1)
	remaining := total - newShare
	weights := make([]uint32, n)
	for i, c := range existing {
		weights[i] = t.nodes[c].size
	}
	sizes := distributeProportional(weights, remaining)
	for i, c := range existing {
		t.nodes[c].size = sizes[i]
	}
	t.nodes[newChild].size = newShare
}

func (t *Tree) redistributeEqual(parent NodeID) {
	pnode := t.nodes[parent]
	n := len(pnode.children)
	if n == 0 {
		return
	}
	weights := make([]uint32, n)
	for i := range weights {
		weights[i] = 1
	}
	sizes := distributeProportional(weights, pnode.size)
	for i, c := range t.sortedChildren(pnode) {
		t.nodes[c].size = sizes[i]
	}
}

// Push inserts a new Tile adjacent to the focused Tile, on the tree's
// current axis and direction, and focuses it. The first Push on an empty
// tree makes the tile the root.
func (t *Tree) Push(w *ManagedWindow) NodeID {
	id := t.alloc()
	n := &node{kind: kindTile, window: w}
	t.nodes[id] = n

	if t.root == NoNode {
		n.order = 0
		n.size = RootSize
		n.parent = NoNode
		t.root = id
		t.focused = id
		return id
	}

	focused := t.focused
	fn := t.nodes[focused]
	parent := fn.parent
	axis := t.nextAxis
	dir := t.nextDir

	if parent != NoNode && t.nodes[parent].axis() == axis {
		t.insertAdjacent(parent, focused, id, dir.Forward())
	} else {
		t.wrapAndInsert(focused, id, axis, dir)
	}

	t.focused = id
	return id
}

// insertAdjacent inserts newChild into parent's children, next to anchor,
// after it if forward else before it, then redistributes sizes.
func (t *Tree) insertAdjacent(parent, anchor, newChild NodeID, forward bool) {
	pnode := t.nodes[parent]
	anchorOrder := t.nodes[anchor].order
	insertOrder := anchorOrder
	if forward {
		insertOrder = anchorOrder + 1
	}
	for _, c := range pnode.children {
		if t.nodes[c].order >= insertOrder {
			t.nodes[c].order++
		}
	}
	t.nodes[newChild].order = insertOrder
	t.nodes[newChild].parent = parent
	pnode.children = append(pnode.children, newChild)
	t.redistributeOnInsert(parent, newChild)
}

// insertAtEnd inserts newChild into parent's children at the front (if
// !atEnd) or the back (if atEnd), then redistributes sizes.
func (t *Tree) insertAtEnd(parent, newChild NodeID, atEnd bool) {
	pnode := t.nodes[parent]
	insertOrder := uint32(0)
	if atEnd {
		insertOrder = uint32(len(pnode.children))
	} else {
		for _, c := range pnode.children {
			t.nodes[c].order++
		}
	}
	t.nodes[newChild].order = insertOrder
	t.nodes[newChild].parent = parent
	pnode.children = append(pnode.children, newChild)
	t.redistributeOnInsert(parent, newChild)
}

func (t *Tree) wrapAndInsert(anchor, newChild NodeID, axis Axis, dir Direction) {
	an := t.nodes[anchor]
	oldParent := an.parent
	oldOrder := an.order
	oldSize := an.size

	wrapID := t.alloc()
	wrap := &node{kind: axisKind(axis), order: oldOrder, size: oldSize, parent: oldParent}
	t.nodes[wrapID] = wrap

	if oldParent == NoNode {
		t.root = wrapID
	} else {
		replaceChildID(t.nodes[oldParent], anchor, wrapID)
	}

	an.parent = wrapID
	wrap.children = []NodeID{anchor}

	if dir.Forward() {
		an.order = 0
		t.nodes[newChild].order = 1
	} else {
		an.order = 1
		t.nodes[newChild].order = 0
	}
	t.nodes[newChild].parent = wrapID
	wrap.children = append(wrap.children, newChild)

	t.redistributeOnInsert(wrapID, newChild)
}

// detachFromParent removes id from its parent's children, redistributing
// remaining siblings' sizes equally, renumbering orders, and collapsing the
// parent if it is left with a single child. id itself is left dangling
// (parent set to NoNode) and is NOT deleted from the arena.
func (t *Tree) detachFromParent(id NodeID) {
	n := t.nodes[id]
	parent := n.parent
	if parent == NoNode {
		t.root = NoNode
		return
	}
	pnode := t.nodes[parent]
	pnode.children = removeID(pnode.children, id)
	n.parent = NoNode
	t.redistributeEqual(parent)
	t.renumberChildren(parent)
	t.collapseIfSingleton(parent)
}

func (t *Tree) renumberChildren(parent NodeID) {
	pnode, ok := t.nodes[parent]
	if !ok {
		return
	}
	for i, c := range t.sortedChildren(pnode) {
		t.nodes[c].order = uint32(i)
	}
}

// collapseIfSingleton replaces parent with its sole remaining child once
// parent has been reduced to one child. Splicing the child directly in
// place would violate axis alternation whenever the child is itself
// interior (its axis is then, by construction, the same as parent's
// grandparent), so in that case the child's own children are inlined into
// the grandparent instead and both parent and child are discarded.
func (t *Tree) collapseIfSingleton(parent NodeID) {
	pnode, ok := t.nodes[parent]
	if !ok || len(pnode.children) != 1 {
		return
	}
	child := pnode.children[0]
	cnode := t.nodes[child]
	grandparent := pnode.parent

	if grandparent == NoNode {
		cnode.parent = NoNode
		cnode.order = 0
		cnode.size = pnode.size
		t.root = child
		delete(t.nodes, parent)
		return
	}

	gpnode := t.nodes[grandparent]

	if cnode.kind == kindTile {
		cnode.parent = grandparent
		cnode.order = pnode.order
		cnode.size = pnode.size
		replaceChildID(gpnode, parent, child)
		delete(t.nodes, parent)
		return
	}

	grandchildren := t.sortedChildren(cnode)
	insertOrder := pnode.order
	newChildren := make([]NodeID, 0, len(gpnode.children)-1+len(grandchildren))
	for _, c := range gpnode.children {
		if c != parent {
			if t.nodes[c].order > insertOrder {
				t.nodes[c].order += uint32(len(grandchildren) - 1)
			}
			newChildren = append(newChildren, c)
		}
	}
	for i, gc := range grandchildren {
		gn := t.nodes[gc]
		gn.parent = grandparent
		gn.order = insertOrder + uint32(i)
		newChildren = append(newChildren, gc)
	}
	gpnode.children = newChildren
	delete(t.nodes, parent)
	delete(t.nodes, child)
	t.renumberChildren(grandparent)
}

// pickRemovalNeighbor chooses which sibling of target (by original order,
// before renumbering) should receive focus: the nearest sibling below
// target's order, else the nearest above.
func (t *Tree) pickRemovalNeighbor(parent, target NodeID) NodeID {
	pnode := t.nodes[parent]
	removedOrder := t.nodes[target].order
	var below, above NodeID = NoNode, NoNode
	var belowOrder, aboveOrder uint32
	haveBelow, haveAbove := false, false
	for _, c := range pnode.children {
		if c == target {
			continue
		}
		o := t.nodes[c].order
		if o < removedOrder && (!haveBelow || o > belowOrder) {
			below, belowOrder, haveBelow = c, o, true
		}
		if o > removedOrder && (!haveAbove || o < aboveOrder) {
			above, aboveOrder, haveAbove = c, o, true
		}
	}
	if haveBelow {
		return below
	}
	return above
}

func (t *Tree) descendToTile(id NodeID) NodeID {
	n := t.nodes[id]
	for n.kind != kindTile {
		children := t.sortedChildren(n)
		id = children[0]
		n = t.nodes[id]
	}
	return id
}

// descendToTileDirectional descends into id, always entering from the side
// closest to where dir is coming from, until it reaches a Tile.
func (t *Tree) descendToTileDirectional(id NodeID, dir Direction) NodeID {
	n := t.nodes[id]
	for n.kind != kindTile {
		children := t.sortedChildren(n)
		enterLast := (n.axis() == AxisColumn && dir == Left) || (n.axis() == AxisRow && dir == Up)
		if enterLast {
			id = children[len(children)-1]
		} else {
			id = children[0]
		}
		n = t.nodes[id]
	}
	return id
}

func (t *Tree) findTileByWindow(w WindowID) NodeID {
	for id, n := range t.nodes {
		if n.kind == kindTile && n.window.ID == w {
			return id
		}
	}
	return NoNode
}

// Pop removes the focused Tile and returns its window.
func (t *Tree) Pop() (*ManagedWindow, bool) {
	return t.removeNode(t.focused)
}

// RemoveByWindow removes the Tile holding the given window, wherever it is
// focused or not, and returns its window.
func (t *Tree) RemoveByWindow(w WindowID) (*ManagedWindow, bool) {
	return t.removeNode(t.findTileByWindow(w))
}

func (t *Tree) removeNode(target NodeID) (*ManagedWindow, bool) {
	n, ok := t.nodes[target]
	if !ok || n.kind != kindTile {
		return nil, false
	}
	win := n.window
	wasFocused := target == t.focused
	parent := n.parent

	var candidate NodeID = NoNode
	if wasFocused && parent != NoNode {
		candidate = t.pickRemovalNeighbor(parent, target)
	}

	t.detachFromParent(target)
	delete(t.nodes, target)

	if wasFocused {
		if candidate == NoNode {
			t.focused = NoNode
		} else {
			t.focused = t.descendToTile(candidate)
		}
	}

	return win, true
}

// neighborStep walks from id toward the root until it reaches an ancestor
// whose axis matches dir, then returns that ancestor's child adjacent
// (order ± 1) to the one on the path down to id. Returns NoNode if no such
// ancestor exists.
func (t *Tree) neighborStep(id NodeID, dir Direction) NodeID {
	cur := id
	for {
		n := t.nodes[cur]
		parent := n.parent
		if parent == NoNode {
			return NoNode
		}
		pnode := t.nodes[parent]
		if pnode.axis() == dir.Axis() {
			order := n.order
			if !dir.Forward() && order == 0 {
				return NoNode
			}
			var target uint32
			if dir.Forward() {
				target = order + 1
			} else {
				target = order - 1
			}
			for _, c := range pnode.children {
				if t.nodes[c].order == target {
					return c
				}
			}
			return NoNode
		}
		cur = parent
	}
}

// directSibling is like neighborStep but only considers id's immediate
// parent, never walking further up the tree.
func (t *Tree) directSibling(id NodeID, dir Direction) NodeID {
	n := t.nodes[id]
	parent := n.parent
	if parent == NoNode {
		return NoNode
	}
	pnode := t.nodes[parent]
	if pnode.axis() != dir.Axis() {
		return NoNode
	}
	if !dir.Forward() && n.order == 0 {
		return NoNode
	}
	var target uint32
	if dir.Forward() {
		target = n.order + 1
	} else {
		target = n.order - 1
	}
	for _, c := range pnode.children {
		if t.nodes[c].order == target {
			return c
		}
	}
	return NoNode
}

// Swap exchanges the focused Tile's position with its neighbor in dir, if
// any. Position includes parent, order and size, so the two Tiles
// literally trade places in the layout.
func (t *Tree) Swap(dir Direction) {
	if t.focused == NoNode {
		return
	}
	neighbor := t.neighborStep(t.focused, dir)
	if neighbor == NoNode {
		return
	}
	target := t.descendToTileDirectional(neighbor, dir)
	if target == NoNode || target == t.focused {
		return
	}
	t.swapNodes(t.focused, target)
}

func (t *Tree) swapNodes(a, b NodeID) {
	na, nb := t.nodes[a], t.nodes[b]
	pa, pb := na.parent, nb.parent
	na.parent, nb.parent = pb, pa
	na.order, nb.order = nb.order, na.order
	na.size, nb.size = nb.size, na.size
	if pa == pb {
		return
	}
	if pa != NoNode {
		replaceChildID(t.nodes[pa], a, b)
	} else {
		t.root = b
	}
	if pb != NoNode {
		replaceChildID(t.nodes[pb], b, a)
	} else {
		t.root = a
	}
}

// Focus moves focus to the Tile neighboring the current one in dir, if any.
func (t *Tree) Focus(dir Direction) {
	if t.focused == NoNode {
		return
	}
	neighbor := t.neighborStep(t.focused, dir)
	if neighbor == NoNode {
		return
	}
	target := t.descendToTileDirectional(neighbor, dir)
	if target == NoNode {
		return
	}
	t.focused = target
}

// MoveIn moves the focused Tile into its interior neighbor in dir, as a new
// leaf entering from the side closest to the focused Tile's old position.
// A no-op if there's no neighbor in dir, or the neighbor is itself a Tile.
func (t *Tree) MoveIn(dir Direction) {
	if t.focused == NoNode {
		return
	}
	neighbor := t.neighborStep(t.focused, dir)
	if neighbor == NoNode {
		return
	}
	nn := t.nodes[neighbor]
	if nn.kind == kindTile {
		return
	}
	moving := t.focused
	p := t.nodes[t.nodes[moving].parent]
	want, grandparent := p.order, p.parent
	if !dir.Forward() {
		want += uint32(len(nn.children)) - 1
	}
	t.detachFromParent(moving)
	if _, exists := t.nodes[neighbor]; exists {
		t.insertAtEnd(neighbor, moving, !dir.Forward())
	} else {
		// parent collapsed, inlining neighbor's children into grandparent
		for _, c := range t.nodes[grandparent].children {
			if t.nodes[c].order == want {
				neighbor = c
			}
		}
		t.insertAdjacent(grandparent, neighbor, moving, !dir.Forward())
	}
	t.focused = moving
}

func (t *Tree) findMatchingAncestor(startChild NodeID, axis Axis) (ancestor, pathChild NodeID, ok bool) {
	cur := startChild
	for {
		n, exists := t.nodes[cur]
		if !exists {
			return NoNode, NoNode, false
		}
		parent := n.parent
		if parent == NoNode {
			return NoNode, NoNode, false
		}
		if t.nodes[parent].axis() == axis {
			return parent, cur, true
		}
		cur = parent
	}
}

// MoveOut moves the focused Tile out of its parent, up to the nearest
// enclosing ancestor whose axis matches dir, inserting it as that
// ancestor's new child next to the branch the Tile came from. A no-op if
// the focused Tile has no parent, or no ancestor matches dir's axis.
func (t *Tree) MoveOut(dir Direction) {
	if t.focused == NoNode {
		return
	}
	moving := t.focused
	mn := t.nodes[moving]
	if mn.parent == NoNode {
		return
	}
	ancestor, pathChild, ok := t.findMatchingAncestor(mn.parent, dir.Axis())
	if !ok {
		return
	}
	pathOrder, before := t.nodes[pathChild].order, len(t.nodes[ancestor].children)
	t.detachFromParent(moving)
	if _, exists := t.nodes[pathChild]; !exists {
		// pathChild collapsed: what replaced it spans orders
		// pathOrder..pathOrder+span-1 under ancestor
		want := pathOrder
		if dir.Forward() {
			want += uint32(len(t.nodes[ancestor].children) - before)
		}
		for _, c := range t.nodes[ancestor].children {
			if t.nodes[c].order == want {
				pathChild = c
			}
		}
	}
	t.insertAdjacent(ancestor, pathChild, moving, dir.Forward())
}

// TradeSizeWithNeighbor transfers amount units of size from the focused
// Tile's direct sibling in dir to the focused Tile, clamping so the
// neighbor's size never drops below 1. A no-op without such a sibling.
func (t *Tree) TradeSizeWithNeighbor(dir Direction, amount uint32) {
	if t.focused == NoNode {
		return
	}
	neighbor := t.directSibling(t.focused, dir)
	if neighbor == NoNode {
		return
	}
	fn := t.nodes[t.focused]
	nn := t.nodes[neighbor]
	if nn.size <= 1 {
		return
	}
	transfer := amount
	if nn.size-transfer < 1 {
		transfer = nn.size - 1
	}
	if transfer == 0 {
		return
	}
	nn.size -= transfer
	fn.size += transfer
}

func (t *Tree) resetAxis(axis Axis) {
	if t.focused == NoNode {
		return
	}
	cur := t.nodes[t.focused].parent
	for cur != NoNode {
		if t.nodes[cur].axis() == axis {
			t.redistributeEqual(cur)
			return
		}
		cur = t.nodes[cur].parent
	}
}

// ResetRow redistributes sizes equally among the children of the nearest
// enclosing Row ancestor of the focused Tile. A no-op if there is none.
func (t *Tree) ResetRow() { t.resetAxis(AxisRow) }

// ResetColumn is ResetRow's Column counterpart.
func (t *Tree) ResetColumn() { t.resetAxis(AxisColumn) }
