package layout

// Root returns the tree's root node, or NoNode if empty.
func (t *Tree) Root() NodeID { return t.root }

// IsTile reports whether id names a Tile leaf.
func (t *Tree) IsTile(id NodeID) bool {
	n, ok := t.nodes[id]
	return ok && n.kind == kindTile
}

// Window returns the ManagedWindow held by a Tile, or (nil, false) if id
// does not name a Tile.
func (t *Tree) Window(id NodeID) (*ManagedWindow, bool) {
	n, ok := t.nodes[id]
	if !ok || n.kind != kindTile {
		return nil, false
	}
	return n.window, true
}

// Parent returns id's parent, or NoNode if id is the root or unknown.
func (t *Tree) Parent(id NodeID) NodeID {
	n, ok := t.nodes[id]
	if !ok {
		return NoNode
	}
	return n.parent
}

// Order returns id's order among its siblings.
func (t *Tree) Order(id NodeID) uint32 {
	n, ok := t.nodes[id]
	if !ok {
		return 0
	}
	return n.order
}

// Size returns id's size share within its parent (or RootSize for the root).
func (t *Tree) Size(id NodeID) uint32 {
	n, ok := t.nodes[id]
	if !ok {
		return 0
	}
	return n.size
}

// AxisOf returns the axis of an interior node. Calling it on a Tile or an
// unknown id returns AxisColumn.
func (t *Tree) AxisOf(id NodeID) Axis {
	n, ok := t.nodes[id]
	if !ok {
		return AxisColumn
	}
	return n.axis()
}

// Children returns id's children, ordered by their order field. Empty for
// a Tile or unknown id.
func (t *Tree) Children(id NodeID) []NodeID {
	n, ok := t.nodes[id]
	if !ok || n.kind == kindTile {
		return nil
	}
	return t.sortedChildren(n)
}

// SetFocus moves focus directly to id, provided id names a Tile.
func (t *Tree) SetFocus(id NodeID) bool {
	if !t.IsTile(id) {
		return false
	}
	t.focused = id
	return true
}

// Windows returns every window in the tree, in pre-order (depth-first,
// children visited in order).
func (t *Tree) Windows() []*ManagedWindow {
	var out []*ManagedWindow
	if t.root == NoNode {
		return out
	}
	var walk func(NodeID)
	walk = func(id NodeID) {
		n := t.nodes[id]
		if n.kind == kindTile {
			out = append(out, n.window)
			return
		}
		for _, c := range t.sortedChildren(n) {
			walk(c)
		}
	}
	walk(t.root)
	return out
}

// FindByWindow exposes the same lookup removeNode uses internally, for
// callers (e.g. the orchestrator) that need to locate a Tile without
// removing it.
func (t *Tree) FindByWindow(w WindowID) (NodeID, bool) {
	id := t.findTileByWindow(w)
	return id, id != NoNode
}
