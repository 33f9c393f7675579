package layout

import "testing"

func pushWindow(t *Tree, id WindowID) NodeID {
	return t.Push(&ManagedWindow{ID: id})
}

func windowIDs(t *Tree, ids []NodeID) []WindowID {
	out := make([]WindowID, len(ids))
	for i, id := range ids {
		w, _ := t.Window(id)
		out[i] = w.ID
	}
	return out
}

func assertOrder(t *testing.T, got []WindowID, want ...WindowID) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestPushOnEmptyTree(t *testing.T) {
	tr := NewTree()
	id := pushWindow(tr, 123)
	if tr.Len() != 1 {
		t.Fatalf("expected 1 node, got %d", tr.Len())
	}
	if tr.Focused() != id {
		t.Fatalf("expected focus on the pushed tile")
	}
	if tr.Root() != id {
		t.Fatalf("expected the single tile to be root")
	}
	if tr.Size(id) != RootSize {
		t.Fatalf("expected root size %d, got %d", RootSize, tr.Size(id))
	}
}

func TestPushOnPopulatedRoot(t *testing.T) {
	tr := NewTree()
	root := pushWindow(tr, 123)
	second := pushWindow(tr, 456)

	if tr.Len() != 3 {
		t.Fatalf("expected 3 nodes (2 tiles + 1 column), got %d", tr.Len())
	}
	if tr.AxisOf(tr.Root()) != AxisColumn {
		t.Fatalf("expected root to become a column")
	}
	if tr.Focused() != second {
		t.Fatalf("expected focus on second pushed window")
	}
	if tr.Parent(tr.Focused()) != tr.Root() {
		t.Fatalf("expected focused node's parent to be root")
	}
	children := tr.Children(tr.Root())
	got := windowIDs(tr, children)
	assertOrder(t, got, 123, 456)
	_ = root
}

func TestPushSixColumnNodes(t *testing.T) {
	tr := NewTree()
	for i := WindowID(1); i <= 6; i++ {
		pushWindow(tr, i)
	}
	if tr.AxisOf(tr.Root()) != AxisColumn {
		t.Fatalf("expected column root")
	}
	if tr.Len() != 7 {
		t.Fatalf("expected 7 nodes, got %d", tr.Len())
	}
	got := windowIDs(tr, tr.Children(tr.Root()))
	assertOrder(t, got, 1, 2, 3, 4, 5, 6)

	for _, id := range tr.Children(tr.Root()) {
		if tr.Size(id) != 20 {
			t.Fatalf("expected each of 6 equal children to have size 20, got %d", tr.Size(id))
		}
	}
}

func TestPushSixColumnNodesAlteringDirection(t *testing.T) {
	tr := NewTree()
	pushWindow(tr, 1)
	pushWindow(tr, 2)
	tr.SetNextDirection(Left)
	pushWindow(tr, 3)
	pushWindow(tr, 4)
	tr.SetNextDirection(Right)
	pushWindow(tr, 5)
	pushWindow(tr, 6)

	got := windowIDs(tr, tr.Children(tr.Root()))
	assertOrder(t, got, 1, 4, 5, 6, 3, 2)
}

func TestPushSixRowNodes(t *testing.T) {
	tr := NewTree()
	tr.SetNextDirection(Down)
	tr.SetNextAxis(AxisRow)
	for i := WindowID(1); i <= 6; i++ {
		pushWindow(tr, i)
	}
	if tr.AxisOf(tr.Root()) != AxisRow {
		t.Fatalf("expected row root")
	}
	got := windowIDs(tr, tr.Children(tr.Root()))
	assertOrder(t, got, 1, 2, 3, 4, 5, 6)
}

func TestMakeSpaceSizeDistribution(t *testing.T) {
	tr := NewTree()
	expected := []uint32{120, 60, 40, 30, 24, 20}
	for i := 0; i < 6; i++ {
		pushWindow(tr, WindowID(i+1))
		children := tr.Children(tr.Root())
		var total uint32
		if len(children) == 0 {
			total = tr.Size(tr.Root())
		} else {
			for _, c := range children {
				total += tr.Size(c)
				if tr.Size(c) != expected[i] {
					t.Fatalf("push %d: expected each child size %d, got %d", i+1, expected[i], tr.Size(c))
				}
			}
		}
		if i == 0 {
			total = tr.Size(tr.Root())
		}
		if total != RootSize {
			t.Fatalf("push %d: expected sizes to sum to %d, got %d", i+1, RootSize, total)
		}
	}
}

func TestFocusAndSwapAcrossColumn(t *testing.T) {
	tr := NewTree()
	for i := WindowID(1); i <= 6; i++ {
		pushWindow(tr, i)
	}
	// focused is window 6 (last pushed), walk left to window 1
	for i := 0; i < 5; i++ {
		tr.Focus(Left)
	}
	w, _ := tr.Window(tr.Focused())
	if w.ID != 1 {
		t.Fatalf("expected focus on window 1 after walking left, got %d", w.ID)
	}
	// no-op: already at the leftmost tile
	tr.Focus(Left)
	w, _ = tr.Window(tr.Focused())
	if w.ID != 1 {
		t.Fatalf("expected focus to stay on window 1, got %d", w.ID)
	}
	// swap window 1 with its right neighbor: the two trade places
	tr.Swap(Right)
	assertOrder(t, windowIDs(tr, tr.Children(tr.Root())), 2, 1, 3, 4, 5, 6)
}

func TestTradeSizeWithNeighbor(t *testing.T) {
	tr := NewTree()
	pushWindow(tr, 1)
	pushWindow(tr, 2)
	pushWindow(tr, 3)
	children := tr.Children(tr.Root())
	middle := children[1]
	tr.SetFocus(middle)

	tr.TradeSizeWithNeighbor(Right, 5)

	got := make([]uint32, 3)
	for i, c := range tr.Children(tr.Root()) {
		got[i] = tr.Size(c)
	}
	want := []uint32{40, 45, 35}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got sizes %v, want %v", got, want)
		}
	}
}

func TestPopCollapsesSingletonParent(t *testing.T) {
	tr := NewTree()
	pushWindow(tr, 1)
	pushWindow(tr, 2)
	// focused is window 2; pop it, leaving a single-tile tree
	tr.Pop()
	if tr.Len() != 1 {
		t.Fatalf("expected collapse to a single tile, got %d nodes", tr.Len())
	}
	if !tr.IsTile(tr.Root()) {
		t.Fatalf("expected root to be the remaining tile")
	}
	w, _ := tr.Window(tr.Root())
	if w.ID != 1 {
		t.Fatalf("expected remaining window to be 1, got %d", w.ID)
	}
	if tr.Size(tr.Root()) != RootSize {
		t.Fatalf("expected remaining tile to reclaim root size, got %d", tr.Size(tr.Root()))
	}
}

func TestPopEmptiesTree(t *testing.T) {
	tr := NewTree()
	pushWindow(tr, 1)
	win, ok := tr.Pop()
	if !ok || win.ID != 1 {
		t.Fatalf("expected to pop window 1")
	}
	if !tr.IsEmpty() {
		t.Fatalf("expected tree to be empty after popping its only tile")
	}
	if tr.Focused() != NoNode {
		t.Fatalf("expected no focus on an empty tree")
	}
}

func TestRemoveByWindowRedistributesEqually(t *testing.T) {
	tr := NewTree()
	pushWindow(tr, 1)
	pushWindow(tr, 2)
	pushWindow(tr, 3)
	tr.RemoveByWindow(2)

	children := tr.Children(tr.Root())
	if len(children) != 2 {
		t.Fatalf("expected 2 remaining children, got %d", len(children))
	}
	for _, c := range children {
		if tr.Size(c) != 60 {
			t.Fatalf("expected equal redistribution to 60 each, got %d", tr.Size(c))
		}
	}
}

func TestToggleFullscreenGeometry(t *testing.T) {
	tr := NewTree()
	pushWindow(tr, 1)
	pushWindow(tr, 2)
	area := Rect{X: 0, Y: 0, Width: 1000, Height: 800}

	geo := tr.Geometry(area, 0, 0)
	if len(geo) != 2 {
		t.Fatalf("expected 2 tile rects, got %d", len(geo))
	}

	tr.ToggleFullscreen()
	geo = tr.Geometry(area, 0, 0)
	if len(geo) != 1 {
		t.Fatalf("expected 1 tile rect in fullscreen, got %d", len(geo))
	}
	r := geo[tr.Focused()]
	if r != area {
		t.Fatalf("expected fullscreen rect to cover working area, got %+v", r)
	}
}

func TestGeometrySplitsWidthEvenly(t *testing.T) {
	tr := NewTree()
	pushWindow(tr, 1)
	pushWindow(tr, 2)
	area := Rect{X: 0, Y: 0, Width: 1000, Height: 500}
	geo := tr.Geometry(area, 0, 0)

	children := tr.Children(tr.Root())
	left := geo[children[0]]
	right := geo[children[1]]

	if left.Width != 500 || right.Width != 500 {
		t.Fatalf("expected an even 500/500 split, got %d/%d", left.Width, right.Width)
	}
	if left.X != 0 || right.X != 500 {
		t.Fatalf("expected left at x=0 and right at x=500, got %d/%d", left.X, right.X)
	}
	if left.Height != 500 || right.Height != 500 {
		t.Fatalf("expected full height on both tiles, got %d/%d", left.Height, right.Height)
	}
}

func TestGeometryAppliesGaps(t *testing.T) {
	tr := NewTree()
	pushWindow(tr, 1)
	pushWindow(tr, 2)
	area := Rect{X: 0, Y: 0, Width: 1000, Height: 500}
	geo := tr.Geometry(area, 10, 4)

	children := tr.Children(tr.Root())
	left := geo[children[0]]
	right := geo[children[1]]

	if left.X != 10 {
		t.Fatalf("expected outer gap to offset left tile, got x=%d", left.X)
	}
	if right.X != left.X+left.Width+4 {
		t.Fatalf("expected inner gap of 4 between tiles, got left=%+v right=%+v", left, right)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tr := NewTree()
	for i := WindowID(1); i <= 4; i++ {
		pushWindow(tr, i)
	}
	tr.SetNextAxis(AxisRow)
	tr.SetNextDirection(Down)
	pushWindow(tr, 5)

	encoded := tr.Encode()
	if encoded == "" {
		t.Fatalf("expected non-empty encoding")
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if got := decoded.Encode(); got != encoded {
		t.Fatalf("round trip mismatch:\n got  %s\n want %s", got, encoded)
	}

	originalWindows := tr.Windows()
	decodedWindows := decoded.Windows()
	if len(originalWindows) != len(decodedWindows) {
		t.Fatalf("expected %d windows after decode, got %d", len(originalWindows), len(decodedWindows))
	}
	for i := range originalWindows {
		if originalWindows[i].ID != decodedWindows[i].ID {
			t.Fatalf("window order mismatch at %d: got %d want %d", i, decodedWindows[i].ID, originalWindows[i].ID)
		}
	}
}

func TestDecodeEmptyString(t *testing.T) {
	tr, err := Decode("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tr.IsEmpty() {
		t.Fatalf("expected empty tree from empty string")
	}
}
