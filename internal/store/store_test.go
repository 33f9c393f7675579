package store

import (
	"path/filepath"
	"testing"

	"github.com/1broseidon/tilewm/internal/layout"
	"github.com/1broseidon/tilewm/internal/workspace"
)

func TestSaveGridThenLoadRoundTrips(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "workspaces.grid"))

	tree := layout.NewTree()
	tree.Push(&layout.ManagedWindow{ID: 7})
	if err := s.SaveGrid(2, tree); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Grids[2] != tree.Encode() {
		t.Fatalf("got %q, want %q", data.Grids[2], tree.Encode())
	}
	for i, g := range data.Grids {
		if i != 2 && g != "" {
			t.Fatalf("expected workspace %d to still be blank, got %q", i, g)
		}
	}
}

func TestSaveGridPreservesOtherRows(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "workspaces.grid"))

	first := layout.NewTree()
	first.Push(&layout.ManagedWindow{ID: 1})
	if err := s.SaveGrid(0, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := layout.NewTree()
	second.Push(&layout.ManagedWindow{ID: 2})
	if err := s.SaveGrid(5, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Grids[0] != first.Encode() {
		t.Fatalf("workspace 0 was clobbered: got %q", data.Grids[0])
	}
	if data.Grids[5] != second.Encode() {
		t.Fatalf("got %q, want %q", data.Grids[5], second.Encode())
	}
}

func TestSavePinnedRoundTrips(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "workspaces.grid"))

	p := workspace.NewPinnedSet()
	p.Pin(10)
	p.Pin(20)
	p.SetVisible(false)
	if err := s.SavePinned(0, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := data.Pinned[0]
	if line.Visible {
		t.Fatal("expected the global pinned slot to load as invisible")
	}
	if len(line.IDs) != 2 || line.IDs[0] != 10 || line.IDs[1] != 20 {
		t.Fatalf("got %+v", line.IDs)
	}
}

func TestLoadOnMissingFileReturnsBlankData(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does-not-exist.grid"))
	data, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, g := range data.Grids {
		if g != "" {
			t.Fatalf("expected workspace %d blank, got %q", i, g)
		}
	}
	for i, p := range data.Pinned {
		if p.Visible || len(p.IDs) != 0 {
			t.Fatalf("expected pinned slot %d blank, got %+v", i, p)
		}
	}
}

func TestApplyToDecodesGridsOntoSet(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "workspaces.grid"))
	tree := layout.NewTree()
	tree.Push(&layout.ManagedWindow{ID: 99})
	if err := s.SaveGrid(4, tree); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	set := workspace.NewSet()
	pinned := make([]*workspace.PinnedSet, pinnedLines)
	for i := range pinned {
		pinned[i] = workspace.NewPinnedSet()
	}
	if err := data.ApplyTo(set, pinned); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	grid, err := set.Grid(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grid.IsEmpty() {
		t.Fatal("expected workspace 4 to have been restored with a window")
	}
}
