package workspace

import "fmt"

// Count is the fixed number of workspaces every WorkspaceSet manages
// (spec.md §3: ten per process).
const Count = 10

// Set is the ten TileGrids owned by one display, plus which one is active.
type Set struct {
	grids  [Count]*TileGrid
	active int
}

// NewSet returns a Set with ten empty grids, the first one active.
func NewSet() *Set {
	s := &Set{}
	for i := range s.grids {
		s.grids[i] = NewTileGrid()
	}
	return s
}

// Active returns the currently active grid.
func (s *Set) Active() *TileGrid { return s.grids[s.active] }

// ActiveIndex returns the active grid's index (0-based).
func (s *Set) ActiveIndex() int { return s.active }

// Grid returns the grid at index (0-based), or an error if out of range.
func (s *Set) Grid(index int) (*TileGrid, error) {
	if index < 0 || index >= Count {
		return nil, fmt.Errorf("workspace: index %d out of range [0,%d)", index, Count)
	}
	return s.grids[index], nil
}

// SwitchTo makes the grid at index active, returning the grid that was
// active before the switch (so callers can hide its windows).
func (s *Set) SwitchTo(index int) (previous *TileGrid, err error) {
	if index < 0 || index >= Count {
		return nil, fmt.Errorf("workspace: index %d out of range [0,%d)", index, Count)
	}
	previous = s.grids[s.active]
	s.active = index
	return previous, nil
}

// All returns every grid, in workspace order.
func (s *Set) All() []*TileGrid {
	out := make([]*TileGrid, Count)
	copy(out, s.grids[:])
	return out
}
