// Package workspace holds the ten per-display TileGrids a process manages
// (spec.md §3) and the pinned-window set that floats above them.
package workspace

import "github.com/1broseidon/tilewm/internal/layout"

// TileGrid is one workspace's tiling tree plus its taskbar-visibility flag.
// The fullscreen flag and focus cursor live on the embedded Tree itself.
type TileGrid struct {
	*layout.Tree
	TaskbarVisible bool
}

// NewTileGrid returns an empty grid with its taskbar shown.
func NewTileGrid() *TileGrid {
	return &TileGrid{Tree: layout.NewTree(), TaskbarVisible: true}
}

// IsEmpty reports whether the grid manages no windows.
func (g *TileGrid) IsEmpty() bool { return g.Tree.IsEmpty() }
