// Package store persists one display's ten tile grids plus its pinned-window
// sets to a single line-oriented file, ported from
// original_source/twm/src/tile_grid/store.rs and
// original_source/twm/src/pinned.rs. The file has lines 0-9 for
// workspace.Count tile grids (layout.Tree.Encode output) and lines 10-20 for
// eleven pinned-window sets: line 10 is the global pinned set, lines 11-20
// are per-workspace.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/1broseidon/tilewm/internal/layout"
	"github.com/1broseidon/tilewm/internal/workspace"
)

const (
	gridLines   = workspace.Count
	pinnedLines = workspace.Count + 1 // one global slot plus one per workspace
	totalLines  = gridLines + pinnedLines

	pinnedVisible   = "v"
	pinnedInvisible = "n"
)

// PinnedLine is one decoded pinned-window row: its visibility flag and the
// window ids it holds, in save order.
type PinnedLine struct {
	Visible bool
	IDs     []layout.WindowID
}

// Data is everything one display's store file holds.
type Data struct {
	Grids  [gridLines]string
	Pinned [pinnedLines]PinnedLine
}

// Store reads and writes one display's workspace file.
type Store struct {
	path string
}

// New returns a Store backed by path.
func New(path string) *Store { return &Store{path: path} }

// DefaultPath returns "<user config dir>/tilewm/workspaces-<display>.grid",
// one file per display, rather than the original's single-display
// `~/.config/nog/workspaces.grid`, since SPEC_FULL.md's multi-display
// model needs one store per display.
func DefaultPath(displayName string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("store: resolving config directory: %w", err)
	}
	safe := strings.NewReplacer("/", "_", ":", "_").Replace(displayName)
	return filepath.Join(dir, "tilewm", fmt.Sprintf("workspaces-%s.grid", safe)), nil
}

func blankLines() []string {
	lines := make([]string, totalLines)
	for i := range lines {
		lines[i] = ""
	}
	return lines
}

func (s *Store) readLines() ([]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return blankLines(), nil
		}
		return nil, fmt.Errorf("store: reading %s: %w", s.path, err)
	}
	lines := strings.Split(string(raw), "\n")
	out := blankLines()
	copy(out, lines) // a shorter-than-expected file leaves trailing lines blank, per store.rs's own tolerance for a truncated pinned section
	return out, nil
}

// writeLines atomically replaces the store file's contents: write to a
// sibling .tmp file, then rename over the target.
func (s *Store) writeLines(lines []string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("store: creating directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("store: writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("store: finalizing %s: %w", s.path, err)
	}
	return nil
}

// writeLine rewrites a single row in place, preserving every other row's
// current content, matching store.rs's write_to_file read-modify-write
// pattern (it never rewrites the whole document's worth of live state at
// once — only the row that changed).
func (s *Store) writeLine(index int, value string) error {
	if index < 0 || index >= totalLines {
		return fmt.Errorf("store: line index %d out of range [0,%d)", index, totalLines)
	}
	lines, err := s.readLines()
	if err != nil {
		return err
	}
	lines[index] = value
	return s.writeLines(lines)
}

// SaveGrid persists workspace index's tile tree.
func (s *Store) SaveGrid(index int, t *layout.Tree) error {
	if index < 0 || index >= gridLines {
		return fmt.Errorf("store: workspace index %d out of range [0,%d)", index, gridLines)
	}
	return s.writeLine(index, t.Encode())
}

// SavePinned persists one pinned-window slot: slot 0 is the global pinned
// set, slots 1..workspace.Count are per-workspace.
func (s *Store) SavePinned(slot int, p *workspace.PinnedSet) error {
	if slot < 0 || slot >= pinnedLines {
		return fmt.Errorf("store: pinned slot %d out of range [0,%d)", slot, pinnedLines)
	}
	vis := pinnedInvisible
	if p.Visible() {
		vis = pinnedVisible
	}
	ids := p.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(int(id))
	}
	line := vis
	if len(parts) > 0 {
		line = vis + "|" + strings.Join(parts, "|")
	}
	return s.writeLine(gridLines+slot, line)
}

// Load reads and parses the entire store file. A missing file, or one
// shorter than the expected pinned section, loads as if every unwritten row
// were blank — matching store.rs's own tolerance for a shorter-than-full
// pinned section on load.
func (s *Store) Load() (*Data, error) {
	lines, err := s.readLines()
	if err != nil {
		return nil, err
	}
	data := &Data{}
	copy(data.Grids[:], lines[:gridLines])
	for i := 0; i < pinnedLines; i++ {
		data.Pinned[i] = parsePinnedLine(lines[gridLines+i])
	}
	return data, nil
}

func parsePinnedLine(line string) PinnedLine {
	if line == "" {
		return PinnedLine{Visible: false}
	}
	parts := strings.Split(line, "|")
	visible := parts[0] == pinnedVisible
	var ids []layout.WindowID
	for _, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		ids = append(ids, layout.WindowID(n))
	}
	return PinnedLine{Visible: visible, IDs: ids}
}

// ApplyTo decodes Data's grid rows into set's ten TileGrids and restores
// pinned's visibility/membership onto the provided PinnedSets (len must be
// store.pinnedLines; callers construct one global + workspace.Count
// per-workspace sets).
func (d *Data) ApplyTo(set *workspace.Set, pinned []*workspace.PinnedSet) error {
	for i := 0; i < gridLines; i++ {
		tree, err := layout.Decode(d.Grids[i])
		if err != nil {
			return fmt.Errorf("store: decoding workspace %d: %w", i, err)
		}
		grid, err := set.Grid(i)
		if err != nil {
			return err
		}
		*grid.Tree = *tree
	}
	for i, line := range d.Pinned {
		if i >= len(pinned) || pinned[i] == nil {
			continue
		}
		pinned[i].SetVisible(line.Visible)
		for _, id := range line.IDs {
			pinned[i].Pin(id)
		}
	}
	return nil
}
