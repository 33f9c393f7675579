package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Encode renders the tree as a single-line, recursive token format:
//
//	T<order>,<size>,<windowID>
//	C<order>,<size>,<childCount>(<child><child>...)
//	R<order>,<size>,<childCount>(<child><child>...)
//
// Window titles are never encoded (spec.md §9): only the numeric window id
// and the tree shape survive a save/load cycle. An empty tree encodes to
// the empty string.
func (t *Tree) Encode() string {
	if t.root == NoNode {
		return ""
	}
	var b strings.Builder
	t.encodeNode(t.root, &b)
	return b.String()
}

func (t *Tree) encodeNode(id NodeID, b *strings.Builder) {
	n := t.nodes[id]
	if n.kind == kindTile {
		fmt.Fprintf(b, "T%d,%d,%d", n.order, n.size, uint32(n.window.ID))
		return
	}
	tag := "C"
	if n.kind == kindRow {
		tag = "R"
	}
	children := t.sortedChildren(n)
	fmt.Fprintf(b, "%s%d,%d,%d(", tag, n.order, n.size, len(children))
	for _, c := range children {
		t.encodeNode(c, b)
	}
	b.WriteString(")")
}

// Decode parses a string produced by Encode back into a fresh Tree. The
// first Tile encountered in pre-order is focused. An empty string decodes
// to an empty tree.
func Decode(s string) (*Tree, error) {
	t := NewTree()
	if s == "" {
		return t, nil
	}
	p := &decoder{s: s}
	id, err := t.decodeNode(p, NoNode)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.s) {
		return nil, fmt.Errorf("layout: trailing data at offset %d", p.pos)
	}
	t.root = id
	t.nodes[id].parent = NoNode
	windows := t.Windows()
	if len(windows) > 0 {
		focusID, _ := t.FindByWindow(windows[0].ID)
		t.focused = focusID
	}
	return t, nil
}

type decoder struct {
	s   string
	pos int
}

func (p *decoder) peek() (byte, bool) {
	if p.pos >= len(p.s) {
		return 0, false
	}
	return p.s[p.pos], true
}

func (p *decoder) readByte() (byte, error) {
	b, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("layout: unexpected end of input")
	}
	p.pos++
	return b, nil
}

func (p *decoder) expect(b byte) error {
	got, err := p.readByte()
	if err != nil {
		return err
	}
	if got != b {
		return fmt.Errorf("layout: expected %q at offset %d, got %q", b, p.pos-1, got)
	}
	return nil
}

func (p *decoder) readUint() (uint64, error) {
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, fmt.Errorf("layout: expected digits at offset %d", start)
	}
	return strconv.ParseUint(p.s[start:p.pos], 10, 64)
}

// decodeNode parses one node and attaches it to parent (NoNode for root).
func (t *Tree) decodeNode(p *decoder, parent NodeID) (NodeID, error) {
	tag, err := p.readByte()
	if err != nil {
		return NoNode, err
	}

	order, err := p.readUint()
	if err != nil {
		return NoNode, err
	}
	if err := p.expect(','); err != nil {
		return NoNode, err
	}
	size, err := p.readUint()
	if err != nil {
		return NoNode, err
	}
	if err := p.expect(','); err != nil {
		return NoNode, err
	}

	id := t.alloc()

	switch tag {
	case 'T':
		windowID, err := p.readUint()
		if err != nil {
			return NoNode, err
		}
		t.nodes[id] = &node{
			kind:   kindTile,
			order:  uint32(order),
			size:   uint32(size),
			parent: parent,
			window: &ManagedWindow{ID: WindowID(windowID)},
		}
		return id, nil
	case 'C', 'R':
		count, err := p.readUint()
		if err != nil {
			return NoNode, err
		}
		k := kindColumn
		if tag == 'R' {
			k = kindRow
		}
		n := &node{kind: k, order: uint32(order), size: uint32(size), parent: parent}
		t.nodes[id] = n
		if err := p.expect('('); err != nil {
			return NoNode, err
		}
		for i := uint64(0); i < count; i++ {
			childID, err := t.decodeNode(p, id)
			if err != nil {
				return NoNode, err
			}
			n.children = append(n.children, childID)
		}
		if err := p.expect(')'); err != nil {
			return NoNode, err
		}
		return id, nil
	default:
		return NoNode, fmt.Errorf("layout: unknown node tag %q at offset %d", tag, p.pos-1)
	}
}
