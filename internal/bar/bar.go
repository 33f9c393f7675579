// Package bar renders the per-display status strip: three ordered sections
// of components, each producing ComponentText pieces on a render tick,
// hit-tested against click events (spec.md §4.5).
package bar

import (
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/tilewm/internal/display"
	"github.com/1broseidon/tilewm/internal/events"
)

// Section identifies one of the bar's three ordered regions.
type Section int

const (
	SectionLeft Section = iota
	SectionCenter
	SectionRight
)

// ComponentText is one piece of rendered text a component produced this
// tick. fg/bg of zero mean "use the bar's configured defaults", matching
// spec.md §4.5's ComponentText shape.
type ComponentText struct {
	Text  string `json:"text"`
	Value string `json:"value"`
	FG    uint32 `json:"fg"`
	BG    uint32 `json:"bg"`
}

// RenderFunc produces a component's text for a given display.
type RenderFunc func(d display.ID) []ComponentText

// ClickFunc handles a click on one of a component's rendered pieces.
// value/index identify which ComponentText in the component's last render
// was hit.
type ClickFunc func(d display.ID, value string, index int)

// Component is a single named bar widget. ID is minted via uuid.New() on
// each NewComponent call, so registering the same widget again (as a reload
// does) yields a different ID. SetComponents does not compare IDs; it
// replaces the list wholesale.
type Component struct {
	ID      string
	Name    string
	Section Section
	Render  RenderFunc
	OnClick ClickFunc
}

// NewComponent registers a component with a fresh stable id.
func NewComponent(name string, section Section, render RenderFunc, onClick ClickFunc) *Component {
	return &Component{
		ID:      uuid.New().String(),
		Name:    name,
		Section: section,
		Render:  render,
		OnClick: onClick,
	}
}

// hitSpan is one ComponentText's resolved pixel range within a render pass,
// used to resolve a click's x-coordinate back to a component/index pair.
type hitSpan struct {
	component *Component
	index     int
	text      ComponentText
	x1, x2    int
}

// Bar owns one display's ordered component list and the last render's hit
// map.
type Bar struct {
	displayID   display.ID
	components  []*Component
	measureText func(string) int // pixel width of a string in the bar's font
	height      int

	hits []hitSpan
}

// New returns a Bar for a single display. measureText is supplied by the
// font/rendering backend; height is the configured strip height in pixels.
func New(d display.ID, height int, measureText func(string) int) *Bar {
	return &Bar{displayID: d, height: height, measureText: measureText}
}

// Height returns the bar's configured strip height.
func (b *Bar) Height() int { return b.height }

// SetComponents replaces the bar's component list wholesale (used after a
// hot reload re-parses the config's bar section).
func (b *Bar) SetComponents(components []*Component) {
	b.components = components
}

// Components returns the bar's current component list.
func (b *Bar) Components() []*Component { return b.components }

// Tick renders every component, lays out each section's pieces
// left-aligned/centered/right-aligned within width, rebuilds the hit map,
// and returns the rendered texts of the left, center and right sections,
// each as a flat []ComponentText.
func (b *Bar) Tick(width int) (left, center, right []ComponentText) {
	var leftSpans, centerSpans, rightSpans []hitSpan

	for _, c := range b.components {
		texts := c.Render(b.displayID)
		for i, t := range texts {
			span := hitSpan{component: c, index: i, text: t}
			switch c.Section {
			case SectionLeft:
				leftSpans = append(leftSpans, span)
			case SectionCenter:
				centerSpans = append(centerSpans, span)
			case SectionRight:
				rightSpans = append(rightSpans, span)
			}
		}
	}

	b.layoutLeft(leftSpans, 0)
	centerWidth := b.totalWidth(centerSpans)
	b.layoutLeft(centerSpans, (width-centerWidth)/2)
	rightWidth := b.totalWidth(rightSpans)
	b.layoutLeft(rightSpans, width-rightWidth)

	b.hits = append(append(append([]hitSpan{}, leftSpans...), centerSpans...), rightSpans...)

	return collectTexts(leftSpans), collectTexts(centerSpans), collectTexts(rightSpans)
}

func collectTexts(spans []hitSpan) []ComponentText {
	out := make([]ComponentText, len(spans))
	for i, s := range spans {
		out[i] = s.text
	}
	return out
}

func (b *Bar) totalWidth(spans []hitSpan) int {
	total := 0
	for _, s := range spans {
		total += b.measureText(s.text.Text)
	}
	return total
}

func (b *Bar) layoutLeft(spans []hitSpan, startX int) {
	x := startX
	for i := range spans {
		w := b.measureText(spans[i].text.Text)
		spans[i].x1 = x
		spans[i].x2 = x + w
		x += w
	}
}

// HitTest resolves a click's x-coordinate to the component/index it landed
// on, publishing nothing itself — callers invoke OnClick or publish
// events.BarClick as they see fit.
func (b *Bar) HitTest(x int) (*Component, ComponentText, bool) {
	for _, h := range b.hits {
		if x >= h.x1 && x < h.x2 {
			return h.component, h.text, true
		}
	}
	return nil, ComponentText{}, false
}

// Dispatch resolves x to a component and, if found, invokes its OnClick and
// publishes a BarClick event for observers (e.g. popup dismissal wiring).
func (b *Bar) Dispatch(bus *events.Bus, button int, x int) {
	c, t, ok := b.HitTest(x)
	if !ok {
		return
	}
	if c.OnClick != nil {
		c.OnClick(b.displayID, t.Value, indexOf(b.hits, c, t))
	}
	bus.Publish(events.BarClick{Display: b.displayID, Component: c.Name, Button: button})
}

func indexOf(hits []hitSpan, c *Component, t ComponentText) int {
	for _, h := range hits {
		if h.component == c && h.text == t {
			return h.index
		}
	}
	return -1
}

// TickInterval is the render cadence spec.md §4.5 specifies (~100ms).
const TickInterval = 100 * time.Millisecond
