package bar

import (
	"testing"

	"github.com/1broseidon/tilewm/internal/display"
	"github.com/1broseidon/tilewm/internal/events"
)

func fixedWidth(s string) int { return len(s) * 10 }

func TestTickAlignsSectionsAndBuildsHitMap(t *testing.T) {
	b := New(display.ID(0), 24, fixedWidth)

	left := NewComponent("clock", SectionLeft, func(display.ID) []ComponentText {
		return []ComponentText{{Text: "12:00", Value: "12:00"}}
	}, nil)
	right := NewComponent("battery", SectionRight, func(display.ID) []ComponentText {
		return []ComponentText{{Text: "99%", Value: "99"}}
	}, nil)
	b.SetComponents([]*Component{left, right})

	gotLeft, _, gotRight := b.Tick(200)
	if len(gotLeft) != 1 || gotLeft[0].Text != "12:00" {
		t.Fatalf("got left %#v", gotLeft)
	}
	if len(gotRight) != 1 || gotRight[0].Text != "99%" {
		t.Fatalf("got right %#v", gotRight)
	}

	c, txt, ok := b.HitTest(10)
	if !ok || c.Name != "clock" || txt.Text != "12:00" {
		t.Fatalf("expected the clock component at x=10, got %#v %#v %v", c, txt, ok)
	}

	rightWidth := fixedWidth("99%")
	c, txt, ok = b.HitTest(200 - rightWidth + 1)
	if !ok || c.Name != "battery" {
		t.Fatalf("expected the battery component near the right edge, got %#v", c)
	}
}

func TestComponentsGetDistinctUUIDsPerRegistration(t *testing.T) {
	render := func(display.ID) []ComponentText { return nil }
	a := NewComponent("workspace", SectionCenter, render, nil)
	reloaded := NewComponent("workspace", SectionCenter, render, nil)
	if a.ID == reloaded.ID {
		t.Fatalf("expected each registration to mint a distinct id")
	}
	if a.ID == "" || reloaded.ID == "" {
		t.Fatalf("expected non-empty component ids")
	}
}

func TestDispatchPublishesBarClick(t *testing.T) {
	b := New(display.ID(2), 24, fixedWidth)
	clicked := false
	c := NewComponent("clock", SectionLeft, func(display.ID) []ComponentText {
		return []ComponentText{{Text: "12:00"}}
	}, func(d display.ID, value string, index int) {
		clicked = true
	})
	b.SetComponents([]*Component{c})
	b.Tick(100)

	bus := events.NewBus()
	defer bus.Close()
	b.Dispatch(bus, 1, 5)

	if !clicked {
		t.Fatalf("expected OnClick to fire")
	}
	select {
	case e := <-bus.Events():
		bc, ok := e.(events.BarClick)
		if !ok || bc.Component != "clock" || bc.Display != display.ID(2) {
			t.Fatalf("got %#v", e)
		}
	default:
		t.Fatalf("expected a BarClick event to be published")
	}
}
