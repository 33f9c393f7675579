package events

import (
	"testing"
	"time"
)

func TestBusPreservesOrder(t *testing.T) {
	b := NewBus()
	want := []string{"a", "b", "c"}
	for _, name := range want {
		b.Publish(KeyAction{Action: name})
	}

	for _, name := range want {
		select {
		case e := <-b.Events():
			ka, ok := e.(KeyAction)
			if !ok || ka.Action != name {
				t.Fatalf("got %#v, want KeyAction{%q}", e, name)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %q", name)
		}
	}
}

func TestBusDoesNotBlockPublisherOnSlowConsumer(t *testing.T) {
	b := NewBus()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			b.Publish(KeyAction{Action: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publisher blocked on an unconsumed bus")
	}

	for i := 0; i < 1000; i++ {
		<-b.Events()
	}
}

func TestCloseDrainsBufferedEvents(t *testing.T) {
	b := NewBus()
	b.Publish(KeyAction{Action: "one"})
	b.Publish(KeyAction{Action: "two"})
	b.Close()

	var got []string
	for e := range b.Events() {
		got = append(got, e.(KeyAction).Action)
	}
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("got %v, want [one two]", got)
	}
}
