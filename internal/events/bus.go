package events

// Bus is the multi-producer/single-consumer channel every event source
// publishes onto, and the orchestrator's Run loop drains. Unbounded via a
// growable internal queue so a burst of X events (e.g. a workspace full of
// windows closing at once) never blocks a producer goroutine on the
// consumer keeping up (spec.md §4.4/§5).
type Bus struct {
	in  chan Event
	out chan Event
	buf []Event
}

// NewBus starts the bus's buffering goroutine and returns it ready to use.
func NewBus() *Bus {
	b := &Bus{
		in:  make(chan Event),
		out: make(chan Event),
	}
	go b.pump()
	return b
}

// Publish sends an event onto the bus. Safe to call from any goroutine.
func (b *Bus) Publish(e Event) { b.in <- e }

// Events returns the channel the orchestrator should range over.
func (b *Bus) Events() <-chan Event { return b.out }

// Close stops accepting new events and drains any already queued.
func (b *Bus) Close() { close(b.in) }

// pump implements the unbounded-queue pattern: it never blocks a Publish
// call on a slow consumer, buffering internally instead.
func (b *Bus) pump() {
	defer close(b.out)
	for {
		if len(b.buf) == 0 {
			e, ok := <-b.in
			if !ok {
				return
			}
			b.buf = append(b.buf, e)
			continue
		}

		select {
		case e, ok := <-b.in:
			if !ok {
				b.drain()
				return
			}
			b.buf = append(b.buf, e)
		case b.out <- b.buf[0]:
			b.buf = b.buf[1:]
		}
	}
}

func (b *Bus) drain() {
	for _, e := range b.buf {
		b.out <- e
	}
}
