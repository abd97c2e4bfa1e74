package event

// Listener consumes events. Handlers run synchronously on the engine's
// goroutine; anything slow belongs behind its own queue (see journal).
type Listener interface {
	Handle(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

func (f ListenerFunc) Handle(e Event) { f(e) }

type subscription struct {
	l     Listener
	kinds map[Kind]bool // nil means all kinds
}

// Bus delivers events to listeners in subscription order. Delivery is
// synchronous: Publish returns only after every listener has seen the
// event, which preserves the run's chronological guarantee. Bus is not
// safe for concurrent use; each engine owns exactly one.
type Bus struct {
	subs []subscription
}

func NewBus() *Bus { return &Bus{} }

// Subscribe registers a listener for the given kinds, or for every kind
// when none are named. Listeners receive events in the order they
// subscribed.
func (b *Bus) Subscribe(l Listener, kinds ...Kind) {
	s := subscription{l: l}
	if len(kinds) > 0 {
		s.kinds = make(map[Kind]bool, len(kinds))
		for _, k := range kinds {
			s.kinds[k] = true
		}
	}
	b.subs = append(b.subs, s)
}

// Publish delivers e to every matching listener, in order.
func (b *Bus) Publish(e Event) {
	for _, s := range b.subs {
		if s.kinds == nil || s.kinds[e.Kind()] {
			s.l.Handle(e)
		}
	}
}
