package bounce

const (
	INTERSECTION_ENTER EventType = iota
	INTERSECTION_STAY
	INTERSECTION_EXIT
)

type EventType uint8

func (t EventType) String() string {
	switch t {
	case INTERSECTION_ENTER:
		return "enter"
	case INTERSECTION_STAY:
		return "stay"
	case INTERSECTION_EXIT:
		return "exit"
	}
	return "unknown"
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// IntersectionEnterEvent is sent on the first tick two shapes intersect
type IntersectionEnterEvent struct {
	A, B int
}

func (e IntersectionEnterEvent) Type() EventType { return INTERSECTION_ENTER }

// IntersectionStayEvent is sent on every following tick the shapes still intersect
type IntersectionStayEvent struct {
	A, B int
}

func (e IntersectionStayEvent) Type() EventType { return INTERSECTION_STAY }

// IntersectionExitEvent is sent on the first tick two shapes stopped intersecting
type IntersectionExitEvent struct {
	A, B int
}

func (e IntersectionExitEvent) Type() EventType { return INTERSECTION_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events tracks the intersecting pairs from one tick to the next
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	previousActivePairs map[Pair]bool
	currentActivePairs  map[Pair]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[Pair]bool),
		currentActivePairs:  make(map[Pair]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// Active reports whether the pair was intersecting on the last flushed tick
func (e *Events) Active(i, j int) bool {
	return e.previousActivePairs[makePair(i, j)]
}

// recordResult marks the confirmed pairs of a tick as active.
// A truncated pass did not test every pair: the pairs active on the previous tick are kept,
// so an incomplete tick never ends an intersection.
func (e *Events) recordResult(result *Result) {
	for _, pair := range result.Pairs {
		e.currentActivePairs[pair] = true
	}

	if result.Truncated {
		for pair := range e.previousActivePairs {
			e.currentActivePairs[pair] = true
		}
	}
}

// processIntersectionEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processIntersectionEvents() {
	for pair := range e.currentActivePairs {
		if e.previousActivePairs[pair] {
			e.buffer = append(e.buffer, IntersectionStayEvent{A: pair.A, B: pair.B})
		} else {
			e.buffer = append(e.buffer, IntersectionEnterEvent{A: pair.A, B: pair.B})
		}
	}

	for pair := range e.previousActivePairs {
		if !e.currentActivePairs[pair] {
			e.buffer = append(e.buffer, IntersectionExitEvent{A: pair.A, B: pair.B})
		}
	}

	// Swap for next frame and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// forget drops the pairs of a removed shape and shifts the indices above it
func (e *Events) forget(index int) {
	clear(e.currentActivePairs)
	for pair := range e.previousActivePairs {
		if pair.A == index || pair.B == index {
			continue
		}
		e.currentActivePairs[makePair(shift(pair.A, index), shift(pair.B, index))] = true
	}
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

func shift(i, removed int) int {
	if i > removed {
		return i - 1
	}
	return i
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processIntersectionEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
