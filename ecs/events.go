package ecs

// Event types pushed by the player systems.
const (
	EventStateChanged = "state_changed"
	EventLadderGrab   = "ladder_grab"
)

// Event is a queued notification. At is the clock of the step that emitted
// it, so fixed-step events keep their physics time when drained per frame.
type Event struct {
	Type string
	At   Clock
	Data any
}

// StateChangedEvent reports a movement-state switch on a player entity.
type StateChangedEvent struct {
	Entity Entity
	From   string
	To     string
}

// LadderGrabEvent reports a player grabbing a ladder volume.
type LadderGrabEvent struct {
	Entity Entity
	Ladder Entity
}

// Emit queues an event stamped with the step currently running.
func (w *World) Emit(typ string, data any) {
	if w == nil {
		return
	}
	w.events.Push(Event{Type: typ, At: w.clock, Data: data})
}

// EventQueue holds one frame of events. The scheduler clears it after the
// frame stage.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q != nil {
		q.items = append(q.items, evt)
	}
}

// Drain hands over the queued events and empties the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Peek returns the queued events without consuming them.
func (q *EventQueue) Peek() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) reset() {
	if q != nil {
		q.items = nil
	}
}
