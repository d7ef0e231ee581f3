package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher for in-process broadcasting.
// Subscribers run on the dispatcher's goroutines, never on the control loop.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// Usage: bus.Publish(GestureEvent{...})
func (b *Bus) Publish(ev Event) {
	// The generic Publish needs the concrete type, hence the switch.
	switch e := ev.(type) {
	case GestureEvent:
		event.Publish(b.dispatcher, e)
	case CardEvent:
		event.Publish(b.dispatcher, e)
	case StateChangedEvent:
		event.Publish(b.dispatcher, e)
	case PlaybackFinishedEvent:
		event.Publish(b.dispatcher, e)
	case BatteryEvent:
		event.Publish(b.dispatcher, e)
	case VolumeChangedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function.
// The handler's parameter type determines which events it receives.
// Returns an unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e GestureEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(GestureEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CardEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(StateChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PlaybackFinishedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(BatteryEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(VolumeChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		// Unknown handler type, nothing to unsubscribe
		return func() {}
	}
}
