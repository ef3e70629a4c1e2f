package service

// EventType names a kind of event emitted by the refresh cycle.
type EventType string

const (
	// EventRefreshCompleted fires after every refresh; payload is the
	// per-differ diff map.
	EventRefreshCompleted EventType = "refresh_completed"
	// EventValueChanged fires once per differ that reported a change;
	// payload is the differ name.
	EventValueChanged EventType = "value_changed"
)

// Event is what subscribers receive.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventBus fans events out to subscribers. Publish never blocks: a
// subscriber whose channel is full misses the event.
type EventBus struct {
	subscribers []chan<- Event
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe adds a channel to receive future events. Not safe to call
// concurrently with Publish; subscribe everything during startup.
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish delivers the event to every subscriber that can take it.
func (eb *EventBus) Publish(event Event) {
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip.
		}
	}
}
