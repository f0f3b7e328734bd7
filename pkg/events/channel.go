package events

// Kind tags an [Event].
type Kind string

const (
	KindSelectionChanged  Kind = "selection_changed"
	KindDataChanged       Kind = "data_changed"
	KindTransitionStarted Kind = "transition_started"
	KindTransitionEnded   Kind = "transition_ended"
	KindError             Kind = "error"
)

// Event is a notification as a value. Exactly one payload field is set,
// matching Kind.
type Event struct {
	Kind       Kind             `json:"kind"`
	Selection  *SelectionChange `json:"selection,omitempty"`
	Data       *DataChange      `json:"data,omitempty"`
	Transition *Transition      `json:"transition,omitempty"`
	Error      *ErrorEvent      `json:"error,omitempty"`
}

// Channel returns a Listener that forwards notifications to the returned
// channel. When the buffer is full, new events are dropped rather than
// blocking the producer.
func Channel(buffer int) (Listener, <-chan Event) {
	ch := make(chan Event, buffer)
	return chanListener(ch), ch
}

type chanListener chan Event

func (c chanListener) send(e Event) {
	select {
	case c <- e:
	default:
	}
}

func (c chanListener) OnSelectionChanged(e SelectionChange) {
	c.send(Event{Kind: KindSelectionChanged, Selection: &e})
}

func (c chanListener) OnDataChanged(e DataChange) {
	c.send(Event{Kind: KindDataChanged, Data: &e})
}

func (c chanListener) OnTransitionStarted(e Transition) {
	c.send(Event{Kind: KindTransitionStarted, Transition: &e})
}

func (c chanListener) OnTransitionEnded(e Transition) {
	c.send(Event{Kind: KindTransitionEnded, Transition: &e})
}

func (c chanListener) OnError(e ErrorEvent) {
	c.send(Event{Kind: KindError, Error: &e})
}
