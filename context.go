package transit

import "github.com/google/uuid"

// EventData is the context built once per trigger call and handed to every callback of that call
type EventData struct {
	// ID identifies the trigger call
	ID string
	// State is the state the trigger was fired from, refreshed once the machine changed state
	State *State
	// Event is the triggering event
	Event *Event
	// Machine is the machine the event belongs to
	Machine *Machine
	// Model is the object the machine is bound to
	Model any
	// Args holds the positional arguments of the trigger call
	Args []any
	// Attrs holds the named attributes of the trigger call
	Attrs map[string]any
}

// NewEventData creates event data for a single trigger call
func NewEventData(state *State, event *Event, machine *Machine, model any, args []any, attrs map[string]any) *EventData {
	copied := make(map[string]any, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return &EventData{
		ID:      uuid.New().String(),
		State:   state,
		Event:   event,
		Machine: machine,
		Model:   model,
		Args:    args,
		Attrs:   copied,
	}
}

// Get returns a named attribute of the trigger call
func (e *EventData) Get(key string) (any, bool) {
	value, ok := e.Attrs[key]
	return value, ok
}

// Arg returns the positional argument at index i
func (e *EventData) Arg(i int) (any, bool) {
	if i < 0 || i >= len(e.Args) {
		return nil, false
	}
	return e.Args[i], true
}

// Update refreshes State to the machine's current state
func (e *EventData) Update() {
	e.State = e.Machine.Current()
}
