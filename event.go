package transit

// Event is a named trigger owning, per source state, the ordered candidate transitions
type Event struct {
	name        string
	machine     *Machine
	transitions map[string][]*Transition
	sources     []string
	before      []Action
	after       []Action
}

func newEvent(name string, machine *Machine) *Event {
	return &Event{
		name:        name,
		machine:     machine,
		transitions: make(map[string][]*Transition),
	}
}

// Name returns the trigger name
func (ev *Event) Name() string {
	return ev.name
}

// AddTransition files a transition under its source state, after the ones already filed
func (ev *Event) AddTransition(t *Transition) {
	if _, ok := ev.transitions[t.source]; !ok {
		ev.sources = append(ev.sources, t.source)
	}
	ev.transitions[t.source] = append(ev.transitions[t.source], t)
}

// Transitions returns the candidate transitions filed under a source state
func (ev *Event) Transitions(source string) []*Transition {
	filed := ev.transitions[source]
	result := make([]*Transition, len(filed))
	copy(result, filed)
	return result
}

// Sources returns the source states with filed transitions, in filing order
func (ev *Event) Sources() []string {
	result := make([]string, len(ev.sources))
	copy(result, ev.sources)
	return result
}

// Trigger tries the transitions filed under the current state in order and stops at
// the first one taken. It returns false without error when every guard rejected.
func (ev *Event) Trigger(args []any, attrs map[string]any) (bool, error) {
	current := ev.machine.Current()
	candidates, ok := ev.transitions[current.Name()]
	if !ok {
		err := NewInvalidTriggerError(ev.name, current.Name())
		ev.machine.observers.NotifyTriggerRejected(ev.name, current.Name(), err)
		return false, err
	}

	e := NewEventData(current, ev, ev.machine, ev.machine.model, args, attrs)
	for _, t := range candidates {
		taken, err := t.execute(e, ev.before, ev.after)
		if err != nil {
			return false, err
		}
		if taken {
			return true, nil
		}
	}
	return false, nil
}

// AddCallback appends a before or after callback to the event. It runs for
// whichever transition the event takes, after that transition's own callbacks
// of the same kind, including transitions filed later.
func (ev *Event) AddCallback(kind CallbackKind, action Action) error {
	if action == nil {
		return NewInvalidCallbackError(kind.String(), "nil callback for event '"+ev.name+"'")
	}
	switch kind {
	case CallbackBefore:
		ev.before = append(ev.before, action)
	case CallbackAfter:
		ev.after = append(ev.after, action)
	default:
		return NewInvalidCallbackError(kind.String(), "events accept only before and after callbacks")
	}
	return nil
}
