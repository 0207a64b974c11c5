package transit

import "fmt"

// Action is a callback run before or after a transition, or on entering or exiting a state
type Action func(e *EventData) error

// Guard is a condition that must hold for a transition to be taken
type Guard func(e *EventData) (bool, error)

// CallbackKind selects the callback list a registration appends to
type CallbackKind int

const (
	// CallbackEnter runs when a state is entered
	CallbackEnter CallbackKind = iota
	// CallbackExit runs when a state is exited
	CallbackExit
	// CallbackBefore runs before a transition leaves its source
	CallbackBefore
	// CallbackAfter runs after a transition entered its destination
	CallbackAfter
)

func (k CallbackKind) String() string {
	switch k {
	case CallbackEnter:
		return "enter"
	case CallbackExit:
		return "exit"
	case CallbackBefore:
		return "before"
	case CallbackAfter:
		return "after"
	default:
		return fmt.Sprintf("CallbackKind(%d)", int(k))
	}
}

// State is a named node of the machine holding ordered enter and exit callbacks
type State struct {
	name    string
	onEnter []Action
	onExit  []Action
}

// StateOption configures a State during construction
type StateOption func(*State)

// WithOnEnter appends enter callbacks
func WithOnEnter(actions ...Action) StateOption {
	return func(s *State) {
		s.onEnter = appendActions(s.onEnter, actions)
	}
}

// WithOnExit appends exit callbacks
func WithOnExit(actions ...Action) StateOption {
	return func(s *State) {
		s.onExit = appendActions(s.onExit, actions)
	}
}

// NewState creates a new state
func NewState(name string, opts ...StateOption) *State {
	s := &State{name: name}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the state name
func (s *State) Name() string {
	return s.name
}

// Enter runs the enter callbacks in order, stopping at the first error
func (s *State) Enter(e *EventData) error {
	return runActions(s.onEnter, e)
}

// Exit runs the exit callbacks in order, stopping at the first error
func (s *State) Exit(e *EventData) error {
	return runActions(s.onExit, e)
}

// AddCallback appends an enter or exit callback
func (s *State) AddCallback(kind CallbackKind, action Action) error {
	if action == nil {
		return NewInvalidCallbackError(kind.String(), fmt.Sprintf("nil callback for state '%s'", s.name))
	}
	switch kind {
	case CallbackEnter:
		s.onEnter = append(s.onEnter, action)
	case CallbackExit:
		s.onExit = append(s.onExit, action)
	default:
		return NewInvalidCallbackError(kind.String(), "states accept only enter and exit callbacks")
	}
	return nil
}

func (s *State) String() string {
	return s.name
}

func runActions(actions []Action, e *EventData) error {
	for _, action := range actions {
		if err := action(e); err != nil {
			return err
		}
	}
	return nil
}

// appendActions skips nil entries
func appendActions(dst, actions []Action) []Action {
	for _, a := range actions {
		if a != nil {
			dst = append(dst, a)
		}
	}
	return dst
}
