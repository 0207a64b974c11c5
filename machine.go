package transit

import (
	"errors"
	"fmt"
	"strings"
)

// Wildcard as the only source of a TransitionDef expands to every registered state
const Wildcard = "*"

// TriggerFunc fires a bound trigger and reports whether a transition was taken
type TriggerFunc func(args ...any) (bool, error)

// Machine holds the registered states and events, the current state and the bound model.
//
// A Machine is not safe for concurrent use. Callbacks may fire triggers on the
// machine that is running them; such nested calls observe whatever state the
// outer transition has reached.
type Machine struct {
	model     any
	states    map[string]*State
	order     []string
	events    map[string]*Event
	triggers  []string
	current   *State
	sendEvent bool
	observers *ObserverManager
	resolver  *MethodResolver
}

// New creates a machine. States are registered first, then the initial state is
// set, then transitions are added.
func New(opts ...Option) (*Machine, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	m := &Machine{
		states:    make(map[string]*State),
		events:    make(map[string]*Event),
		sendEvent: cfg.sendEvent,
		observers: NewObserverManager(),
	}
	m.model = cfg.model
	if m.model == nil {
		m.model = m
	}
	for _, observer := range cfg.observers {
		m.observers.AddObserver(observer)
	}

	for _, s := range cfg.states {
		if err := m.AddState(s); err != nil {
			return nil, err
		}
	}

	switch {
	case cfg.initialState != nil:
		if registered, ok := m.states[cfg.initialState.Name()]; !ok {
			if err := m.AddState(cfg.initialState); err != nil {
				return nil, err
			}
		} else if registered != cfg.initialState {
			return nil, NewDuplicateStateError(cfg.initialState.Name())
		}
		if err := m.SetCurrentState(cfg.initialState); err != nil {
			return nil, err
		}
	case cfg.initial != "":
		if err := m.SetState(cfg.initial); err != nil {
			return nil, err
		}
	default:
		return nil, NewConfigurationError("Machine", "no initial state defined")
	}

	for i, def := range cfg.transitions {
		if err := m.AddTransition(def); err != nil {
			return nil, fmt.Errorf("failed to add transition[%d] %q: %w", i, def.Trigger, err)
		}
	}

	return m, nil
}

// MustNew works like New but panics on error
func MustNew(opts ...Option) *Machine {
	m, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// Model returns the bound model
func (m *Machine) Model() any {
	return m.model
}

// SendEvent reports whether model-bound callbacks receive the full event data
func (m *Machine) SendEvent() bool {
	return m.sendEvent
}

// AddState registers a state
func (m *Machine) AddState(s *State) error {
	if s == nil || s.Name() == "" {
		return NewConfigurationError("Machine", "state must have a name")
	}
	if _, exists := m.states[s.Name()]; exists {
		return NewDuplicateStateError(s.Name())
	}
	m.states[s.Name()] = s
	m.order = append(m.order, s.Name())
	return nil
}

// AddStates registers plain states by name
func (m *Machine) AddStates(names ...string) error {
	for _, name := range names {
		if err := m.AddState(NewState(name)); err != nil {
			return err
		}
	}
	return nil
}

// States returns the registered state names in registration order
func (m *Machine) States() []string {
	result := make([]string, len(m.order))
	copy(result, m.order)
	return result
}

// Triggers returns the registered trigger names in registration order
func (m *Machine) Triggers() []string {
	result := make([]string, len(m.triggers))
	copy(result, m.triggers)
	return result
}

// Current returns the current state
func (m *Machine) Current() *State {
	return m.current
}

// State returns the current state name
func (m *Machine) State() string {
	return m.current.Name()
}

// IsState checks whether the current state has the given name
func (m *Machine) IsState(name string) bool {
	return m.current.Name() == name
}

// GetState returns the registered state with the given name
func (m *Machine) GetState(name string) (*State, error) {
	s, ok := m.states[name]
	if !ok {
		return nil, NewUnregisteredStateError(name)
	}
	return s, nil
}

// SetState makes the named state current and mirrors its name onto the model
func (m *Machine) SetState(name string) error {
	s, err := m.GetState(name)
	if err != nil {
		return err
	}
	m.setCurrent(s)
	return nil
}

// SetCurrentState makes a registered state instance current
func (m *Machine) SetCurrentState(s *State) error {
	if s == nil {
		return NewConfigurationError("Machine", "current state cannot be nil")
	}
	if registered, ok := m.states[s.Name()]; !ok || registered != s {
		return NewUnregisteredStateError(s.Name())
	}
	m.setCurrent(s)
	return nil
}

func (m *Machine) setCurrent(s *State) {
	m.current = s
	if model, ok := m.model.(Stateful); ok {
		model.SetState(s.Name())
	}
}

// Event returns the event registered under a trigger name
func (m *Machine) Event(trigger string) (*Event, error) {
	ev, ok := m.events[trigger]
	if !ok {
		return nil, NewUnregisteredEventError(trigger)
	}
	return ev, nil
}

// AddTransition creates one transition per resolved source and files them under
// the trigger's event, creating the event on first use.
func (m *Machine) AddTransition(def TransitionDef) error {
	if def.Trigger == "" {
		return NewConfigurationError("Transition", "trigger name cannot be empty")
	}
	if _, err := m.GetState(def.Dest); err != nil {
		return err
	}

	sources := def.Source
	if len(sources) == 1 && sources[0] == Wildcard {
		sources = m.States()
	}
	if len(sources) == 0 {
		return NewConfigurationError("Transition", fmt.Sprintf("trigger '%s' has no source state", def.Trigger))
	}
	for _, source := range sources {
		if _, err := m.GetState(source); err != nil {
			return err
		}
	}

	ev, ok := m.events[def.Trigger]
	if !ok {
		ev = newEvent(def.Trigger, m)
		m.events[def.Trigger] = ev
		m.triggers = append(m.triggers, def.Trigger)
	}

	for _, source := range sources {
		ev.AddTransition(NewTransition(source, def.Dest,
			WithConditions(def.Conditions...),
			WithBefore(def.Before...),
			WithAfter(def.After...),
		))
	}
	return nil
}

// Trigger fires the named trigger with positional arguments
func (m *Machine) Trigger(trigger string, args ...any) (bool, error) {
	return m.TriggerWithAttrs(trigger, nil, args...)
}

// TriggerWithAttrs fires the named trigger with named attributes and positional arguments
func (m *Machine) TriggerWithAttrs(trigger string, attrs map[string]any, args ...any) (bool, error) {
	ev, err := m.Event(trigger)
	if err != nil {
		return false, err
	}
	return ev.Trigger(args, attrs)
}

// TriggerFunc returns a callable bound to the named trigger
func (m *Machine) TriggerFunc(trigger string) (TriggerFunc, error) {
	ev, err := m.Event(trigger)
	if err != nil {
		return nil, err
	}
	return func(args ...any) (bool, error) {
		return ev.Trigger(args, nil)
	}, nil
}

// Predicate returns a check reporting whether the named state is current
func (m *Machine) Predicate(state string) (func() bool, error) {
	if _, err := m.GetState(state); err != nil {
		return nil, err
	}
	return func() bool {
		return m.IsState(state)
	}, nil
}

// OnEnter appends an enter callback to a state
func (m *Machine) OnEnter(state string, action Action) error {
	s, err := m.GetState(state)
	if err != nil {
		return err
	}
	return s.AddCallback(CallbackEnter, action)
}

// OnExit appends an exit callback to a state
func (m *Machine) OnExit(state string, action Action) error {
	s, err := m.GetState(state)
	if err != nil {
		return err
	}
	return s.AddCallback(CallbackExit, action)
}

// Before appends a before callback to a trigger's event
func (m *Machine) Before(trigger string, action Action) error {
	ev, err := m.Event(trigger)
	if err != nil {
		return err
	}
	return ev.AddCallback(CallbackBefore, action)
}

// After appends an after callback to a trigger's event
func (m *Machine) After(trigger string, action Action) error {
	ev, err := m.Event(trigger)
	if err != nil {
		return err
	}
	return ev.AddCallback(CallbackAfter, action)
}

// Register resolves a conventional callback name (before_<trigger>, after_<trigger>,
// on_enter_<state>, on_exit_<state>) into a function registering callbacks there.
func (m *Machine) Register(name string) (func(Action) error, error) {
	for _, prefix := range []struct {
		prefix string
		kind   CallbackKind
	}{
		{"before_", CallbackBefore},
		{"after_", CallbackAfter},
		{"on_enter_", CallbackEnter},
		{"on_exit_", CallbackExit},
	} {
		target, ok := strings.CutPrefix(name, prefix.prefix)
		if !ok {
			continue
		}
		kind := prefix.kind
		if kind == CallbackBefore || kind == CallbackAfter {
			ev, err := m.Event(target)
			if err != nil {
				return nil, err
			}
			return func(action Action) error {
				return ev.AddCallback(kind, action)
			}, nil
		}
		s, err := m.GetState(target)
		if err != nil {
			return nil, err
		}
		return func(action Action) error {
			return s.AddCallback(kind, action)
		}, nil
	}
	return nil, NewConfigurationError("Machine", fmt.Sprintf("'%s' does not name a callback registration", name))
}

// Action resolves a callback identifier against the bound model. A name the
// model does not implement falls back to the registered trigger of that name.
func (m *Machine) Action(name string) (Action, error) {
	action, err := m.methods().Action(name)
	if !errors.Is(err, ErrCallbackNotFound) {
		return action, err
	}
	ev, ok := m.events[name]
	if !ok {
		return nil, err
	}
	return func(e *EventData) error {
		_, err := m.fire(ev, e)
		return err
	}, nil
}

// Guard resolves a condition identifier against the bound model. A name the
// model does not implement falls back to is_<state> predicates, then to the
// registered trigger of that name, which passes when it took a transition.
func (m *Machine) Guard(name string) (Guard, error) {
	guard, err := m.methods().Guard(name)
	if !errors.Is(err, ErrCallbackNotFound) {
		return guard, err
	}
	if state, ok := strings.CutPrefix(name, "is_"); ok {
		if is, perr := m.Predicate(state); perr == nil {
			return func(*EventData) (bool, error) {
				return is(), nil
			}, nil
		}
	}
	ev, ok := m.events[name]
	if !ok {
		return nil, err
	}
	return func(e *EventData) (bool, error) {
		return m.fire(ev, e)
	}, nil
}

// fire triggers ev from inside a callback, forwarding the outer call's arguments
// or, with send_event, the outer event data
func (m *Machine) fire(ev *Event, e *EventData) (bool, error) {
	if m.sendEvent {
		return ev.Trigger([]any{e}, nil)
	}
	return ev.Trigger(e.Args, e.Attrs)
}

func (m *Machine) methods() *MethodResolver {
	if m.resolver == nil {
		m.resolver = NewMethodResolver(m.model, m.sendEvent)
	}
	return m.resolver
}

// AddObserver adds an observer to the machine
func (m *Machine) AddObserver(observer Observer) {
	m.observers.AddObserver(observer)
}

// RemoveObserver removes an observer from the machine
func (m *Machine) RemoveObserver(observer Observer) {
	m.observers.RemoveObserver(observer)
}
