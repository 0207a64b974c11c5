package transit

import "fmt"

// Transition is a directed edge between two states with guards and before/after callbacks
type Transition struct {
	source     string
	dest       string
	conditions []Guard
	before     []Action
	after      []Action
}

// TransitionOption configures a Transition during construction
type TransitionOption func(*Transition)

// WithConditions appends guard conditions; all must pass for the transition to be taken
func WithConditions(guards ...Guard) TransitionOption {
	return func(t *Transition) {
		for _, g := range guards {
			if g != nil {
				t.conditions = append(t.conditions, g)
			}
		}
	}
}

// WithBefore appends callbacks run before the source state is exited
func WithBefore(actions ...Action) TransitionOption {
	return func(t *Transition) {
		t.before = appendActions(t.before, actions)
	}
}

// WithAfter appends callbacks run after the destination state is entered
func WithAfter(actions ...Action) TransitionOption {
	return func(t *Transition) {
		t.after = appendActions(t.after, actions)
	}
}

// NewTransition creates a new transition
func NewTransition(source, dest string, opts ...TransitionOption) *Transition {
	t := &Transition{
		source: source,
		dest:   dest,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Source returns the source state name
func (t *Transition) Source() string {
	return t.source
}

// Dest returns the destination state name
func (t *Transition) Dest() string {
	return t.dest
}

// Execute runs the transition against the event data.
//
// It reports false when a guard rejects the transition, in which case nothing
// else has run. Any callback error is returned unmodified; when it happens after
// the source state was exited the machine is left where the failure stopped it.
func (t *Transition) Execute(e *EventData) (bool, error) {
	return t.execute(e, nil, nil)
}

// execute runs the transition with the owning event's before and after callbacks
// appended to its own
func (t *Transition) execute(e *EventData, before, after []Action) (bool, error) {
	machine := e.Machine

	for _, guard := range t.conditions {
		ok, err := guard(e)
		if err != nil {
			machine.observers.NotifyError(err, e)
			return false, err
		}
		machine.observers.NotifyGuardEvaluation(t, ok, e)
		if !ok {
			return false, nil
		}
	}

	if err := t.run(runActions(t.before, e), e); err != nil {
		return false, err
	}
	if err := t.run(runActions(before, e), e); err != nil {
		return false, err
	}

	source, err := machine.GetState(t.source)
	if err != nil {
		return false, err
	}
	if err := t.run(source.Exit(e), e); err != nil {
		return false, err
	}
	machine.observers.NotifyStateExit(source.Name(), e)

	if err := machine.SetState(t.dest); err != nil {
		return false, err
	}
	e.Update()

	dest, err := machine.GetState(t.dest)
	if err != nil {
		return false, err
	}
	if err := t.run(dest.Enter(e), e); err != nil {
		return false, err
	}
	machine.observers.NotifyStateEnter(dest.Name(), e)

	if err := t.run(runActions(t.after, e), e); err != nil {
		return false, err
	}
	if err := t.run(runActions(after, e), e); err != nil {
		return false, err
	}

	machine.observers.NotifyTransition(t.source, t.dest, e)
	return true, nil
}

// AddCallback appends a before or after callback
func (t *Transition) AddCallback(kind CallbackKind, action Action) error {
	if action == nil {
		return NewInvalidCallbackError(kind.String(), fmt.Sprintf("nil callback for transition %s", t))
	}
	switch kind {
	case CallbackBefore:
		t.before = append(t.before, action)
	case CallbackAfter:
		t.after = append(t.after, action)
	default:
		return NewInvalidCallbackError(kind.String(), "transitions accept only before and after callbacks")
	}
	return nil
}

func (t *Transition) String() string {
	return t.source + "->" + t.dest
}

// run reports a callback failure to observers and hands it back untouched
func (t *Transition) run(err error, e *EventData) error {
	if err != nil {
		e.Machine.observers.NotifyError(err, e)
	}
	return err
}
