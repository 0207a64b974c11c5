package transit

// Builder provides a fluent interface for building machines
type Builder struct {
	opts          []Option
	transitions   []*TransitionBuilder
	registrations []func(*Machine) error
}

// TransitionBuilder configures the transitions of one trigger
type TransitionBuilder struct {
	builder *Builder
	def     TransitionDef
}

// NewBuilder creates a new machine builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Model binds the machine to a model
func (b *Builder) Model(model any) *Builder {
	b.opts = append(b.opts, WithModel(model))
	return b
}

// States registers plain states
func (b *Builder) States(names ...string) *Builder {
	b.opts = append(b.opts, WithStates(names...))
	return b
}

// State registers a state with enter/exit options
func (b *Builder) State(name string, opts ...StateOption) *Builder {
	b.opts = append(b.opts, WithState(NewState(name, opts...)))
	return b
}

// Initial sets the initial state
func (b *Builder) Initial(name string) *Builder {
	b.opts = append(b.opts, WithInitial(name))
	return b
}

// SendEvent controls what model-bound callbacks receive
func (b *Builder) SendEvent(send bool) *Builder {
	b.opts = append(b.opts, WithSendEvent(send))
	return b
}

// Observer attaches an observer
func (b *Builder) Observer(observer Observer) *Builder {
	b.opts = append(b.opts, WithObserver(observer))
	return b
}

// Transition starts configuring transitions for a trigger
func (b *Builder) Transition(trigger string) *TransitionBuilder {
	tb := &TransitionBuilder{
		builder: b,
		def:     TransitionDef{Trigger: trigger},
	}
	b.transitions = append(b.transitions, tb)
	return tb
}

// OnEnter registers an enter callback once the machine is built
func (b *Builder) OnEnter(state string, action Action) *Builder {
	b.registrations = append(b.registrations, func(m *Machine) error {
		return m.OnEnter(state, action)
	})
	return b
}

// OnExit registers an exit callback once the machine is built
func (b *Builder) OnExit(state string, action Action) *Builder {
	b.registrations = append(b.registrations, func(m *Machine) error {
		return m.OnExit(state, action)
	})
	return b
}

// Before registers a before callback on a trigger once the machine is built
func (b *Builder) Before(trigger string, action Action) *Builder {
	b.registrations = append(b.registrations, func(m *Machine) error {
		return m.Before(trigger, action)
	})
	return b
}

// After registers an after callback on a trigger once the machine is built
func (b *Builder) After(trigger string, action Action) *Builder {
	b.registrations = append(b.registrations, func(m *Machine) error {
		return m.After(trigger, action)
	})
	return b
}

// Build creates the machine
func (b *Builder) Build() (*Machine, error) {
	opts := make([]Option, 0, len(b.opts)+1)
	opts = append(opts, b.opts...)

	defs := make([]TransitionDef, 0, len(b.transitions))
	for _, tb := range b.transitions {
		defs = append(defs, tb.def)
	}
	opts = append(opts, WithTransitions(defs...))

	m, err := New(opts...)
	if err != nil {
		return nil, err
	}
	for _, register := range b.registrations {
		if err := register(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// From sets the source states
func (tb *TransitionBuilder) From(states ...string) *TransitionBuilder {
	tb.def.Source = append(tb.def.Source, states...)
	return tb
}

// FromAny uses every state registered so far as source
func (tb *TransitionBuilder) FromAny() *TransitionBuilder {
	tb.def.Source = []string{Wildcard}
	return tb
}

// To sets the destination state
func (tb *TransitionBuilder) To(dest string) *TransitionBuilder {
	tb.def.Dest = dest
	return tb
}

// When adds guard conditions
func (tb *TransitionBuilder) When(guards ...Guard) *TransitionBuilder {
	tb.def.Conditions = append(tb.def.Conditions, guards...)
	return tb
}

// Unless adds a guard that must be false
func (tb *TransitionBuilder) Unless(guard Guard) *TransitionBuilder {
	if guard == nil {
		return tb
	}
	tb.def.Conditions = append(tb.def.Conditions, func(e *EventData) (bool, error) {
		ok, err := guard(e)
		return !ok, err
	})
	return tb
}

// Before adds before callbacks
func (tb *TransitionBuilder) Before(actions ...Action) *TransitionBuilder {
	tb.def.Before = append(tb.def.Before, actions...)
	return tb
}

// After adds after callbacks
func (tb *TransitionBuilder) After(actions ...Action) *TransitionBuilder {
	tb.def.After = append(tb.def.After, actions...)
	return tb
}

// Transition starts configuring another trigger
func (tb *TransitionBuilder) Transition(trigger string) *TransitionBuilder {
	return tb.builder.Transition(trigger)
}

// End returns to the machine builder
func (tb *TransitionBuilder) End() *Builder {
	return tb.builder
}

// Build creates the machine
func (tb *TransitionBuilder) Build() (*Machine, error) {
	return tb.builder.Build()
}
