package transit

// Option configures a Machine during construction
type Option func(*config)

// TransitionDef describes transitions to add under a trigger.
//
// Source lists the source state names; a single Wildcard entry stands for every
// state registered when the definition is added.
type TransitionDef struct {
	Trigger    string
	Source     []string
	Dest       string
	Conditions []Guard
	Before     []Action
	After      []Action
}

type config struct {
	model        any
	states       []*State
	initial      string
	initialState *State
	transitions  []TransitionDef
	sendEvent    bool
	observers    []Observer
}

// WithModel binds the machine to a model; without it the machine is its own model
func WithModel(model any) Option {
	return func(c *config) {
		c.model = model
	}
}

// WithStates registers plain states by name
func WithStates(names ...string) Option {
	return func(c *config) {
		for _, name := range names {
			c.states = append(c.states, NewState(name))
		}
	}
}

// WithState registers prebuilt states
func WithState(states ...*State) Option {
	return func(c *config) {
		for _, s := range states {
			if s != nil {
				c.states = append(c.states, s)
			}
		}
	}
}

// WithInitial sets the initial state by name
func WithInitial(name string) Option {
	return func(c *config) {
		c.initial = name
		c.initialState = nil
	}
}

// WithInitialState sets the initial state by instance, registering it when absent
func WithInitialState(s *State) Option {
	return func(c *config) {
		c.initialState = s
		c.initial = ""
	}
}

// WithTransitions adds transitions after the initial state is set
func WithTransitions(defs ...TransitionDef) Option {
	return func(c *config) {
		c.transitions = append(c.transitions, defs...)
	}
}

// WithSendEvent controls whether model-bound callbacks receive the full *EventData
// or the trigger's positional arguments
func WithSendEvent(send bool) Option {
	return func(c *config) {
		c.sendEvent = send
	}
}

// WithObserver attaches an observer
func WithObserver(observer Observer) Option {
	return func(c *config) {
		if observer != nil {
			c.observers = append(c.observers, observer)
		}
	}
}
