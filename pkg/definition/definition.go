// Package definition loads machine definitions from YAML and builds them
// against a callback resolver.
//
// A definition names callbacks by identifier. Identifiers are resolved when the
// machine is built, usually against the exported methods of a model:
//
//	initial: solid
//	states: [solid, liquid, {name: gas, on_enter: make_hissing_noises}]
//	transitions:
//	  - {trigger: melt, source: solid, dest: liquid, before: notify}
//	  - {trigger: evaporate, source: liquid, dest: gas, conditions: is_hot}
//	callbacks:
//	  after_melt: notify
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/anggasct/transit"
)

// Definition is the serialized form of a machine
type Definition struct {
	Initial     string                `yaml:"initial"`
	SendEvent   bool                  `yaml:"send_event"`
	States      []State               `yaml:"states"`
	Transitions []Transition          `yaml:"transitions"`
	Callbacks   map[string]StringList `yaml:"callbacks"`
}

// State is a state given either as a bare name or as a mapping
type State struct {
	Name    string     `yaml:"name"`
	OnEnter StringList `yaml:"on_enter"`
	OnExit  StringList `yaml:"on_exit"`
}

// UnmarshalYAML accepts a scalar state name or a mapping
func (s *State) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = State{Name: node.Value}
		return nil
	}
	type plain State
	return node.Decode((*plain)(s))
}

// Transition describes the transitions of one trigger from one or more sources
type Transition struct {
	Trigger    string     `yaml:"trigger"`
	Source     StringList `yaml:"source"`
	Dest       string     `yaml:"dest"`
	Conditions StringList `yaml:"conditions"`
	Unless     StringList `yaml:"unless"`
	Before     StringList `yaml:"before"`
	After      StringList `yaml:"after"`
}

// StringList is a list of strings that may be written as a single scalar
type StringList []string

// UnmarshalYAML accepts a scalar or a sequence of scalars
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

// Parse decodes a YAML definition
func Parse(data []byte) (*Definition, error) {
	return Load(bytes.NewReader(data))
}

// Load decodes a YAML definition, rejecting unknown fields
func Load(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Definition
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, transit.NewConfigurationError("Definition", "empty definition")
		}
		return nil, fmt.Errorf("failed to decode definition: %w", err)
	}
	return &d, nil
}

// LoadFile decodes the YAML definition stored at path
func LoadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open definition: %w", err)
	}
	defer f.Close()

	d, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Validate checks the structure of the definition and reports every problem found
func (d *Definition) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, transit.NewConfigurationError("Definition", fmt.Sprintf(format, args...)))
	}

	if len(d.States) == 0 {
		invalid("no states defined")
	}
	known := make(map[string]bool, len(d.States))
	for i, s := range d.States {
		switch {
		case s.Name == "":
			invalid("states[%d] has no name", i)
		case known[s.Name]:
			invalid("state '%s' is defined twice", s.Name)
		}
		known[s.Name] = true
	}

	if d.Initial == "" {
		invalid("no initial state defined")
	} else if !known[d.Initial] {
		invalid("initial state '%s' is not defined", d.Initial)
	}

	for i, t := range d.Transitions {
		if t.Trigger == "" {
			invalid("transitions[%d] has no trigger", i)
		}
		if t.Dest == "" {
			invalid("transitions[%d] has no dest", i)
		} else if !known[t.Dest] {
			invalid("transitions[%d] dest '%s' is not defined", i, t.Dest)
		}
		if len(t.Source) == 0 {
			invalid("transitions[%d] has no source", i)
		}
		for _, source := range t.Source {
			if source == transit.Wildcard {
				if len(t.Source) > 1 {
					invalid("transitions[%d] mixes '%s' with other sources", i, transit.Wildcard)
				}
				continue
			}
			if !known[source] {
				invalid("transitions[%d] source '%s' is not defined", i, source)
			}
		}
	}

	return errors.Join(errs...)
}

// Build validates the definition and creates a machine whose callback identifiers
// are resolved by resolver. Options are applied after the definition's own.
func (d *Definition) Build(resolver transit.Resolver, opts ...transit.Option) (*transit.Machine, error) {
	return d.build(func(*transit.Machine) transit.Resolver { return resolver }, opts)
}

// BuildFor builds the machine bound to model. Identifiers resolve against the
// model's methods, then against the machine's is_<state> predicates and triggers.
func (d *Definition) BuildFor(model any, opts ...transit.Option) (*transit.Machine, error) {
	return d.build(func(m *transit.Machine) transit.Resolver { return m },
		append([]transit.Option{transit.WithModel(model)}, opts...))
}

// build creates the machine with placeholder callbacks and resolves every
// identifier once all states and triggers are registered
func (d *Definition) build(resolverFor func(*transit.Machine) transit.Resolver, opts []transit.Option) (*transit.Machine, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	b := &binder{}
	states := make([]*transit.State, 0, len(d.States))
	for _, s := range d.States {
		states = append(states, transit.NewState(s.Name,
			transit.WithOnEnter(b.actions(s.OnEnter)...),
			transit.WithOnExit(b.actions(s.OnExit)...),
		))
	}

	defs := make([]transit.TransitionDef, 0, len(d.Transitions))
	for _, t := range d.Transitions {
		defs = append(defs, t.def(b))
	}

	base := []transit.Option{
		transit.WithState(states...),
		transit.WithInitial(d.Initial),
		transit.WithSendEvent(d.SendEvent),
		transit.WithTransitions(defs...),
	}
	m, err := transit.New(append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	resolver := resolverFor(m)
	if err := b.bind(resolver); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(d.Callbacks))
	for name := range d.Callbacks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		register, err := m.Register(name)
		if err != nil {
			return nil, err
		}
		for _, id := range d.Callbacks[name] {
			action, err := resolver.Action(id)
			if err != nil {
				return nil, err
			}
			if err := register(action); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (t Transition) def(b *binder) transit.TransitionDef {
	def := transit.TransitionDef{
		Trigger: t.Trigger,
		Source:  t.Source,
		Dest:    t.Dest,
		Before:  b.actions(t.Before),
		After:   b.actions(t.After),
	}
	for _, name := range t.Conditions {
		def.Conditions = append(def.Conditions, b.guard(name))
	}
	for _, name := range t.Unless {
		def.Conditions = append(def.Conditions, negate(b.guard(name)))
	}
	return def
}

func negate(guard transit.Guard) transit.Guard {
	return func(e *transit.EventData) (bool, error) {
		ok, err := guard(e)
		return !ok, err
	}
}

// binder hands out callbacks that forward to identifiers resolved later by bind
type binder struct {
	bindings []func(transit.Resolver) error
}

func (b *binder) action(name string) transit.Action {
	var resolved transit.Action
	b.bindings = append(b.bindings, func(r transit.Resolver) (err error) {
		resolved, err = r.Action(name)
		return err
	})
	return func(e *transit.EventData) error {
		return resolved(e)
	}
}

func (b *binder) actions(names []string) []transit.Action {
	result := make([]transit.Action, 0, len(names))
	for _, name := range names {
		result = append(result, b.action(name))
	}
	return result
}

func (b *binder) guard(name string) transit.Guard {
	var resolved transit.Guard
	b.bindings = append(b.bindings, func(r transit.Resolver) (err error) {
		resolved, err = r.Guard(name)
		return err
	})
	return func(e *transit.EventData) (bool, error) {
		return resolved(e)
	}
}

func (b *binder) bind(r transit.Resolver) error {
	for _, bind := range b.bindings {
		if err := bind(r); err != nil {
			return err
		}
	}
	return nil
}
