package transit

import (
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stateful is implemented by models that mirror the machine's current state name
type Stateful interface {
	SetState(state string)
}

// Resolver turns callback identifiers into callbacks
type Resolver interface {
	Action(name string) (Action, error)
	Guard(name string) (Guard, error)
}

var (
	eventDataType = reflect.TypeOf((*EventData)(nil))
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	boolType      = reflect.TypeOf(false)
)

// MethodResolver resolves identifiers against the exported methods of a model.
//
// An identifier is looked up verbatim first and then as snake_case converted to
// CamelCase, so "is_hot" finds IsHot. With sendEvent the method must take a single
// *EventData; otherwise it receives the trigger's positional arguments, or nothing
// when it declares no parameters.
type MethodResolver struct {
	model     any
	sendEvent bool
	title     cases.Caser
}

// NewMethodResolver creates a resolver bound to model
func NewMethodResolver(model any, sendEvent bool) *MethodResolver {
	return &MethodResolver{
		model:     model,
		sendEvent: sendEvent,
		title:     cases.Title(language.Und, cases.NoLower),
	}
}

// Action resolves a before/after/enter/exit callback. The method must return nothing or an error.
func (r *MethodResolver) Action(name string) (Action, error) {
	fn, err := r.method(name)
	if err != nil {
		return nil, err
	}
	ft := fn.Type()
	switch {
	case ft.NumOut() == 0:
	case ft.NumOut() == 1 && ft.Out(0) == errorType:
	default:
		return nil, NewInvalidCallbackError(name, fmt.Sprintf("callback must return nothing or error, got %s", ft))
	}
	inputs, err := r.inputs(name, ft)
	if err != nil {
		return nil, err
	}

	return func(e *EventData) error {
		in, err := inputs(e)
		if err != nil {
			return err
		}
		out := fn.Call(in)
		if len(out) == 0 {
			return nil
		}
		return asError(out[0])
	}, nil
}

// Guard resolves a condition. The method must return bool or (bool, error).
func (r *MethodResolver) Guard(name string) (Guard, error) {
	fn, err := r.method(name)
	if err != nil {
		return nil, err
	}
	ft := fn.Type()
	switch {
	case ft.NumOut() == 1 && ft.Out(0) == boolType:
	case ft.NumOut() == 2 && ft.Out(0) == boolType && ft.Out(1) == errorType:
	default:
		return nil, NewInvalidCallbackError(name, fmt.Sprintf("condition must return bool or (bool, error), got %s", ft))
	}
	inputs, err := r.inputs(name, ft)
	if err != nil {
		return nil, err
	}

	return func(e *EventData) (bool, error) {
		in, err := inputs(e)
		if err != nil {
			return false, err
		}
		out := fn.Call(in)
		if len(out) == 2 {
			if err := asError(out[1]); err != nil {
				return false, err
			}
		}
		return out[0].Bool(), nil
	}, nil
}

// MethodName returns the CamelCase method name tried for an identifier
func (r *MethodResolver) MethodName(name string) string {
	parts := strings.FieldsFunc(name, func(c rune) bool {
		return c == '_' || c == '-'
	})
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(r.title.String(part))
	}
	return b.String()
}

func (r *MethodResolver) method(name string) (reflect.Value, error) {
	v := reflect.ValueOf(r.model)
	if !v.IsValid() || name == "" {
		return reflect.Value{}, NewCallbackNotFoundError(name, r.model)
	}
	for _, candidate := range []string{name, r.MethodName(name)} {
		if fn := v.MethodByName(candidate); fn.IsValid() {
			return fn, nil
		}
	}
	return reflect.Value{}, NewCallbackNotFoundError(name, r.model)
}

func (r *MethodResolver) inputs(name string, ft reflect.Type) (func(e *EventData) ([]reflect.Value, error), error) {
	if r.sendEvent {
		if ft.NumIn() != 1 || ft.In(0) != eventDataType {
			return nil, NewInvalidCallbackError(name, "with send_event the callback must take a single *EventData")
		}
		return func(e *EventData) ([]reflect.Value, error) {
			return []reflect.Value{reflect.ValueOf(e)}, nil
		}, nil
	}
	if ft.NumIn() == 0 {
		return func(*EventData) ([]reflect.Value, error) {
			return nil, nil
		}, nil
	}
	return func(e *EventData) ([]reflect.Value, error) {
		return callArgs(name, ft, e.Args)
	}, nil
}

func callArgs(name string, ft reflect.Type, args []any) ([]reflect.Value, error) {
	n := ft.NumIn()
	fixed := n
	if ft.IsVariadic() {
		fixed = n - 1
	}
	if len(args) < fixed || (!ft.IsVariadic() && len(args) > n) {
		return nil, NewInvalidCallbackError(name, fmt.Sprintf("takes %d arguments, trigger passed %d", fixed, len(args)))
	}

	in := make([]reflect.Value, 0, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if i < fixed {
			pt = ft.In(i)
		} else {
			pt = ft.In(n - 1).Elem()
		}
		v, ok := argValue(arg, pt)
		if !ok {
			return nil, NewInvalidCallbackError(name, fmt.Sprintf("argument %d: %T is not assignable to %s", i, arg, pt))
		}
		in = append(in, v)
	}
	return in, nil
}

func argValue(arg any, t reflect.Type) (reflect.Value, bool) {
	if arg == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, false
	}
	return v, true
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}
