package transit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder captures callback invocations in call order
type recorder struct {
	calls []string
}

func (r *recorder) action(name string) Action {
	return func(*EventData) error {
		r.calls = append(r.calls, name)
		return nil
	}
}

func (r *recorder) guard(name string, result bool) Guard {
	return func(*EventData) (bool, error) {
		r.calls = append(r.calls, name)
		return result, nil
	}
}

func (r *recorder) fail(name string, err error) Action {
	return func(*EventData) error {
		r.calls = append(r.calls, name)
		return err
	}
}

// matter is a model exposing methods for identifier resolution
type matter struct {
	state string
	hot   bool
	calls []string
	args  []any
}

func (m *matter) SetState(state string) { m.state = state }

func (m *matter) IsHot() bool { return m.hot }

func (m *matter) Notify() { m.calls = append(m.calls, "notify") }

func (m *matter) MakeHissingNoises() error {
	m.calls = append(m.calls, "hiss")
	return nil
}

func (m *matter) Heat(amount int, unit string) {
	m.calls = append(m.calls, fmt.Sprintf("heat %d%s", amount, unit))
}

func (m *matter) Collect(args ...any) {
	m.args = append(m.args, args...)
}

func (m *matter) Inspect(e *EventData) error {
	m.calls = append(m.calls, "inspect "+e.State.Name())
	return nil
}

func (m *matter) CheckPressure(e *EventData) (bool, error) {
	v, ok := e.Get("pressure")
	if !ok {
		return false, fmt.Errorf("pressure missing")
	}
	return v.(int) > 1, nil
}

func (m *matter) Broken() (int, error) { return 0, nil }

// newMatterMachine builds the solid/liquid/gas machine used across tests
func newMatterMachine(t *testing.T, opts ...Option) *Machine {
	t.Helper()
	base := []Option{
		WithStates("solid", "liquid", "gas"),
		WithInitial("solid"),
		WithTransitions(
			TransitionDef{Trigger: "melt", Source: []string{"solid"}, Dest: "liquid"},
			TransitionDef{Trigger: "evaporate", Source: []string{"liquid"}, Dest: "gas"},
		),
	}
	m, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return m
}

// testObserver records every notification
type testObserver struct {
	BaseObserver
	events []string
	errors []error
}

func (o *testObserver) OnTransition(from string, to string, e *EventData) {
	o.events = append(o.events, "transition "+from+"->"+to)
}

func (o *testObserver) OnStateEnter(state string, e *EventData) {
	o.events = append(o.events, "enter "+state)
}

func (o *testObserver) OnStateExit(state string, e *EventData) {
	o.events = append(o.events, "exit "+state)
}

func (o *testObserver) OnGuardEvaluation(from string, to string, result bool, e *EventData) {
	o.events = append(o.events, fmt.Sprintf("guard %s->%s %t", from, to, result))
}

func (o *testObserver) OnTriggerRejected(trigger string, state string, err error) {
	o.events = append(o.events, "rejected "+trigger+"@"+state)
}

func (o *testObserver) OnError(err error, e *EventData) {
	o.errors = append(o.errors, err)
}
