package transit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_BuildsMachine(t *testing.T) {
	rec := &recorder{}
	model := &matter{}

	m, err := NewBuilder().
		Model(model).
		States("solid", "liquid").
		State("gas", WithOnEnter(rec.action("enter gas"))).
		Initial("solid").
		Transition("melt").From("solid").To("liquid").Before(rec.action("before melt")).
		Transition("evaporate").From("liquid").To("gas").When(rec.guard("hot", true)).
		Transition("reset").FromAny().To("solid").After(rec.action("after reset")).
		End().
		OnExit("liquid", rec.action("exit liquid")).
		Build()
	require.NoError(t, err)

	assert.Same(t, model, m.Model())
	assert.Equal(t, []string{"melt", "evaporate", "reset"}, m.Triggers())

	for _, trigger := range []string{"melt", "evaporate", "reset"} {
		ok, err := m.Trigger(trigger)
		require.NoError(t, err, trigger)
		assert.True(t, ok, trigger)
	}

	assert.Equal(t, "solid", model.state)
	assert.Equal(t, []string{"before melt", "hot", "exit liquid", "enter gas", "after reset"}, rec.calls)
}

func TestBuilder_Unless(t *testing.T) {
	m, err := NewBuilder().
		States("open", "closed").
		Initial("open").
		Transition("close").From("open").To("closed").
		Unless(func(*EventData) (bool, error) { return true, nil }).
		Build()
	require.NoError(t, err)

	ok, err := m.Trigger("close")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuilder_NilGuardsAreIgnored(t *testing.T) {
	m, err := NewBuilder().
		States("open", "closed").
		Initial("open").
		Transition("close").From("open").To("closed").
		When(nil).
		Unless(nil).
		Build()
	require.NoError(t, err)

	ok, err := m.Trigger("close")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "closed", m.State())
}

func TestBuilder_RegistrationErrorsSurface(t *testing.T) {
	_, err := NewBuilder().
		States("a").
		Initial("a").
		OnEnter("b", func(*EventData) error { return nil }).
		Build()

	assert.ErrorIs(t, err, ErrStateNotRegistered)
}

func TestBuilder_TransitionErrorsSurface(t *testing.T) {
	_, err := NewBuilder().
		States("a").
		Initial("a").
		Transition("go").From("a").To("b").
		Build()

	assert.ErrorIs(t, err, ErrStateNotRegistered)
}

func TestBuilder_SendEventAndObserver(t *testing.T) {
	obs := &testObserver{}
	b := NewBuilder().
		States("a", "b").
		Initial("a").
		SendEvent(true).
		Observer(obs)
	b.Transition("go").From("a").To("b")
	b.Before("go", func(*EventData) error { return nil })
	b.After("go", func(*EventData) error { return nil })

	m, err := b.Build()
	require.NoError(t, err)
	assert.True(t, m.SendEvent())

	_, err = m.Trigger("go")
	require.NoError(t, err)
	assert.Contains(t, obs.events, "transition a->b")
}
