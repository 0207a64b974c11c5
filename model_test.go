package transit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodResolver_MethodName(t *testing.T) {
	r := NewMethodResolver(&matter{}, false)

	tests := map[string]string{
		"is_hot":              "IsHot",
		"make_hissing_noises": "MakeHissingNoises",
		"check-pressure":      "CheckPressure",
		"Notify":              "Notify",
		"xml_http_request":    "XmlHttpRequest",
	}
	for in, want := range tests {
		assert.Equal(t, want, r.MethodName(in), in)
	}
}

func TestMethodResolver_ResolvesVerbatimAndSnakeCase(t *testing.T) {
	model := &matter{}
	r := NewMethodResolver(model, false)

	notify, err := r.Action("Notify")
	require.NoError(t, err)
	hiss, err := r.Action("make_hissing_noises")
	require.NoError(t, err)

	require.NoError(t, notify(&EventData{}))
	require.NoError(t, hiss(&EventData{}))
	assert.Equal(t, []string{"notify", "hiss"}, model.calls)
}

func TestMethodResolver_Guard(t *testing.T) {
	model := &matter{hot: true}
	r := NewMethodResolver(model, false)

	isHot, err := r.Guard("is_hot")
	require.NoError(t, err)

	ok, err := isHot(&EventData{})
	require.NoError(t, err)
	assert.True(t, ok)

	model.hot = false
	ok, err = isHot(&EventData{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMethodResolver_Errors(t *testing.T) {
	r := NewMethodResolver(&matter{}, false)

	_, err := r.Action("evaporate_quickly")
	assert.ErrorIs(t, err, ErrCallbackNotFound)

	_, err = r.Action("")
	assert.ErrorIs(t, err, ErrCallbackNotFound)

	_, err = r.Action("broken")
	assert.Equal(t, ErrCodeInvalidCallback, GetErrorCode(err))

	_, err = r.Guard("notify")
	assert.Equal(t, ErrCodeInvalidCallback, GetErrorCode(err))

	_, err = NewMethodResolver(nil, false).Action("notify")
	assert.ErrorIs(t, err, ErrCallbackNotFound)
}

func TestMethodResolver_PositionalArguments(t *testing.T) {
	model := &matter{}
	r := NewMethodResolver(model, false)

	heat, err := r.Action("heat")
	require.NoError(t, err)

	require.NoError(t, heat(&EventData{Args: []any{5, "C"}}))
	assert.Equal(t, []string{"heat 5C"}, model.calls)

	err = heat(&EventData{Args: []any{5}})
	assert.Equal(t, ErrCodeInvalidCallback, GetErrorCode(err))

	err = heat(&EventData{Args: []any{"5", "C"}})
	assert.Equal(t, ErrCodeInvalidCallback, GetErrorCode(err))
}

func TestMethodResolver_ZeroParamMethodIgnoresArguments(t *testing.T) {
	model := &matter{}
	r := NewMethodResolver(model, false)

	notify, err := r.Action("notify")
	require.NoError(t, err)

	require.NoError(t, notify(&EventData{Args: []any{1, 2, 3}}))
	assert.Equal(t, []string{"notify"}, model.calls)
}

func TestMethodResolver_Variadic(t *testing.T) {
	model := &matter{}
	r := NewMethodResolver(model, false)

	collect, err := r.Action("collect")
	require.NoError(t, err)

	require.NoError(t, collect(&EventData{Args: []any{1, nil, "x"}}))
	assert.Equal(t, []any{1, nil, "x"}, model.args)
}

func TestMethodResolver_SendEvent(t *testing.T) {
	model := &matter{}
	r := NewMethodResolver(model, true)

	inspect, err := r.Action("inspect")
	require.NoError(t, err)
	require.NoError(t, inspect(&EventData{State: NewState("solid")}))
	assert.Equal(t, []string{"inspect solid"}, model.calls)

	check, err := r.Guard("check_pressure")
	require.NoError(t, err)
	ok, err := check(&EventData{Attrs: map[string]any{"pressure": 3}})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = check(&EventData{Attrs: map[string]any{}})
	assert.EqualError(t, err, "pressure missing")

	_, err = r.Action("notify")
	assert.Equal(t, ErrCodeInvalidCallback, GetErrorCode(err))
}

func TestMachine_ResolvesAgainstBoundModel(t *testing.T) {
	model := &matter{hot: true}
	m := newMatterMachine(t, WithModel(model))

	isHot, err := m.Guard("is_hot")
	require.NoError(t, err)
	notify, err := m.Action("notify")
	require.NoError(t, err)

	require.NoError(t, m.AddTransition(TransitionDef{
		Trigger:    "boil",
		Source:     []string{"liquid"},
		Dest:       "gas",
		Conditions: []Guard{isHot},
		After:      []Action{notify},
	}))
	require.NoError(t, m.SetState("liquid"))

	ok, err := m.Trigger("boil", "ignored")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "gas", model.state)
	assert.Equal(t, []string{"notify"}, model.calls)
}

func TestMachine_SelfBoundResolvesMachineMethods(t *testing.T) {
	m := newMatterMachine(t)

	isState, err := m.Guard("is_state")
	require.NoError(t, err)
	ok, err := isState(&EventData{Args: []any{"solid"}})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = m.Action("is_hot")
	assert.ErrorIs(t, err, ErrCallbackNotFound)
}

func TestMachine_ResolvesStatePredicates(t *testing.T) {
	for name, m := range map[string]*Machine{
		"model bound": newMatterMachine(t, WithModel(&matter{})),
		"self bound":  newMatterMachine(t),
	} {
		t.Run(name, func(t *testing.T) {
			isSolid, err := m.Guard("is_solid")
			require.NoError(t, err)
			isLiquid, err := m.Guard("is_liquid")
			require.NoError(t, err)

			ok, err := isSolid(&EventData{})
			require.NoError(t, err)
			assert.True(t, ok)

			_, err = m.Trigger("melt")
			require.NoError(t, err)
			ok, err = isSolid(&EventData{})
			require.NoError(t, err)
			assert.False(t, ok)
			ok, err = isLiquid(&EventData{})
			require.NoError(t, err)
			assert.True(t, ok)

			_, err = m.Guard("is_plasma")
			assert.ErrorIs(t, err, ErrCallbackNotFound)
			_, err = m.Action("is_solid")
			assert.ErrorIs(t, err, ErrCallbackNotFound)
		})
	}
}

func TestMachine_ResolvesTriggersAsCallbacks(t *testing.T) {
	model := &matter{}
	m := newMatterMachine(t, WithModel(model))

	evaporate, err := m.Action("evaporate")
	require.NoError(t, err)
	require.NoError(t, m.After("melt", evaporate))

	ok, err := m.Trigger("melt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "gas", model.state)

	melt, err := m.Guard("melt")
	require.NoError(t, err)
	ok, err = melt(&EventData{})
	assert.False(t, ok)
	assert.True(t, IsTriggerError(err))

	_, err = m.Action("sublimate")
	assert.ErrorIs(t, err, ErrCallbackNotFound)
}

func TestMachine_ModelMethodWinsOverTrigger(t *testing.T) {
	model := &matter{}
	m := newMatterMachine(t, WithModel(model))
	require.NoError(t, m.AddTransition(TransitionDef{Trigger: "notify", Source: []string{"solid"}, Dest: "gas"}))

	notify, err := m.Action("notify")
	require.NoError(t, err)
	require.NoError(t, notify(&EventData{}))

	assert.Equal(t, []string{"notify"}, model.calls)
	assert.Equal(t, "solid", m.State())
}
