package transit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocked_ConcurrentTriggers(t *testing.T) {
	m, err := New(
		WithStates("locked", "unlocked"),
		WithInitial("locked"),
		WithTransitions(
			TransitionDef{Trigger: "coin", Source: []string{"locked"}, Dest: "unlocked"},
			TransitionDef{Trigger: "push", Source: []string{"unlocked"}, Dest: "locked"},
		),
	)
	require.NoError(t, err)

	entered := 0
	require.NoError(t, m.OnEnter("unlocked", func(*EventData) error {
		entered++
		return nil
	}))

	l := NewLocked(m)
	var wg sync.WaitGroup
	var mu sync.Mutex
	taken := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, trigger := range []string{"coin", "push"} {
				ok, err := l.Trigger(trigger)
				if err == nil && ok {
					mu.Lock()
					taken++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	// taken transitions alternate coin/push starting from locked
	assert.Equal(t, (taken+1)/2, entered)
	assert.Equal(t, taken%2 == 1, l.IsState("unlocked"))
}

func TestLocked_Accessors(t *testing.T) {
	m := newMatterMachine(t)
	l := NewLocked(m)

	ok, err := l.TriggerWithAttrs("melt", map[string]any{"temp": 10})
	require.NoError(t, err)
	assert.True(t, ok)

	assert.True(t, l.IsState("liquid"))
	assert.Same(t, m, l.Unwrap())
}
