package observers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/anggasct/transit"
)

// ValidationObserver checks taken transitions against an allowed set of edges
// and tracks which expected states were visited
type ValidationObserver struct {
	transit.BaseObserver

	expectedStates     map[string]bool
	visitedStates      map[string]bool
	allowedTransitions map[string]map[string]bool
	violations         []string
	mutex              sync.RWMutex
}

// NewValidationObserver creates a new validation observer
func NewValidationObserver() *ValidationObserver {
	return &ValidationObserver{
		expectedStates:     make(map[string]bool),
		visitedStates:      make(map[string]bool),
		allowedTransitions: make(map[string]map[string]bool),
	}
}

// NewValidationObserverFor expects every state of m and allows every edge it defines
func NewValidationObserverFor(m *transit.Machine) *ValidationObserver {
	o := NewValidationObserver()
	for _, state := range m.States() {
		o.AddExpectedState(state)
	}
	for _, trigger := range m.Triggers() {
		ev, err := m.Event(trigger)
		if err != nil {
			continue
		}
		for _, source := range ev.Sources() {
			for _, t := range ev.Transitions(source) {
				o.AddAllowedTransition(t.Source(), t.Dest())
			}
		}
	}
	o.visitedStates[m.State()] = true
	return o
}

// AddExpectedState adds an expected state
func (o *ValidationObserver) AddExpectedState(stateName string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.expectedStates[stateName] = true
}

// AddAllowedTransition adds an allowed transition
func (o *ValidationObserver) AddAllowedTransition(from, to string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if _, exists := o.allowedTransitions[from]; !exists {
		o.allowedTransitions[from] = make(map[string]bool)
	}
	o.allowedTransitions[from][to] = true
}

// OnStateEnter marks the state as visited
func (o *ValidationObserver) OnStateEnter(state string, e *transit.EventData) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.visitedStates[state] = true
}

// OnTransition records a violation for edges outside the allowed set
func (o *ValidationObserver) OnTransition(from string, to string, e *transit.EventData) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if allowed, exists := o.allowedTransitions[from]; exists && allowed[to] {
		return
	}
	trigger := ""
	if e != nil && e.Event != nil {
		trigger = e.Event.Name()
	}
	o.violations = append(o.violations, fmt.Sprintf(
		"invalid transition from '%s' to '%s' on trigger '%s'", from, to, trigger))
}

// OnError records failed callbacks as violations
func (o *ValidationObserver) OnError(err error, e *transit.EventData) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.violations = append(o.violations, fmt.Sprintf("error occurred: %v", err))
}

// GetViolations returns all validation violations
func (o *ValidationObserver) GetViolations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// GetUnvisitedStates returns expected states never entered, sorted by name
func (o *ValidationObserver) GetUnvisitedStates() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	var unvisited []string
	for state := range o.expectedStates {
		if !o.visitedStates[state] {
			unvisited = append(unvisited, state)
		}
	}
	sort.Strings(unvisited)
	return unvisited
}

// HasViolations returns whether any violations occurred
func (o *ValidationObserver) HasViolations() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) > 0
}

// Reset resets the validation state
func (o *ValidationObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visitedStates = make(map[string]bool)
	o.violations = nil
}
