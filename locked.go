package transit

import "sync"

// Locked serializes access to a Machine shared between goroutines.
//
// Only calls made through Locked are serialized. Callbacks that fire nested
// triggers must call the wrapped Machine directly or they deadlock.
type Locked struct {
	mu      sync.Mutex
	machine *Machine
}

// NewLocked wraps a machine
func NewLocked(m *Machine) *Locked {
	return &Locked{machine: m}
}

// Trigger fires a trigger while holding the lock
func (l *Locked) Trigger(trigger string, args ...any) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.machine.Trigger(trigger, args...)
}

// TriggerWithAttrs fires a trigger with named attributes while holding the lock
func (l *Locked) TriggerWithAttrs(trigger string, attrs map[string]any, args ...any) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.machine.TriggerWithAttrs(trigger, attrs, args...)
}

// State returns the current state name
func (l *Locked) State() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.machine.State()
}

// IsState checks the current state under the lock
func (l *Locked) IsState(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.machine.IsState(name)
}

// Unwrap returns the wrapped machine
func (l *Locked) Unwrap() *Machine {
	return l.machine
}
