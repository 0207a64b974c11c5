package transit

import "fmt"

// Observer represents an entity that observes state machine lifecycle
type Observer interface {
	// OnTransition is called once a transition completed, after its after callbacks
	OnTransition(from string, to string, e *EventData)

	// OnStateEnter is called after a state's enter callbacks ran
	OnStateEnter(state string, e *EventData)
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver interface {
	Observer

	// OnStateExit is called after a state's exit callbacks ran
	OnStateExit(state string, e *EventData)

	// OnGuardEvaluation is called for every guard evaluated
	OnGuardEvaluation(from string, to string, result bool, e *EventData)

	// OnTriggerRejected is called when a trigger has no transition from the current state
	OnTriggerRejected(trigger string, state string, err error)

	// OnError is called when a guard or callback fails
	OnError(err error, e *EventData)
}

// BaseObserver provides a default implementation with no-op methods
type BaseObserver struct{}

// OnTransition implements the required Observer method
func (o *BaseObserver) OnTransition(from string, to string, e *EventData) {}

// OnStateEnter implements the required Observer method
func (o *BaseObserver) OnStateEnter(state string, e *EventData) {}

// OnStateExit implements the optional ExtendedObserver method
func (o *BaseObserver) OnStateExit(state string, e *EventData) {}

// OnGuardEvaluation implements the optional ExtendedObserver method
func (o *BaseObserver) OnGuardEvaluation(from string, to string, result bool, e *EventData) {}

// OnTriggerRejected implements the optional ExtendedObserver method
func (o *BaseObserver) OnTriggerRejected(trigger string, state string, err error) {}

// OnError implements the optional ExtendedObserver method
func (o *BaseObserver) OnError(err error, e *EventData) {}

// ObserverManager manages a collection of observers.
// A panicking observer is reported to its own OnError and never reaches the machine.
type ObserverManager struct {
	observers []Observer
}

// NewObserverManager creates a new observer manager
func NewObserverManager() *ObserverManager {
	return &ObserverManager{
		observers: make([]Observer, 0),
	}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager) AddObserver(observer Observer) {
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager) RemoveObserver(observer Observer) {
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

// Len returns the number of observers
func (om *ObserverManager) Len() int {
	return len(om.observers)
}

// NotifyTransition notifies all observers of a completed transition
func (om *ObserverManager) NotifyTransition(from string, to string, e *EventData) {
	om.each("OnTransition", e, func(o Observer) {
		o.OnTransition(from, to, e)
	})
}

// NotifyStateEnter notifies all observers of state entry
func (om *ObserverManager) NotifyStateEnter(state string, e *EventData) {
	om.each("OnStateEnter", e, func(o Observer) {
		o.OnStateEnter(state, e)
	})
}

// NotifyStateExit notifies extended observers of state exit
func (om *ObserverManager) NotifyStateExit(state string, e *EventData) {
	om.eachExtended("OnStateExit", e, func(o ExtendedObserver) {
		o.OnStateExit(state, e)
	})
}

// NotifyGuardEvaluation notifies extended observers of a guard result
func (om *ObserverManager) NotifyGuardEvaluation(t *Transition, result bool, e *EventData) {
	om.eachExtended("OnGuardEvaluation", e, func(o ExtendedObserver) {
		o.OnGuardEvaluation(t.Source(), t.Dest(), result, e)
	})
}

// NotifyTriggerRejected notifies extended observers of an invalid trigger
func (om *ObserverManager) NotifyTriggerRejected(trigger string, state string, err error) {
	om.eachExtended("OnTriggerRejected", nil, func(o ExtendedObserver) {
		o.OnTriggerRejected(trigger, state, err)
	})
}

// NotifyError notifies extended observers of a failed guard or callback
func (om *ObserverManager) NotifyError(err error, e *EventData) {
	om.eachExtended("OnError", e, func(o ExtendedObserver) {
		o.OnError(err, e)
	})
}

func (om *ObserverManager) each(method string, e *EventData, notify func(Observer)) {
	if len(om.observers) == 0 {
		return
	}
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)

	for _, observer := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					if extObs, ok := observer.(ExtendedObserver); ok && method != "OnError" {
						func() {
							defer func() { _ = recover() }()
							extObs.OnError(fmt.Errorf("observer panic in %s: %v", method, r), e)
						}()
					}
				}
			}()
			notify(observer)
		}()
	}
}

func (om *ObserverManager) eachExtended(method string, e *EventData, notify func(ExtendedObserver)) {
	om.each(method, e, func(o Observer) {
		if extObs, ok := o.(ExtendedObserver); ok {
			notify(extObs)
		}
	})
}
