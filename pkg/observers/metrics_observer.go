package observers

import (
	"sync"
	"time"

	"github.com/anggasct/transit"
)

// MetricsObserver collects metrics about state machine execution
type MetricsObserver struct {
	stateVisits      map[string]int
	stateTimeSpent   map[string]time.Duration
	triggerCounts    map[string]int
	transitionCounts map[string]int
	rejectedCounts   map[string]int
	guardRejections  int
	errorCount       int
	lastStateEntry   map[string]time.Time
	now              func() time.Time
	mutex            sync.RWMutex
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	o := &MetricsObserver{now: time.Now}
	o.reset()
	return o
}

// OnStateEnter records state entry metrics
func (o *MetricsObserver) OnStateEnter(state string, e *transit.EventData) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.stateVisits[state]++
	o.lastStateEntry[state] = o.now()
}

// OnStateExit records state exit metrics
func (o *MetricsObserver) OnStateExit(state string, e *transit.EventData) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if entryTime, ok := o.lastStateEntry[state]; ok {
		o.stateTimeSpent[state] += o.now().Sub(entryTime)
		delete(o.lastStateEntry, state)
	}
}

// OnTransition records transition and trigger metrics
func (o *MetricsObserver) OnTransition(from string, to string, e *transit.EventData) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.transitionCounts[from+"->"+to]++
	if e != nil && e.Event != nil {
		o.triggerCounts[e.Event.Name()]++
	}
}

// OnGuardEvaluation counts rejecting guards
func (o *MetricsObserver) OnGuardEvaluation(from string, to string, result bool, e *transit.EventData) {
	if result {
		return
	}
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.guardRejections++
}

// OnTriggerRejected counts triggers fired from a state without transitions for them
func (o *MetricsObserver) OnTriggerRejected(trigger string, state string, err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.rejectedCounts[trigger]++
}

// OnError records error metrics
func (o *MetricsObserver) OnError(err error, e *transit.EventData) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.errorCount++
}

// GetStateVisitCounts returns the number of times each state was entered
func (o *MetricsObserver) GetStateVisitCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return copyCounts(o.stateVisits)
}

// GetStateTimeSpent returns the time spent in each state between entry and exit
func (o *MetricsObserver) GetStateTimeSpent() map[string]time.Duration {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[string]time.Duration, len(o.stateTimeSpent))
	for state, duration := range o.stateTimeSpent {
		result[state] = duration
	}
	return result
}

// GetTriggerCounts returns the number of completed transitions per trigger
func (o *MetricsObserver) GetTriggerCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return copyCounts(o.triggerCounts)
}

// GetTransitionCounts returns the number of times each transition completed
func (o *MetricsObserver) GetTransitionCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return copyCounts(o.transitionCounts)
}

// GetRejectedCounts returns the number of rejected triggers per trigger name
func (o *MetricsObserver) GetRejectedCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return copyCounts(o.rejectedCounts)
}

// GetGuardRejections returns the number of guards that evaluated to false
func (o *MetricsObserver) GetGuardRejections() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.guardRejections
}

// GetErrorCount returns the number of errors
func (o *MetricsObserver) GetErrorCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.errorCount
}

// Reset resets all metrics
func (o *MetricsObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.reset()
}

func (o *MetricsObserver) reset() {
	o.stateVisits = make(map[string]int)
	o.stateTimeSpent = make(map[string]time.Duration)
	o.triggerCounts = make(map[string]int)
	o.transitionCounts = make(map[string]int)
	o.rejectedCounts = make(map[string]int)
	o.guardRejections = 0
	o.errorCount = 0
	o.lastStateEntry = make(map[string]time.Time)
}

func copyCounts(counts map[string]int) map[string]int {
	result := make(map[string]int, len(counts))
	for k, v := range counts {
		result[k] = v
	}
	return result
}
