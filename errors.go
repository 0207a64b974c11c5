package transit

import (
	"errors"
	"fmt"
)

// ErrorCode represents specific error conditions in the state machine
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// State name is not registered with the machine
	ErrCodeStateNotRegistered
	// Trigger has no transition filed for the current state
	ErrCodeInvalidTrigger
	// Trigger name is not registered with the machine
	ErrCodeEventNotRegistered
	// Callback kind is not valid for the target
	ErrCodeInvalidCallback
	// Callback identifier could not be resolved against the model
	ErrCodeCallbackNotFound
	// State name registered twice
	ErrCodeDuplicateState
	// Machine configuration is invalid
	ErrCodeInvalidConfiguration
)

// Sentinel errors for use with errors.Is.
var (
	ErrStateNotRegistered = errors.New("state not registered")
	ErrInvalidTrigger     = errors.New("invalid trigger from current state")
	ErrEventNotRegistered = errors.New("event not registered")
	ErrCallbackNotFound   = errors.New("callback not found")
)

// StateError represents state lookup and registration errors
type StateError struct {
	Code    ErrorCode
	State   string
	Message string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state error [%s]: %s", e.State, e.Message)
}

// Is reports whether target is the sentinel matching this error's code
func (e *StateError) Is(target error) bool {
	return target == ErrStateNotRegistered && e.Code == ErrCodeStateNotRegistered
}

// NewUnregisteredStateError creates an error for a state name that has no registered State
func NewUnregisteredStateError(state string) *StateError {
	return &StateError{
		Code:    ErrCodeStateNotRegistered,
		State:   state,
		Message: fmt.Sprintf("state '%s' is not a registered state", state),
	}
}

// NewDuplicateStateError creates an error for a state registered twice
func NewDuplicateStateError(state string) *StateError {
	return &StateError{
		Code:    ErrCodeDuplicateState,
		State:   state,
		Message: fmt.Sprintf("state '%s' is already registered", state),
	}
}

// TriggerError is returned when a trigger is fired from a state it has no transitions for
type TriggerError struct {
	Code    ErrorCode
	Trigger string
	State   string
}

func (e *TriggerError) Error() string {
	return fmt.Sprintf("can't trigger event '%s' from state '%s'", e.Trigger, e.State)
}

// Is reports whether target is ErrInvalidTrigger
func (e *TriggerError) Is(target error) bool {
	return target == ErrInvalidTrigger
}

// NewInvalidTriggerError creates a new invalid trigger error
func NewInvalidTriggerError(trigger, state string) *TriggerError {
	return &TriggerError{
		Code:    ErrCodeInvalidTrigger,
		Trigger: trigger,
		State:   state,
	}
}

// EventError represents a reference to a trigger that was never registered
type EventError struct {
	Code    ErrorCode
	Trigger string
}

func (e *EventError) Error() string {
	return fmt.Sprintf("event '%s' is not registered", e.Trigger)
}

// Is reports whether target is ErrEventNotRegistered
func (e *EventError) Is(target error) bool {
	return target == ErrEventNotRegistered
}

// NewUnregisteredEventError creates a new unregistered event error
func NewUnregisteredEventError(trigger string) *EventError {
	return &EventError{
		Code:    ErrCodeEventNotRegistered,
		Trigger: trigger,
	}
}

// CallbackError represents a callback that could not be bound or invoked
type CallbackError struct {
	Code     ErrorCode
	Callback string
	Reason   string
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback error [%s]: %s", e.Callback, e.Reason)
}

// Is reports whether target is ErrCallbackNotFound
func (e *CallbackError) Is(target error) bool {
	return target == ErrCallbackNotFound && e.Code == ErrCodeCallbackNotFound
}

// NewCallbackNotFoundError creates an error for an identifier the model does not expose
func NewCallbackNotFoundError(name string, model any) *CallbackError {
	return &CallbackError{
		Code:     ErrCodeCallbackNotFound,
		Callback: name,
		Reason:   fmt.Sprintf("model %T has no method for '%s'", model, name),
	}
}

// NewInvalidCallbackError creates a new invalid callback error
func NewInvalidCallbackError(name, reason string) *CallbackError {
	return &CallbackError{
		Code:     ErrCodeInvalidCallback,
		Callback: name,
		Reason:   reason,
	}
}

// ConfigurationError represents machine configuration issues
type ConfigurationError struct {
	Component string
	Issue     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Issue)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(component, issue string) *ConfigurationError {
	return &ConfigurationError{
		Component: component,
		Issue:     issue,
	}
}

// IsStateError checks if an error is a StateError
func IsStateError(err error) bool {
	var e *StateError
	return errors.As(err, &e)
}

// IsTriggerError checks if an error is a TriggerError
func IsTriggerError(err error) bool {
	var e *TriggerError
	return errors.As(err, &e)
}

// IsEventError checks if an error is an EventError
func IsEventError(err error) bool {
	var e *EventError
	return errors.As(err, &e)
}

// IsCallbackError checks if an error is a CallbackError
func IsCallbackError(err error) bool {
	var e *CallbackError
	return errors.As(err, &e)
}

// IsConfigurationError checks if an error is a ConfigurationError
func IsConfigurationError(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

// GetErrorCode returns the error code for known error types
func GetErrorCode(err error) ErrorCode {
	var (
		stateErr    *StateError
		triggerErr  *TriggerError
		eventErr    *EventError
		callbackErr *CallbackError
		configErr   *ConfigurationError
	)
	switch {
	case errors.As(err, &stateErr):
		return stateErr.Code
	case errors.As(err, &triggerErr):
		return triggerErr.Code
	case errors.As(err, &eventErr):
		return eventErr.Code
	case errors.As(err, &callbackErr):
		return callbackErr.Code
	case errors.As(err, &configErr):
		return ErrCodeInvalidConfiguration
	default:
		return ErrCodeNone
	}
}
