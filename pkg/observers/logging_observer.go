// Package observers provides observers for monitoring state machine events
package observers

import (
	"context"
	"log/slog"

	"github.com/anggasct/transit"
)

// LoggingObserver logs state machine events through a slog.Logger
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a new logging observer. A nil logger uses slog.Default.
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger}
}

// NewDefaultLoggingObserver creates a logging observer tagged with the machine component
func NewDefaultLoggingObserver() *LoggingObserver {
	return NewLoggingObserver(slog.Default().With(slog.String("component", "state_machine")))
}

// OnStateEnter logs state entry
func (o *LoggingObserver) OnStateEnter(state string, e *transit.EventData) {
	o.log(slog.LevelDebug, "entering state", e, slog.String("state", state))
}

// OnStateExit logs state exit
func (o *LoggingObserver) OnStateExit(state string, e *transit.EventData) {
	o.log(slog.LevelDebug, "exiting state", e, slog.String("state", state))
}

// OnTransition logs transitions
func (o *LoggingObserver) OnTransition(from string, to string, e *transit.EventData) {
	o.log(slog.LevelInfo, "transition", e, slog.String("from", from), slog.String("to", to))
}

// OnGuardEvaluation logs guard results
func (o *LoggingObserver) OnGuardEvaluation(from string, to string, result bool, e *transit.EventData) {
	o.log(slog.LevelDebug, "guard evaluated", e,
		slog.String("from", from), slog.String("to", to), slog.Bool("result", result))
}

// OnTriggerRejected logs triggers fired from a state that has no transitions for them
func (o *LoggingObserver) OnTriggerRejected(trigger string, state string, err error) {
	o.log(slog.LevelWarn, "trigger rejected", nil,
		slog.String("trigger", trigger), slog.String("state", state), slog.String("error", err.Error()))
}

// OnError logs errors
func (o *LoggingObserver) OnError(err error, e *transit.EventData) {
	o.log(slog.LevelError, "callback failed", e, slog.String("error", err.Error()))
}

func (o *LoggingObserver) log(level slog.Level, msg string, e *transit.EventData, attrs ...slog.Attr) {
	if e != nil {
		attrs = append(attrs, slog.String("event_id", e.ID))
		if e.Event != nil {
			attrs = append(attrs, slog.String("trigger", e.Event.Name()))
		}
	}
	o.logger.LogAttrs(context.Background(), level, msg, attrs...)
}
