// Command transit loads a YAML machine definition, fires the triggers given as
// arguments in order and prints the final state.
//
// Callbacks named in the definition are logged when they run. Conditions
// evaluate to the value configured in TRANSIT_GUARDS, false when absent.
//
//	TRANSIT_DEFINITION=matter.yaml TRANSIT_GUARDS=is_hot:true transit melt evaporate
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/anggasct/transit"
	"github.com/anggasct/transit/internal/logger"
	"github.com/anggasct/transit/pkg/definition"
	"github.com/anggasct/transit/pkg/observers"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := newLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(os.Args[1:], cfg, os.Stdout, log); err != nil {
		log.Error("run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(cfg Config, w io.Writer) (*slog.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(w),
	), nil
}

func run(triggers []string, cfg Config, stdout io.Writer, log *slog.Logger) error {
	d, err := definition.LoadFile(cfg.Definition)
	if err != nil {
		return err
	}

	metrics := observers.NewMetricsObserver()
	m, err := d.Build(
		&scriptResolver{logger: log, guards: cfg.Guards},
		transit.WithObserver(observers.NewLoggingObserver(log)),
		transit.WithObserver(metrics),
	)
	if err != nil {
		return err
	}
	validation := observers.NewValidationObserverFor(m)
	m.AddObserver(validation)

	for _, trigger := range triggers {
		ok, err := m.Trigger(trigger)
		if err != nil {
			return fmt.Errorf("trigger %q: %w", trigger, err)
		}
		if !ok {
			log.Info("no transition taken", slog.String("trigger", trigger), slog.String("state", m.State()))
		}
	}

	log.Debug("run complete",
		slog.Any("transitions", metrics.GetTransitionCounts()),
		slog.Int("guard_rejections", metrics.GetGuardRejections()),
		slog.Any("unvisited_states", validation.GetUnvisitedStates()),
	)
	_, err = fmt.Fprintln(stdout, m.State())
	return err
}

// scriptResolver logs actions and answers conditions from configuration
type scriptResolver struct {
	logger *slog.Logger
	guards map[string]bool
}

func (r *scriptResolver) Action(name string) (transit.Action, error) {
	return func(e *transit.EventData) error {
		r.logger.Info("callback",
			slog.String("name", name),
			slog.String("state", e.State.Name()),
			slog.String("trigger", e.Event.Name()),
		)
		return nil
	}, nil
}

func (r *scriptResolver) Guard(name string) (transit.Guard, error) {
	return func(e *transit.EventData) (bool, error) {
		return r.guards[name], nil
	}, nil
}
