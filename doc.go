// Package transit provides a finite state machine engine that advances a bound
// model between named states.
//
// States and triggers are registered on a Machine. Firing a trigger tries the
// transitions filed for the current state in the order they were added: guards
// are evaluated first and the first transition whose guards all pass is taken.
// A taken transition runs its before callbacks, exits the source state, makes the
// destination current, enters it and finally runs its after callbacks.
//
//	m, err := transit.New(
//		transit.WithModel(matter),
//		transit.WithStates("solid", "liquid", "gas"),
//		transit.WithInitial("solid"),
//		transit.WithTransitions(
//			transit.TransitionDef{Trigger: "melt", Source: []string{"solid"}, Dest: "liquid"},
//		),
//	)
//	if err != nil {
//		// handle error
//	}
//	ok, err := m.Trigger("melt")
//
// Callbacks are functions captured at configuration time. Identifiers naming
// methods of the model can be turned into callbacks with Machine.Action,
// Machine.Guard or a MethodResolver, and Machine.Register accepts the
// conventional before_<trigger>, after_<trigger>, on_enter_<state> and
// on_exit_<state> names.
//
// There is no rollback: a callback error is returned unmodified and leaves the
// machine wherever the transition stopped. A Machine is meant for a single
// goroutine; wrap it in a Locked to share it.
package transit
