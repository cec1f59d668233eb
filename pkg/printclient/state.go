package printclient

// State is the position of a run in the submission state machine.
type State int

const (
	StateIdle State = iota
	StateResolvingIdentity
	StateDispatchingPrint
	StateInsertingEntry
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolvingIdentity:
		return "resolving_identity"
	case StateDispatchingPrint:
		return "dispatching_print"
	case StateInsertingEntry:
		return "inserting_entry"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CanTransition reports whether a run may move from s to next. Done and
// Failed are terminal.
func (s State) CanTransition(next State) bool {
	switch s {
	case StateIdle:
		return next == StateResolvingIdentity
	case StateResolvingIdentity:
		return next == StateDispatchingPrint || next == StateFailed
	case StateDispatchingPrint:
		return next == StateInsertingEntry || next == StateFailed
	case StateInsertingEntry:
		return next == StateDone || next == StateFailed
	default:
		return false
	}
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// Step identifies one of the three remote calls of a run.
type Step int

const (
	StepNone Step = iota
	StepResolveIdentity
	StepDispatchPrint
	StepInsertEntry
)

func (s Step) String() string {
	switch s {
	case StepResolveIdentity:
		return "resolve_identity"
	case StepDispatchPrint:
		return "dispatch_print"
	case StepInsertEntry:
		return "insert_entry"
	default:
		return "none"
	}
}

// state is the in-flight state a step runs in.
func (s Step) state() State {
	switch s {
	case StepResolveIdentity:
		return StateResolvingIdentity
	case StepDispatchPrint:
		return StateDispatchingPrint
	case StepInsertEntry:
		return StateInsertingEntry
	default:
		return StateIdle
	}
}
