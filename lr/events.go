package lr

import "fmt"

// EventKind classifies construction events.
type EventKind uint8

// Kinds of construction events.
const (
	StateAdded       EventKind = iota + 1 // a new state has been discovered
	TransitionAdded                       // an edge has been recorded
	StatesMerged                          // canonical states have been merged into an LALR(1) state
	ConflictRecorded                      // a table cell received a competing action
)

func (k EventKind) String() string {
	switch k {
	case StateAdded:
		return "state-added"
	case TransitionAdded:
		return "transition-added"
	case StatesMerged:
		return "states-merged"
	case ConflictRecorded:
		return "conflict-recorded"
	}
	return "unknown-event"
}

// Event is a structured trace entry of automaton and table construction.
// Which fields are set depends on the kind of event.
type Event struct {
	Kind    EventKind
	State   int    // state concerned
	Symbol  Symbol // edge label or table column
	Target  int    // target of an edge
	Size    int    // number of items of a new state
	Members []int  // canonical states merged into State
}

func (ev Event) String() string {
	switch ev.Kind {
	case StateAdded:
		return fmt.Sprintf("%s %d [%d items]", ev.Kind, ev.State, ev.Size)
	case TransitionAdded:
		return fmt.Sprintf("%s %d --%s--> %d", ev.Kind, ev.State, ev.Symbol, ev.Target)
	case StatesMerged:
		return fmt.Sprintf("%s %d ← %v", ev.Kind, ev.State, ev.Members)
	}
	return fmt.Sprintf("%s %d on %s", ev.Kind, ev.State, ev.Symbol)
}
