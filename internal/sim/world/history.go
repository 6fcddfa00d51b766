package world

// EventKind is a closed enum of history event types.
type EventKind uint8

const (
	EventWorldGenerated EventKind = iota
	EventAgentSpawned
	EventAgentDied
)

func (k EventKind) String() string {
	switch k {
	case EventWorldGenerated:
		return "WORLD_GENERATED"
	case EventAgentSpawned:
		return "AGENT_SPAWNED"
	case EventAgentDied:
		return "AGENT_DIED"
	}
	return "UNKNOWN"
}

// HistoryEvent is one append-only log entry. Entries are never mutated after
// being appended.
type HistoryEvent struct {
	Tick uint64
	Kind EventKind

	// Location is optional; HasLocation distinguishes (0,0) from "none".
	HasLocation bool
	X, Y        int

	Detail string
}

func (w *World) logEvent(e HistoryEvent) {
	w.history = append(w.history, e)
}

// History returns a copy of the append-only event log.
func (w *World) History() []HistoryEvent {
	out := make([]HistoryEvent, len(w.history))
	copy(out, w.history)
	return out
}
