package engine

import "github.com/ZapoVerde/robosmith/payload"

// BlockStatus is the lifecycle state of a block within a run.
type BlockStatus string

// Block statuses.
const (
	StatusPending  BlockStatus = "pending"
	StatusActive   BlockStatus = "active"
	StatusComplete BlockStatus = "complete"
)

// TransitionRecord describes the last transition a run took. To is empty
// when the run terminated from From.
type TransitionRecord struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Signal string `json:"signal"`
}

// Snapshot is the engine's published view of a run after a step. Snapshots
// are deep copies; consumers may retain them.
type Snapshot struct {
	BlockStatuses  map[string]BlockStatus `json:"block_statuses"`
	LastTransition *TransitionRecord      `json:"last_transition,omitempty"`
	Payload        *payload.Payload       `json:"payload"`
}

// SnapshotListener receives run snapshots. Listeners are invoked
// synchronously in step order: a consumer never observes step N+1's
// snapshot before step N's.
type SnapshotListener func(*Snapshot)

// publish builds a snapshot from current state and hands it to every
// listener. A panicking listener is isolated so it cannot kill the run.
func (e *Engine) publish() {
	if len(e.listeners) == 0 {
		return
	}

	statuses := make(map[string]BlockStatus, len(e.statuses))
	for id, st := range e.statuses {
		statuses[id] = st
	}
	snap := &Snapshot{
		BlockStatuses: statuses,
		Payload:       e.state.Payload.Clone(),
	}
	if e.lastTransition != nil {
		tr := *e.lastTransition
		snap.LastTransition = &tr
	}

	for _, listener := range e.listeners {
		safeNotify(listener, snap)
	}
}

func safeNotify(listener SnapshotListener, snap *Snapshot) {
	defer func() { _ = recover() }()
	listener(snap)
}
