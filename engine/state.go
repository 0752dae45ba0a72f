package engine

import "github.com/ZapoVerde/robosmith/payload"

// RunState is the complete mutable state of a run: the triple an external
// store serializes to pause a run and re-injects to resume it. Everything
// else the engine tracks (block statuses, last transition) is derivable or
// cosmetic.
type RunState struct {
	CurrentBlockID string           `json:"current_block_id"`
	Payload        *payload.Payload `json:"payload"`
	CallStack      []string         `json:"call_stack"`
}

// Clone returns a deep copy of the run state.
func (s *RunState) Clone() *RunState {
	c := &RunState{CurrentBlockID: s.CurrentBlockID}
	if s.Payload != nil {
		c.Payload = s.Payload.Clone()
	}
	if s.CallStack != nil {
		c.CallStack = append([]string(nil), s.CallStack...)
	}
	return c
}
