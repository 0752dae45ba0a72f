package manifest

import (
	"fmt"
	"strings"
)

// ActionKind discriminates the typed transition actions.
type ActionKind int

// Action kinds.
const (
	// ActionJump transfers control to a block, keeping the call stack.
	ActionJump ActionKind = iota
	// ActionCall pushes a return block and transfers control to a node,
	// which the engine expands to that node's entry block.
	ActionCall
	// ActionReturn pops the call stack; on an empty stack the run
	// terminates gracefully.
	ActionReturn
	// ActionHold is a reserved no-op verb. It parses successfully and the
	// engine treats it as a graceful stop.
	ActionHold
)

// String returns the DSL verb for the kind.
func (k ActionKind) String() string {
	switch k {
	case ActionJump:
		return "JUMP"
	case ActionCall:
		return "CALL"
	case ActionReturn:
		return "RETURN"
	case ActionHold:
		return "HOLD"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is the parsed form of a transition's DSL string. Actions are parsed
// exhaustively once, when the manifest is loaded, so the engine never
// re-parses strings per step.
type Action struct {
	Kind ActionKind
	// Target is the destination block id (Jump) or node id (Call).
	Target string
	// Return is the return block id pushed by Call.
	Return string
}

// ParseError reports a malformed action or merge directive string.
type ParseError struct {
	Input  string
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

// ParseAction parses a DSL action string into a typed Action. Unknown verbs
// and missing or empty components are fatal parse errors, never silently
// defaulted.
func ParseAction(s string) (Action, error) {
	verb, rest, _ := strings.Cut(s, ":")
	switch verb {
	case "JUMP":
		if rest == "" {
			return Action{}, &ParseError{Input: s, Reason: "JUMP requires a target block id"}
		}
		if _, _, err := SplitBlockID(rest); err != nil {
			return Action{}, &ParseError{Input: s, Reason: "JUMP target must be <node>.<block>"}
		}
		return Action{Kind: ActionJump, Target: rest}, nil
	case "CALL":
		target, ret, ok := strings.Cut(rest, ":")
		if !ok || target == "" || ret == "" {
			return Action{}, &ParseError{Input: s, Reason: "CALL requires a target node and a return block id"}
		}
		if strings.Contains(target, BlockIDSep) {
			return Action{}, &ParseError{Input: s, Reason: "CALL target must be a node id"}
		}
		if _, _, err := SplitBlockID(ret); err != nil {
			return Action{}, &ParseError{Input: s, Reason: "CALL return address must be <node>.<block>"}
		}
		return Action{Kind: ActionCall, Target: target, Return: ret}, nil
	case "RETURN":
		if rest != "" {
			return Action{}, &ParseError{Input: s, Reason: "RETURN takes no arguments"}
		}
		return Action{Kind: ActionReturn}, nil
	case "HOLD":
		if rest != "" {
			return Action{}, &ParseError{Input: s, Reason: "HOLD takes no arguments"}
		}
		return Action{Kind: ActionHold}, nil
	default:
		return Action{}, &ParseError{Input: s, Reason: "unrecognized command"}
	}
}

// String renders the action back to its DSL form.
func (a Action) String() string {
	switch a.Kind {
	case ActionJump:
		return "JUMP:" + a.Target
	case ActionCall:
		return "CALL:" + a.Target + ":" + a.Return
	default:
		return a.Kind.String()
	}
}
