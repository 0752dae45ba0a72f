package engine

import "github.com/ZapoVerde/robosmith/manifest"

// resolveTransition computes the next block id and call stack for a typed
// action. An empty next id signals graceful termination. Actions reach this
// point already validated — malformed DSL strings are rejected when the
// manifest is loaded — so every kind resolves deterministically:
//
//   - Jump keeps the stack and moves to the target block.
//   - Call pushes the return address and moves to the target node; the
//     caller expands the node reference to its entry block.
//   - Return pops the stack, or terminates when the stack is empty.
//   - Hold terminates, keeping the stack.
func resolveTransition(a manifest.Action, stack []string) (next string, nextStack []string) {
	switch a.Kind {
	case manifest.ActionJump:
		return a.Target, stack
	case manifest.ActionCall:
		nextStack = append(append([]string(nil), stack...), a.Return)
		return a.Target, nextStack
	case manifest.ActionReturn:
		if len(stack) == 0 {
			return "", stack
		}
		return stack[len(stack)-1], stack[:len(stack)-1]
	default: // manifest.ActionHold
		return "", stack
	}
}
