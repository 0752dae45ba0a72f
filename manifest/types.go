// Package manifest defines the immutable workflow graph executed by the
// engine: nodes grouping blocks, blocks naming workers, and signal-driven
// transitions whose actions are parsed into typed values at load time.
//
// A block identifier is always "<node>.<block>". Node and block names must
// not contain the separator; a malformed identifier is a structural
// authoring error, never a recoverable condition.
package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// BlockIDSep separates the node and block components of a block identifier.
const BlockIDSep = "."

// SignalFailDefault is the reserved fallback signal consulted when a block
// has no transition for the signal a worker returned.
const SignalFailDefault = "FAIL_DEFAULT"

var (
	// ErrNodeNotFound is returned when a block id references an unknown node.
	ErrNodeNotFound = errors.New("node not found")
	// ErrBlockNotFound is returned when a block id references an unknown block.
	ErrBlockNotFound = errors.New("block not found")
	// ErrBadBlockID is returned for identifiers that are not "<node>.<block>".
	ErrBadBlockID = errors.New("malformed block identifier")
)

// Manifest is the authored workflow graph. It is immutable once loaded and
// shared read-only across the lifetime of a run.
type Manifest struct {
	Version string
	Nodes   map[string]*Node
}

// Node groups related blocks. A node owns static memory and an entry point
// but never executes logic itself.
type Node struct {
	// EntryBlock is the block name (not a full block id) execution enters at.
	EntryBlock string
	// ContextInheritance controls whether this node's static memory merges
	// with its call-stack ancestors' (true) or replaces them entirely
	// (false, a context boundary for self-contained subroutines).
	ContextInheritance bool
	// StaticMemory holds the node's fixed instructions and facts.
	StaticMemory map[string]string
	Blocks       map[string]*Block
}

// Block is the atomic unit of execution.
type Block struct {
	// Worker identifies the capability that performs this unit of work.
	Worker string
	// Merge lists the static-memory entries appended to the outbound context.
	Merge []MergeDirective
	// Transitions map worker signals to actions, in authored order.
	Transitions []Transition
}

// Transition routes a signal to an action.
type Transition struct {
	OnSignal string
	Action   Action
}

// SplitBlockID splits "<node>.<block>" into its components.
func SplitBlockID(id string) (node, block string, err error) {
	parts := strings.Split(id, BlockIDSep)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadBlockID, id)
	}
	return parts[0], parts[1], nil
}

// JoinBlockID builds a block identifier from a node and block name.
func JoinBlockID(node, block string) string {
	return node + BlockIDSep + block
}

// IsNodeRef reports whether id names a node only, with no block component.
// Such references arise from CALL actions and must be expanded to the target
// node's entry block before execution.
func IsNodeRef(id string) bool {
	return id != "" && !strings.Contains(id, BlockIDSep)
}

// Node returns the named node.
func (m *Manifest) Node(id string) (*Node, error) {
	node, ok := m.Nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	return node, nil
}

// Resolve resolves a full block id to its node and block definitions.
func (m *Manifest) Resolve(blockID string) (*Node, *Block, error) {
	nodeID, blockName, err := SplitBlockID(blockID)
	if err != nil {
		return nil, nil, err
	}
	node, err := m.Node(nodeID)
	if err != nil {
		return nil, nil, err
	}
	block, ok := node.Blocks[blockName]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrBlockNotFound, blockID)
	}
	return node, block, nil
}

// EntryBlockID returns the full block id of a node's entry block.
func (m *Manifest) EntryBlockID(nodeID string) (string, error) {
	node, err := m.Node(nodeID)
	if err != nil {
		return "", err
	}
	return JoinBlockID(nodeID, node.EntryBlock), nil
}

// FindTransition returns the first transition matching the signal exactly.
// The reserved FAIL_DEFAULT fallback is not consulted here; callers decide
// whether to fall back on a miss.
func (b *Block) FindTransition(signal string) (*Transition, bool) {
	for i := range b.Transitions {
		if b.Transitions[i].OnSignal == signal {
			return &b.Transitions[i], true
		}
	}
	return nil, false
}
