// Package memory assembles the outbound worker context for a block: the
// full running payload followed by the static-memory entries the block's
// merge directives name.
//
// Static memory a block does not explicitly merge is never injected: a
// block's outbound context is fully described by the payload and its own
// directives.
package memory

import (
	"errors"
	"fmt"

	"github.com/ZapoVerde/robosmith/manifest"
	"github.com/ZapoVerde/robosmith/payload"
)

// ErrUnknownMemoryKey is returned when a merge directive names an entry
// absent from the node's effective static memory.
var ErrUnknownMemoryKey = errors.New("static memory key not found")

// Assemble builds the ordered context handed to a worker for the block at
// blockID. It is a pure function: identical inputs always produce an
// identical segment sequence. Assembled static-memory segments carry
// deterministic IDs and zero timestamps for that reason.
func Assemble(m *manifest.Manifest, blockID string, p *payload.Payload, stack []string) ([]payload.Segment, error) {
	nodeID, _, err := manifest.SplitBlockID(blockID)
	if err != nil {
		return nil, err
	}
	node, block, err := m.Resolve(blockID)
	if err != nil {
		return nil, err
	}

	effective := effectiveMemory(m, nodeID, node, stack)

	out := make([]payload.Segment, 0, p.Len()+len(block.Merge))
	out = append(out, p.Segments...)

	for _, directive := range block.Merge {
		content, ok := effective[directive.Key]
		if !ok {
			return nil, fmt.Errorf("block %q merges %q: %w", blockID, directive.Key, ErrUnknownMemoryKey)
		}
		out = append(out, payload.Segment{
			ID:      "memory." + nodeID + "." + directive.Key,
			Type:    payload.TypeStaticMemory,
			Content: content,
		})
	}
	return out, nil
}

// effectiveMemory computes the static memory visible to a node. Ancestors
// are the nodes owning the return addresses on the call stack, walked from
// the most recent caller backward; a nearer definition of a key shadows a
// farther one, and the node's own entries shadow all ancestors. A node with
// ContextInheritance disabled is a context boundary: it sees only its own
// entries.
func effectiveMemory(m *manifest.Manifest, nodeID string, node *manifest.Node, stack []string) map[string]string {
	if !node.ContextInheritance {
		return node.StaticMemory
	}

	effective := make(map[string]string)
	// Farthest caller first, so nearer ancestors overwrite.
	for i := 0; i < len(stack); i++ {
		ancestorID, _, err := manifest.SplitBlockID(stack[i])
		if err != nil {
			continue
		}
		ancestor, err := m.Node(ancestorID)
		if err != nil {
			continue
		}
		for k, v := range ancestor.StaticMemory {
			effective[k] = v
		}
	}
	for k, v := range node.StaticMemory {
		effective[k] = v
	}
	return effective
}
