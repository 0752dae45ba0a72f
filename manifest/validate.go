package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ValidationResult holds errors and warnings from manifest validation.
type ValidationResult struct {
	Errors   []string // Blocking: invalid references, malformed names
	Warnings []string // Non-blocking: duplicate signals, unreferenced nodes
}

// HasErrors returns true if there are blocking validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Validate checks the structural rules a manifest must satisfy beyond its
// document shape: version format, naming discipline, entry-block existence,
// and resolvability of every transition target.
func Validate(m *Manifest) *ValidationResult {
	r := &ValidationResult{}

	validateVersion(m, r)
	if len(m.Nodes) == 0 {
		r.Errors = append(r.Errors, "manifest defines no nodes")
		return r
	}

	for _, nodeID := range sortedNodeIDs(m) {
		validateNode(m, nodeID, r)
	}
	validateReferences(m, r)

	return r
}

// validateVersion checks the manifest version is a valid semantic version.
// An absent version is tolerated with a warning for manifests authored
// before versioning was introduced.
func validateVersion(m *Manifest, r *ValidationResult) {
	if m.Version == "" {
		r.Warnings = append(r.Warnings, "manifest has no version")
		return
	}
	if _, err := semver.StrictNewVersion(strings.TrimPrefix(m.Version, "v")); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("manifest version %q is not a semantic version", m.Version))
	}
}

func validateNode(m *Manifest, nodeID string, r *ValidationResult) {
	node := m.Nodes[nodeID]

	if nodeID == "" || strings.Contains(nodeID, BlockIDSep) {
		r.Errors = append(r.Errors, fmt.Sprintf("node name %q is empty or contains %q", nodeID, BlockIDSep))
	}
	if _, ok := node.Blocks[node.EntryBlock]; !ok {
		r.Errors = append(r.Errors, fmt.Sprintf("node %q entry block %q is not defined", nodeID, node.EntryBlock))
	}

	for _, blockName := range sortedBlockNames(node) {
		if blockName == "" || strings.Contains(blockName, BlockIDSep) {
			r.Errors = append(r.Errors, fmt.Sprintf("node %q block name %q is empty or contains %q", nodeID, blockName, BlockIDSep))
			continue
		}
		validateBlock(m, nodeID, blockName, r)
	}
}

func validateBlock(m *Manifest, nodeID, blockName string, r *ValidationResult) {
	block := m.Nodes[nodeID].Blocks[blockName]
	loc := JoinBlockID(nodeID, blockName)

	if block.Worker == "" {
		r.Errors = append(r.Errors, fmt.Sprintf("block %q has no worker", loc))
	}

	seen := make(map[string]bool, len(block.Transitions))
	for _, tr := range block.Transitions {
		if seen[tr.OnSignal] {
			r.Warnings = append(r.Warnings, fmt.Sprintf("block %q defines signal %q more than once; only the first is reachable", loc, tr.OnSignal))
		}
		seen[tr.OnSignal] = true
		validateAction(m, loc, tr, r)
	}
}

func validateAction(m *Manifest, loc string, tr Transition, r *ValidationResult) {
	switch tr.Action.Kind {
	case ActionJump:
		if _, _, err := m.Resolve(tr.Action.Target); err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("block %q signal %q: JUMP target %q does not resolve", loc, tr.OnSignal, tr.Action.Target))
		}
	case ActionCall:
		if _, err := m.Node(tr.Action.Target); err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("block %q signal %q: CALL target node %q does not exist", loc, tr.OnSignal, tr.Action.Target))
		}
		if _, _, err := m.Resolve(tr.Action.Return); err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("block %q signal %q: CALL return address %q does not resolve", loc, tr.OnSignal, tr.Action.Return))
		}
	case ActionReturn, ActionHold:
		// No targets to check.
	}
}

// validateReferences warns about nodes no transition ever targets. Such a
// node is only reachable as a run's start node, which is intentional for a
// manifest's root but usually an authoring mistake elsewhere, so single-node
// manifests and a single unreferenced node are left alone.
func validateReferences(m *Manifest, r *ValidationResult) {
	referenced := make(map[string]bool, len(m.Nodes))
	for _, node := range m.Nodes {
		for _, block := range node.Blocks {
			for _, tr := range block.Transitions {
				switch tr.Action.Kind {
				case ActionJump:
					if nodeID, _, err := SplitBlockID(tr.Action.Target); err == nil {
						referenced[nodeID] = true
					}
				case ActionCall:
					referenced[tr.Action.Target] = true
				}
			}
		}
	}

	var unreferenced []string
	for _, nodeID := range sortedNodeIDs(m) {
		if !referenced[nodeID] {
			unreferenced = append(unreferenced, nodeID)
		}
	}
	if len(unreferenced) > 1 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("nodes %s are not referenced by any transition; only one start node is expected", strings.Join(unreferenced, ", ")))
	}
}

func sortedNodeIDs(m *Manifest) []string {
	ids := make([]string, 0, len(m.Nodes))
	for id := range m.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedBlockNames(node *Node) []string {
	names := make([]string, 0, len(node.Blocks))
	for name := range node.Blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
