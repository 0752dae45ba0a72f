package manifest

import "strings"

// MergeSource identifies where a merge directive pulls content from.
type MergeSource int

// Merge sources.
const (
	// MergeStaticMemory pulls an entry from the node's effective static
	// memory (own entries plus inherited ancestors, unless the node is a
	// context boundary).
	MergeStaticMemory MergeSource = iota
)

// MergeDirective names a memory entry to append to a block's outbound
// context. Directives are applied in authored order, after the running
// payload.
type MergeDirective struct {
	Source MergeSource
	Key    string
}

// ParseMergeDirective parses "MERGE:STATIC_MEMORY:<key>" into a typed
// directive. Malformed directives are fatal parse errors.
func ParseMergeDirective(s string) (MergeDirective, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] != "MERGE" {
		return MergeDirective{}, &ParseError{Input: s, Reason: "merge directives have the form MERGE:<source>:<key>"}
	}
	if parts[1] != "STATIC_MEMORY" {
		return MergeDirective{}, &ParseError{Input: s, Reason: "unknown merge source " + parts[1]}
	}
	if parts[2] == "" {
		return MergeDirective{}, &ParseError{Input: s, Reason: "merge directive key is empty"}
	}
	return MergeDirective{Source: MergeStaticMemory, Key: parts[2]}, nil
}
