package manifest

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

// Format identifies the manifest file encoding.
type Format int

// Supported manifest encodings.
const (
	FormatJSON Format = iota
	FormatYAML
)

// manifestDoc and friends are the file representation of a manifest. The DSL
// strings they carry (actions, merge directives) are parsed into typed values
// while building the Manifest, so malformed authoring fails at load time.
type manifestDoc struct {
	Version string              `json:"version" yaml:"version"`
	Nodes   map[string]*nodeDoc `json:"nodes" yaml:"nodes"`
}

type nodeDoc struct {
	EntryBlock         string               `json:"entry_block" yaml:"entry_block"`
	ContextInheritance *bool                `json:"context_inheritance" yaml:"context_inheritance"`
	StaticMemory       map[string]string    `json:"static_memory" yaml:"static_memory"`
	Blocks             map[string]*blockDoc `json:"blocks" yaml:"blocks"`
}

type blockDoc struct {
	Worker      string          `json:"worker" yaml:"worker"`
	Merge       []string        `json:"merge" yaml:"merge"`
	Transitions []transitionDoc `json:"transitions" yaml:"transitions"`
}

type transitionDoc struct {
	OnSignal string `json:"on_signal" yaml:"on_signal"`
	Action   string `json:"action" yaml:"action"`
}

// SchemaError reports a manifest document that failed JSON-schema validation.
type SchemaError struct {
	Failures []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("manifest schema validation failed: %s", strings.Join(e.Failures, "; "))
}

// Load reads a manifest in the given format, validates it against the
// embedded JSON schema, and builds the typed Manifest. Structural rules
// beyond document shape (reference resolution, naming) are checked by
// Validate, which Load runs as a final step; validation warnings are
// discarded here — callers needing them should call Validate themselves.
func Load(r io.Reader, format Format) (*Manifest, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	jsonBytes := raw
	if format == FormatYAML {
		var v any
		if err := yaml.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("parse manifest yaml: %w", err)
		}
		if jsonBytes, err = json.Marshal(v); err != nil {
			return nil, fmt.Errorf("convert manifest yaml: %w", err)
		}
	}

	if err := validateSchema(jsonBytes); err != nil {
		return nil, err
	}

	var doc manifestDoc
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	m, err := doc.build()
	if err != nil {
		return nil, err
	}

	if result := Validate(m); result.HasErrors() {
		return nil, fmt.Errorf("invalid manifest: %s", strings.Join(result.Errors, "; "))
	}
	return m, nil
}

// LoadFile loads a manifest from disk, selecting the format by extension
// (.yaml/.yml for YAML, everything else JSON).
func LoadFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	format := FormatJSON
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		format = FormatYAML
	}
	return Load(f, format)
}

// validateSchema validates raw JSON bytes against the embedded schema.
func validateSchema(jsonBytes []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	docLoader := gojsonschema.NewBytesLoader(jsonBytes)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	se := &SchemaError{}
	for _, e := range result.Errors() {
		se.Failures = append(se.Failures, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return se
}

// build converts the document form into the typed Manifest, parsing every
// action and merge directive exactly once.
func (doc *manifestDoc) build() (*Manifest, error) {
	m := &Manifest{
		Version: doc.Version,
		Nodes:   make(map[string]*Node, len(doc.Nodes)),
	}
	for nodeID, nd := range doc.Nodes {
		node := &Node{
			EntryBlock:         nd.EntryBlock,
			ContextInheritance: true,
			StaticMemory:       nd.StaticMemory,
			Blocks:             make(map[string]*Block, len(nd.Blocks)),
		}
		if nd.ContextInheritance != nil {
			node.ContextInheritance = *nd.ContextInheritance
		}
		if node.StaticMemory == nil {
			node.StaticMemory = map[string]string{}
		}
		for blockName, bd := range nd.Blocks {
			block := &Block{Worker: bd.Worker}
			for _, raw := range bd.Merge {
				directive, err := ParseMergeDirective(raw)
				if err != nil {
					return nil, fmt.Errorf("node %q block %q: %w", nodeID, blockName, err)
				}
				block.Merge = append(block.Merge, directive)
			}
			for _, td := range bd.Transitions {
				action, err := ParseAction(td.Action)
				if err != nil {
					return nil, fmt.Errorf("node %q block %q signal %q: %w", nodeID, blockName, td.OnSignal, err)
				}
				block.Transitions = append(block.Transitions, Transition{
					OnSignal: td.OnSignal,
					Action:   action,
				})
			}
			node.Blocks[blockName] = block
		}
		m.Nodes[nodeID] = node
	}
	return m, nil
}
